package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYesterday(t *testing.T) {
	shanghai := time.FixedZone("UTC+8", 8*60*60)

	t.Run("uses the calendar day of the target zone", func(t *testing.T) {
		// 2024-03-10 17:30 UTC is already 2024-03-11 01:30 in UTC+8.
		now := time.Date(2024, 3, 10, 17, 30, 0, 0, time.UTC)

		w := Yesterday(now, shanghai)

		assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, shanghai), w.Since)
		assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 999999000, shanghai), w.Until)
		assert.Equal(t, "2024-03-10", w.Date())
	})

	t.Run("crosses month boundaries", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 9, 0, 0, 0, shanghai)

		w := Yesterday(now, shanghai)

		assert.Equal(t, "2024-02-29", w.Date())
		assert.True(t, w.Until.Sub(w.Since) < 24*time.Hour)
	})

	t.Run("nil location means UTC", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		w := Yesterday(now, nil)

		assert.Equal(t, "2023-12-31", w.Date())
		assert.Equal(t, time.UTC, w.Since.Location())
	})

	t.Run("recomputed from the given instant", func(t *testing.T) {
		first := Yesterday(time.Date(2024, 5, 2, 12, 0, 0, 0, shanghai), shanghai)
		second := Yesterday(time.Date(2024, 5, 3, 12, 0, 0, 0, shanghai), shanghai)

		require.NotEqual(t, first, second)
		assert.Equal(t, first.Since.AddDate(0, 0, 1), second.Since)
	})
}

func TestWindow_Contains(t *testing.T) {
	w := Yesterday(time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC), time.UTC)

	assert.True(t, w.Contains(w.Since))
	assert.True(t, w.Contains(w.Until))
	assert.False(t, w.Contains(w.Since.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.Until.Add(time.Microsecond)))
}
