package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commit-digest/internal/model"
)

var utc8 = time.FixedZone("UTC+8", 8*60*60)

func sampleCommits() []model.Commit {
	return []model.Commit{
		{
			SHA:        "c3",
			AuthorName: "carol",
			CommitDate: time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC),
			Message:    "feat: add a|b switch\n\nLonger body line\nSigned-off-by: Carol <c@example.com>",
		},
		{
			SHA:        "c2",
			AuthorName: "bob",
			CommitDate: time.Date(2024, 1, 1, 2, 0, 5, 0, time.UTC),
			Message:    "fix: typo",
		},
	}
}

func TestFormatter_Table(t *testing.T) {
	f := NewFormatter(utc8, ModeJoined)

	t.Run("renders one row per commit", func(t *testing.T) {
		got := f.Table(sampleCommits())

		want := "| 提交时间 | 作者 | 提交信息 |\n" +
			"|----------|------|----------|\n" +
			"| 2024-01-01 23:30:00 | carol | feat: add a\\|b switch<br>Longer body line |\n" +
			"| 2024-01-01 10:00:05 | bob | fix: typo |\n" +
			"\n"
		assert.Equal(t, want, got)
	})

	t.Run("zero commits render header, separator and blank line", func(t *testing.T) {
		got := f.Table(nil)

		assert.Equal(t, "| 提交时间 | 作者 | 提交信息 |\n|----------|------|----------|\n\n", got)
	})

	t.Run("always starts with the header and ends with one blank line", func(t *testing.T) {
		for _, commits := range [][]model.Commit{nil, sampleCommits()[:1], sampleCommits()} {
			got := f.Table(commits)
			assert.True(t, strings.HasPrefix(got, headerRow+separatorRow))
			assert.True(t, strings.HasSuffix(got, "|\n\n"))
			assert.False(t, strings.HasSuffix(got, "\n\n\n"))
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		commits := sampleCommits()
		assert.Equal(t, f.Table(commits), f.Table(commits))
	})

	t.Run("escaped pipes keep the column count", func(t *testing.T) {
		got := f.Table([]model.Commit{{AuthorName: "x", Message: "a|b"}})

		row := strings.Split(got, "\n")[2]
		assert.Contains(t, row, `a\|b`)
		unescaped := strings.Count(row, "|") - strings.Count(row, `\|`)
		assert.Equal(t, 4, unescaped)

		for _, mode := range []MessageMode{ModeJoined, ModeRows} {
			got := NewFormatter(utc8, mode).Table([]model.Commit{{AuthorName: "dev|ops bot", Message: "fix\nmore|detail"}})
			for _, row := range strings.Split(strings.TrimSpace(got), "\n")[2:] {
				unescaped := strings.Count(row, "|") - strings.Count(row, `\|`)
				assert.Equal(t, 4, unescaped, "%s: %q", mode, row)
			}
			assert.Contains(t, got, `| dev\|ops bot |`)
		}
	})

	t.Run("trailer-only message renders an empty cell", func(t *testing.T) {
		got := f.Table([]model.Commit{{
			AuthorName: "dave",
			CommitDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Message:    "Signed-off-by: Dave <d@example.com>\nCo-authored-by: Eve <e@example.com>",
		}})

		assert.Contains(t, got, "| 2024-01-01 08:00:00 | dave |  |\n")
		assert.NotContains(t, got, "Signed-off-by")
	})
}

func TestFormatter_TableRowsMode(t *testing.T) {
	f := NewFormatter(utc8, ModeRows)

	got := f.Table(sampleCommits())

	want := "| 提交时间 | 作者 | 提交信息 |\n" +
		"|----------|------|----------|\n" +
		"| 2024-01-01 23:30:00 | carol | feat: add a\\|b switch |\n" +
		"|  |  | Longer body line |\n" +
		"| 2024-01-01 10:00:05 | bob | fix: typo |\n" +
		"\n"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "<br>")
}

func TestFormatter_MessageLines(t *testing.T) {
	f := NewFormatter(time.UTC, ModeJoined)

	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"single line", "fix: bug", []string{"fix: bug"}},
		{"drops blank lines", "a\n\n   \nb", []string{"a", "b"}},
		{"handles CRLF", "a\r\nb\r\n", []string{"a", "b"}},
		{"trailers are prefix matched", "x\nSigned-off-by: me\nCo-authored-by: you", []string{"x"}},
		{"trailer match is case-sensitive", "signed-off-by: me", []string{"signed-off-by: me"}},
		{"trailer must be a prefix", "see Signed-off-by below", []string{"see Signed-off-by below"}},
		{"escapes every pipe", "a|b|c", []string{`a\|b\|c`}},
		{"empty message", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.MessageLines(tc.message))
		})
	}
}

func TestFormatter_MessageAndTime(t *testing.T) {
	f := &Formatter{}

	assert.Equal(t, "a<br>b", f.Message("a\nb"))
	assert.Equal(t, "Signed-off-by: x", f.Message("Signed-off-by: x"), "no trailer keys configured")
	assert.Equal(t, "2024-01-01 00:00:00", f.FormatTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), "nil location is UTC")
}

func TestParseMessageMode(t *testing.T) {
	for in, want := range map[string]MessageMode{"": ModeJoined, "joined": ModeJoined, "ROWS": ModeRows} {
		got, err := ParseMessageMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMessageMode("table")
	assert.Error(t, err)
}
