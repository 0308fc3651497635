package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"commit-digest/internal/database"
)

// MockQuerier is a mock of the database.Querier interface.
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) CreateDigest(ctx context.Context, arg database.CreateDigestParams) (database.Digest, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Digest), args.Error(1)
}
func (m *MockQuerier) CreateDigestCommits(ctx context.Context, arg []database.CreateDigestCommitsParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) GetLatestDigestByDate(ctx context.Context, reportDate pgtype.Date) (database.Digest, error) {
	args := m.Called(ctx, reportDate)
	return args.Get(0).(database.Digest), args.Error(1)
}
func (m *MockQuerier) ListDigestCommits(ctx context.Context, digestID int64) ([]database.DigestCommit, error) {
	args := m.Called(ctx, digestID)
	return args.Get(0).([]database.DigestCommit), args.Error(1)
}
func (m *MockQuerier) ListDigests(ctx context.Context, limit int32) ([]database.Digest, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]database.Digest), args.Error(1)
}

func serve(t *testing.T, db database.Querier, target string) *httptest.ResponseRecorder {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rec := httptest.NewRecorder()
	NewRouter(db, logger).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

var jan1 = pgtype.Date{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true}

func TestHealthCheck(t *testing.T) {
	rec := serve(t, new(MockQuerier), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestListDigests(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		db := new(MockQuerier)
		db.On("ListDigests", mock.Anything, int32(10)).
			Return([]database.Digest{{ID: 2, Title: "仓库更新报告 (2024-01-01)", ReportDate: jan1}}, nil).Once()

		rec := serve(t, db, "/v1/digests")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var got []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "2024-01-01", got[0]["report_date"])
		assert.Nil(t, got[0]["issue_number"])
		db.AssertExpectations(t)
	})

	t.Run("explicit limit", func(t *testing.T) {
		db := new(MockQuerier)
		db.On("ListDigests", mock.Anything, int32(100)).Return([]database.Digest{}, nil).Once()

		rec := serve(t, db, "/v1/digests?limit=100")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	for _, limit := range []string{"0", "101", "-3", "ten"} {
		t.Run("invalid limit "+limit, func(t *testing.T) {
			db := new(MockQuerier)

			rec := serve(t, db, "/v1/digests?limit="+limit)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorBody(t, rec), "limit")
			db.AssertNotCalled(t, "ListDigests", mock.Anything, mock.Anything)
		})
	}

	t.Run("database failure", func(t *testing.T) {
		db := new(MockQuerier)
		db.On("ListDigests", mock.Anything, int32(10)).Return([]database.Digest(nil), errors.New("conn closed")).Once()

		rec := serve(t, db, "/v1/digests")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", errorBody(t, rec))
	})
}

func TestGetDigest(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := new(MockQuerier)
		db.On("GetLatestDigestByDate", mock.Anything, jan1).
			Return(database.Digest{ID: 3, ReportDate: jan1, Body: "# 每日更新报告（2024-01-01）\n\n"}, nil).Once()

		rec := serve(t, db, "/v1/digests/2024-01-01")

		require.Equal(t, http.StatusOK, rec.Code)
		var got database.Digest
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int64(3), got.ID)
		assert.Equal(t, "# 每日更新报告（2024-01-01）\n\n", got.Body)
	})

	t.Run("not found", func(t *testing.T) {
		db := new(MockQuerier)
		db.On("GetLatestDigestByDate", mock.Anything, jan1).Return(database.Digest{}, pgx.ErrNoRows).Once()

		rec := serve(t, db, "/v1/digests/2024-01-01")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Digest not found", errorBody(t, rec))
	})

	t.Run("bad date", func(t *testing.T) {
		db := new(MockQuerier)

		rec := serve(t, db, "/v1/digests/2024-13-45")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		db.AssertNotCalled(t, "GetLatestDigestByDate", mock.Anything, mock.Anything)
	})
}

func TestGetDigestCommits(t *testing.T) {
	t.Run("lists the commits of the latest digest", func(t *testing.T) {
		db := new(MockQuerier)
		db.On("GetLatestDigestByDate", mock.Anything, jan1).Return(database.Digest{ID: 9}, nil).Once()
		db.On("ListDigestCommits", mock.Anything, int64(9)).Return([]database.DigestCommit{
			{ID: 1, DigestID: 9, Repository: "acme/one", Sha: "abc", Analysis: pgtype.Text{String: "ok", Valid: true}},
		}, nil).Once()

		rec := serve(t, db, "/v1/digests/2024-01-01/commits")

		require.Equal(t, http.StatusOK, rec.Code)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "acme/one", got[0]["repository"])
		assert.Equal(t, "ok", got[0]["analysis"])
		db.AssertExpectations(t)
	})

	t.Run("missing digest", func(t *testing.T) {
		db := new(MockQuerier)
		db.On("GetLatestDigestByDate", mock.Anything, jan1).Return(database.Digest{}, pgx.ErrNoRows).Once()

		rec := serve(t, db, "/v1/digests/2024-01-01/commits")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		db.AssertNotCalled(t, "ListDigestCommits", mock.Anything, mock.Anything)
	})
}
