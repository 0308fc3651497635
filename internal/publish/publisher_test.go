package publish

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"commit-digest/internal/model"
)

// MockIssueCreator is a mock of the IssueCreator interface.
type MockIssueCreator struct {
	mock.Mock
}

func (m *MockIssueCreator) CreateIssue(ctx context.Context, owner, name, title, body string) (*model.Issue, error) {
	args := m.Called(ctx, owner, name, title, body)
	issue, _ := args.Get(0).(*model.Issue)
	return issue, args.Error(1)
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	target := model.RepoIdentifier{Owner: "acme", Name: "reports"}

	t.Run("logs the created issue", func(t *testing.T) {
		var buf bytes.Buffer
		creator := new(MockIssueCreator)
		want := &model.Issue{Number: 7, URL: "https://github.com/acme/reports/issues/7"}
		creator.On("CreateIssue", ctx, "acme", "reports", "title", "body").Return(want, nil).Once()

		issue, err := NewPublisher(creator, bufferLogger(&buf)).Publish(ctx, target, "title", "body")

		require.NoError(t, err)
		assert.Equal(t, want, issue)
		assert.Contains(t, buf.String(), `"msg":"Issue created"`)
		assert.Contains(t, buf.String(), `"number":7`)
		assert.Contains(t, buf.String(), `"issue":"#7"`)
		creator.AssertExpectations(t)
	})

	t.Run("logs status and message of an API error", func(t *testing.T) {
		var buf bytes.Buffer
		creator := new(MockIssueCreator)
		apiErr := &gh.ErrorResponse{
			Response: &http.Response{StatusCode: http.StatusGone, Request: &http.Request{Method: http.MethodPost, URL: &url.URL{Path: "/repos/acme/reports/issues"}}},
			Message:  "Issues are disabled for this repo",
		}
		creator.On("CreateIssue", ctx, "acme", "reports", "t", "b").Return(nil, apiErr).Once()

		issue, err := NewPublisher(creator, bufferLogger(&buf)).Publish(ctx, target, "t", "b")

		assert.Nil(t, issue)
		assert.ErrorIs(t, err, apiErr)
		assert.Contains(t, buf.String(), `"status":410`)
		assert.Contains(t, buf.String(), `"message":"Issues are disabled for this repo"`)
	})

	t.Run("logs a generic error", func(t *testing.T) {
		var buf bytes.Buffer
		creator := new(MockIssueCreator)
		creator.On("CreateIssue", ctx, "acme", "reports", "t", "b").Return(nil, errors.New("dial tcp: timeout")).Once()

		_, err := NewPublisher(creator, bufferLogger(&buf)).Publish(ctx, target, "t", "b")

		assert.Error(t, err)
		assert.Contains(t, buf.String(), `"error":"dial tcp: timeout"`)
	})
}
