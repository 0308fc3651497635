package digest

import (
	"context"
	"log/slog"
	"time"

	"commit-digest/internal/github"
	"commit-digest/internal/model"
	"commit-digest/internal/window"
)

// CommitSource is the slice of the platform client the digest needs.
type CommitSource interface {
	GetRepository(ctx context.Context, owner, name string) (*model.Repository, error)
	ListCommits(ctx context.Context, owner, name string, since, until time.Time) ([]model.Commit, error)
	CommitFiles(ctx context.Context, owner, name, sha string) ([]model.FileChange, error)
}

// FetchStatus tells an empty window apart from a failed fetch.
type FetchStatus int

const (
	FetchOK FetchStatus = iota
	FetchEmpty
	FetchFailed
)

func (s FetchStatus) String() string {
	switch s {
	case FetchOK:
		return "ok"
	case FetchEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// FetchResult is the outcome of fetching one repository's commits.
// Commits is empty whenever Status is not FetchOK.
type FetchResult struct {
	Repo    model.RepoIdentifier
	Commits []model.Commit
	Status  FetchStatus
	Err     error
}

// Fetcher retrieves the commits of one repository for a window.
type Fetcher struct {
	source CommitSource
	logger *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(source CommitSource, logger *slog.Logger) *Fetcher {
	return &Fetcher{source: source, logger: logger}
}

// Fetch never fails: platform and transport errors are logged and reported
// as FetchFailed with no commits.
func (f *Fetcher) Fetch(ctx context.Context, id model.RepoIdentifier, w window.Window) FetchResult {
	logger := f.logger.With("owner", id.Owner, "repo", id.Name)
	result := FetchResult{Repo: id}

	repo, err := f.source.GetRepository(ctx, id.Owner, id.Name)
	if err != nil {
		logger.Error("Failed to get repository", github.ErrorAttrs(err)...)
		result.Status = FetchFailed
		result.Err = err
		return result
	}
	logger.Info("Repository info", "full_name", repo.FullName, "stars", repo.StarsCount)

	logger.Info("Fetching commits", "since", w.Since.Format(time.RFC3339), "until", w.Until.Format(time.RFC3339Nano))
	commits, err := f.source.ListCommits(ctx, id.Owner, id.Name, w.Since, w.Until)
	if err != nil {
		logger.Error("Failed to fetch commits", github.ErrorAttrs(err)...)
		result.Status = FetchFailed
		result.Err = err
		return result
	}

	if len(commits) == 0 {
		logger.Info("No commits found")
		result.Status = FetchEmpty
		return result
	}

	logger.Info("Fetched commits", "count", len(commits))
	// The platform filters on committer date; the table shows author date.
	for _, c := range commits {
		if !w.Contains(c.CommitDate) {
			logger.Debug("Commit authored outside window", "sha", c.ShortSHA(), "authored", c.CommitDate.Format(time.RFC3339))
		}
	}
	result.Status = FetchOK
	result.Commits = commits
	return result
}
