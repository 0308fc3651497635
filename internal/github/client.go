// internal/github/client.go
package github

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"commit-digest/internal/model"
)

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// A non-empty token is used to create an authenticated http.Client; an empty
// token yields an anonymous client with the public rate limit.
func NewClient(token string, logger *slog.Logger) *Client {
	if token == "" {
		return &Client{
			gh:     github.NewClient(nil),
			logger: logger,
		}
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
	}
}

// WithBaseURL points the client at a GitHub Enterprise or test server.
func (c *Client) WithBaseURL(baseURL string) (*Client, error) {
	gh, err := c.gh.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{gh: gh, logger: c.logger}, nil
}

// RateLimit returns the caller's core API quota.
func (c *Client) RateLimit(ctx context.Context) (model.RateLimit, error) {
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return model.RateLimit{}, err
	}
	core := limits.GetCore()
	if core == nil {
		return model.RateLimit{}, nil
	}
	return model.RateLimit{Limit: core.Limit, Remaining: core.Remaining}, nil
}

// GetRepository fetches repository details and translates them to our internal model.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*model.Repository, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	return toInternalRepository(repo), nil
}

// ListCommits fetches all commits for a repository made between since and until.
// It follows API pagination transparently and keeps the platform's order.
func (c *Client) ListCommits(ctx context.Context, owner, name string, since, until time.Time) ([]model.Commit, error) {
	var allCommits []model.Commit

	opts := &github.CommitsListOptions{
		Since: since,
		Until: until,
		ListOptions: github.ListOptions{
			PerPage: 100, // Max per page
		},
	}

	for {
		c.logger.Debug("Fetching commits page", "owner", owner, "repo", name, "page", opts.Page)

		commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, err
		}

		for _, commit := range commits {
			allCommits = append(allCommits, toInternalCommit(commit))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allCommits, nil
}

// CommitFiles loads the file-level changes of a single commit, following
// pagination for commits that touch many files.
func (c *Client) CommitFiles(ctx context.Context, owner, name, sha string) ([]model.FileChange, error) {
	opts := &github.ListOptions{PerPage: 100}
	var files []model.FileChange

	for {
		commit, resp, err := c.gh.Repositories.GetCommit(ctx, owner, name, sha, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range commit.Files {
			files = append(files, toInternalFileChange(f))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if files == nil {
		files = []model.FileChange{}
	}
	return files, nil
}

// CreateIssue opens an issue on the given repository.
func (c *Client) CreateIssue(ctx context.Context, owner, name, title, body string) (*model.Issue, error) {
	issue, _, err := c.gh.Issues.Create(ctx, owner, name, &github.IssueRequest{
		Title: github.String(title),
		Body:  github.String(body),
	})
	if err != nil {
		return nil, err
	}
	return &model.Issue{Number: issue.GetNumber(), URL: issue.GetHTMLURL()}, nil
}

// ErrorDetail extracts the HTTP status and platform message from a GitHub
// error response. ok is false for any other error.
func ErrorDetail(err error) (status int, message string, ok bool) {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return 0, "", false
	}
	if ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	}
	return status, ghErr.Message, true
}

// ErrorAttrs returns slog attributes describing err, including status and
// platform message when available.
func ErrorAttrs(err error) []any {
	if status, message, ok := ErrorDetail(err); ok {
		return []any{"status", status, "message", message}
	}
	return []any{"error", err}
}

// toInternalRepository translates a github.Repository object to our internal model.Repository.
func toInternalRepository(r *github.Repository) *model.Repository {
	return &model.Repository{
		GithubRepoID:  r.GetID(),
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.Description,
		URL:           r.GetHTMLURL(),
		StarsCount:    r.GetStargazersCount(),
		ForksCount:    r.GetForksCount(),
		RepoUpdatedAt: r.GetUpdatedAt().Time,
	}
}

// toInternalCommit translates a github.RepositoryCommit object to our internal model.Commit.
func toInternalCommit(c *github.RepositoryCommit) model.Commit {
	commit := model.Commit{
		SHA:         c.GetSHA(),
		AuthorName:  c.GetCommit().GetAuthor().GetName(),
		AuthorEmail: c.GetCommit().GetAuthor().GetEmail(),
		Message:     c.GetCommit().GetMessage(),
		URL:         c.GetHTMLURL(),
		CommitDate:  c.GetCommit().GetAuthor().GetDate().Time,
	}
	for _, f := range c.Files {
		commit.Files = append(commit.Files, toInternalFileChange(f))
	}
	return commit
}

func toInternalFileChange(f *github.CommitFile) model.FileChange {
	return model.FileChange{
		Path:      f.GetFilename(),
		Status:    model.ParseFileStatus(f.GetStatus()),
		RawStatus: f.GetStatus(),
		Additions: f.GetAdditions(),
		Deletions: f.GetDeletions(),
		Patch:     f.GetPatch(),
	}
}
