// Package publish files the assembled report as an issue.
package publish

import (
	"context"
	"fmt"
	"log/slog"

	"commit-digest/internal/github"
	"commit-digest/internal/model"
)

// IssueCreator opens an issue on a repository.
type IssueCreator interface {
	CreateIssue(ctx context.Context, owner, name, title, body string) (*model.Issue, error)
}

// Publisher posts reports to a single target repository.
type Publisher struct {
	creator IssueCreator
	logger  *slog.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(creator IssueCreator, logger *slog.Logger) *Publisher {
	return &Publisher{creator: creator, logger: logger}
}

// Publish creates one issue with the given title and body. No retries.
func (p *Publisher) Publish(ctx context.Context, repo model.RepoIdentifier, title, body string) (*model.Issue, error) {
	logger := p.logger.With("owner", repo.Owner, "repo", repo.Name)

	issue, err := p.creator.CreateIssue(ctx, repo.Owner, repo.Name, title, body)
	if err != nil {
		logger.Error("Failed to create issue", github.ErrorAttrs(err)...)
		return nil, fmt.Errorf("failed to create issue on %s: %w", repo, err)
	}

	logger.Info("Issue created", "issue", issue.String(), "number", issue.Number, "url", issue.URL)
	return issue, nil
}
