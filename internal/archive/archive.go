// Package archive stores published digests in Postgres.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"commit-digest/internal/database"
	"commit-digest/internal/digest"
	"commit-digest/internal/model"
)

// TxBeginner starts a database transaction. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Archiver writes a digest and its commits in one transaction.
type Archiver struct {
	db     TxBeginner
	logger *slog.Logger
}

// NewArchiver creates a new Archiver.
func NewArchiver(db TxBeginner, logger *slog.Logger) *Archiver {
	return &Archiver{db: db, logger: logger}
}

// Save archives report under runID. issue is nil when nothing was published.
func (a *Archiver) Save(ctx context.Context, runID uuid.UUID, report *digest.Report, issue *model.Issue) (database.Digest, error) {
	tx, err := a.db.Begin(ctx)
	if err != nil {
		return database.Digest{}, err
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	saved, err := a.save(ctx, database.New(tx), runID, report, issue)
	if err != nil {
		return database.Digest{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Digest{}, err
	}
	return saved, nil
}

func (a *Archiver) save(ctx context.Context, q database.Querier, runID uuid.UUID, report *digest.Report, issue *model.Issue) (database.Digest, error) {
	params := database.CreateDigestParams{
		RunID:      pgtype.UUID{Bytes: runID, Valid: true},
		ReportDate: ReportDate(report),
		Title:      report.Title(),
		Body:       report.Markdown(),
	}
	if issue != nil {
		params.IssueNumber = pgtype.Int4{Int32: int32(issue.Number), Valid: true}
		params.IssueUrl = pgtype.Text{String: issue.URL, Valid: issue.URL != ""}
	}

	saved, err := q.CreateDigest(ctx, params)
	if err != nil {
		return database.Digest{}, fmt.Errorf("failed to insert digest: %w", err)
	}
	logger := a.logger.With("digest_id", saved.ID, "date", report.Date())

	rows := prepareCommitBulkInsert(saved.ID, report.Sections)
	if len(rows) == 0 {
		logger.Info("Archived digest without commits")
		return saved, nil
	}

	n, err := q.CreateDigestCommits(ctx, rows)
	if err != nil {
		return database.Digest{}, fmt.Errorf("failed to insert digest commits: %w", err)
	}
	logger.Info("Archived digest", "commits", n)
	return saved, nil
}

// ReportDate is the reported calendar day as a Postgres date.
func ReportDate(report *digest.Report) pgtype.Date {
	y, m, d := report.Window.Since.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func prepareCommitBulkInsert(digestID int64, sections []digest.Section) []database.CreateDigestCommitsParams {
	var params []database.CreateDigestCommitsParams
	for _, s := range sections {
		analyses := make(map[string]string, len(s.Analyses))
		for _, a := range s.Analyses {
			if a.Err == nil {
				analyses[a.Commit.SHA] = a.Text
			}
		}

		for _, c := range s.Fetch.Commits {
			text, ok := analyses[c.SHA]
			params = append(params, database.CreateDigestCommitsParams{
				DigestID:    digestID,
				Repository:  s.Repo.FullName(),
				Sha:         c.SHA,
				AuthorName:  c.AuthorName,
				AuthorEmail: c.AuthorEmail,
				Message:     c.Message,
				Url:         c.URL,
				CommitDate:  pgtype.Timestamptz{Time: c.CommitDate, Valid: true},
				Analysis:    pgtype.Text{String: text, Valid: ok},
			})
		}
	}
	return params
}
