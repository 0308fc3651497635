// source: digests.sql

package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createDigest = `-- name: CreateDigest :one
INSERT INTO digests (run_id, report_date, title, body, issue_number, issue_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, run_id, report_date, title, body, issue_number, issue_url, created_at
`

type CreateDigestParams struct {
	RunID       pgtype.UUID `json:"run_id"`
	ReportDate  pgtype.Date `json:"report_date"`
	Title       string      `json:"title"`
	Body        string      `json:"body"`
	IssueNumber pgtype.Int4 `json:"issue_number"`
	IssueUrl    pgtype.Text `json:"issue_url"`
}

func (q *Queries) CreateDigest(ctx context.Context, arg CreateDigestParams) (Digest, error) {
	row := q.db.QueryRow(ctx, createDigest,
		arg.RunID,
		arg.ReportDate,
		arg.Title,
		arg.Body,
		arg.IssueNumber,
		arg.IssueUrl,
	)
	var i Digest
	err := row.Scan(
		&i.ID,
		&i.RunID,
		&i.ReportDate,
		&i.Title,
		&i.Body,
		&i.IssueNumber,
		&i.IssueUrl,
		&i.CreatedAt,
	)
	return i, err
}

type CreateDigestCommitsParams struct {
	DigestID    int64              `json:"digest_id"`
	Repository  string             `json:"repository"`
	Sha         string             `json:"sha"`
	AuthorName  string             `json:"author_name"`
	AuthorEmail string             `json:"author_email"`
	Message     string             `json:"message"`
	Url         string             `json:"url"`
	CommitDate  pgtype.Timestamptz `json:"commit_date"`
	Analysis    pgtype.Text        `json:"analysis"`
}

const getLatestDigestByDate = `-- name: GetLatestDigestByDate :one
SELECT id, run_id, report_date, title, body, issue_number, issue_url, created_at
FROM digests
WHERE report_date = $1
ORDER BY created_at DESC
LIMIT 1
`

func (q *Queries) GetLatestDigestByDate(ctx context.Context, reportDate pgtype.Date) (Digest, error) {
	row := q.db.QueryRow(ctx, getLatestDigestByDate, reportDate)
	var i Digest
	err := row.Scan(
		&i.ID,
		&i.RunID,
		&i.ReportDate,
		&i.Title,
		&i.Body,
		&i.IssueNumber,
		&i.IssueUrl,
		&i.CreatedAt,
	)
	return i, err
}

const listDigestCommits = `-- name: ListDigestCommits :many
SELECT id, digest_id, repository, sha, author_name, author_email, message, url, commit_date, analysis
FROM digest_commits
WHERE digest_id = $1
ORDER BY id
`

func (q *Queries) ListDigestCommits(ctx context.Context, digestID int64) ([]DigestCommit, error) {
	rows, err := q.db.Query(ctx, listDigestCommits, digestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []DigestCommit{}
	for rows.Next() {
		var i DigestCommit
		if err := rows.Scan(
			&i.ID,
			&i.DigestID,
			&i.Repository,
			&i.Sha,
			&i.AuthorName,
			&i.AuthorEmail,
			&i.Message,
			&i.Url,
			&i.CommitDate,
			&i.Analysis,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listDigests = `-- name: ListDigests :many
SELECT id, run_id, report_date, title, body, issue_number, issue_url, created_at
FROM digests
ORDER BY report_date DESC, created_at DESC
LIMIT $1
`

func (q *Queries) ListDigests(ctx context.Context, limit int32) ([]Digest, error) {
	rows, err := q.db.Query(ctx, listDigests, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Digest{}
	for rows.Next() {
		var i Digest
		if err := rows.Scan(
			&i.ID,
			&i.RunID,
			&i.ReportDate,
			&i.Title,
			&i.Body,
			&i.IssueNumber,
			&i.IssueUrl,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
