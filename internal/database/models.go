package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Digest struct {
	ID          int64              `json:"id"`
	RunID       pgtype.UUID        `json:"run_id"`
	ReportDate  pgtype.Date        `json:"report_date"`
	Title       string             `json:"title"`
	Body        string             `json:"body"`
	IssueNumber pgtype.Int4        `json:"issue_number"`
	IssueUrl    pgtype.Text        `json:"issue_url"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type DigestCommit struct {
	ID          int64              `json:"id"`
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
