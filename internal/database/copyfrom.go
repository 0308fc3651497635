// source: digests.sql

package database

import (
	"context"
)

// iteratorForCreateDigestCommits implements pgx.CopyFromSource.
type iteratorForCreateDigestCommits struct {
	rows                 []CreateDigestCommitsParams
	skippedFirstNextCall bool
}

func (r *iteratorForCreateDigestCommits) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForCreateDigestCommits) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].DigestID,
		r.rows[0].Repository,
		r.rows[0].Sha,
		r.rows[0].AuthorName,
		r.rows[0].AuthorEmail,
		r.rows[0].Message,
		r.rows[0].Url,
		r.rows[0].CommitDate,
		r.rows[0].Analysis,
	}, nil
}

func (r iteratorForCreateDigestCommits) Err() error {
	return nil
}

func (q *Queries) CreateDigestCommits(ctx context.Context, arg []CreateDigestCommitsParams) (int64, error) {
	return q.db.CopyFrom(ctx, []string{"digest_commits"}, []string{"digest_id", "repository", "sha", "author_name", "author_email", "message", "url", "commit_date", "analysis"}, &iteratorForCreateDigestCommits{rows: arg})
}
