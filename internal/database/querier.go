package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	CreateDigest(ctx context.Context, arg CreateDigestParams) (Digest, error)
	CreateDigestCommits(ctx context.Context, arg []CreateDigestCommitsParams) (int64, error)
	GetLatestDigestByDate(ctx context.Context, reportDate pgtype.Date) (Digest, error)
	ListDigestCommits(ctx context.Context, digestID int64) ([]DigestCommit, error)
	ListDigests(ctx context.Context, limit int32) ([]Digest, error)
}

var _ Querier = (*Queries)(nil)
