// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when analysis is enabled without an LLM credential.
	ErrMissingAPIKey = errors.New("no LLM API key provided, set --llm-api-key or LLM_API_KEY")

	// ErrMissingTargetRepo is returned when no repository is configured to publish to.
	ErrMissingTargetRepo = errors.New("no target repository, set --repo, GITHUB_REPOSITORY_NAME or GITHUB_REPOSITORY")
)

// ErrInvalidRepoFormat is returned when a repository string in the config is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// AnalysisKind classifies why an LLM call failed.
type AnalysisKind string

const (
	KindRequest AnalysisKind = "request failed"
	KindStatus  AnalysisKind = "unexpected status"
	KindParse   AnalysisKind = "could not parse response"
	KindShape   AnalysisKind = "invalid response shape"
)

// AnalysisError is the single failure type returned by LLM providers.
type AnalysisError struct {
	Kind AnalysisKind
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// NewAnalysisError wraps err with the given kind.
func NewAnalysisError(kind AnalysisKind, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Err: err}
}

// IsAnalysisKind reports whether err is an AnalysisError of the given kind.
func IsAnalysisKind(err error, kind AnalysisKind) bool {
	var ae *AnalysisError
	return errors.As(err, &ae) && ae.Kind == kind
}
