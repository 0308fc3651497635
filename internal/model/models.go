// internal/model/models.go
package model

import (
	"fmt"
	"strings"
	"time"

	custom_errors "commit-digest/internal/errors"
)

// RepoIdentifier holds the owner and name of a repository.
type RepoIdentifier struct {
	Owner string
	Name  string
}

// FullName returns the identifier in 'owner/name' form.
func (r RepoIdentifier) FullName() string {
	return r.Owner + "/" + r.Name
}

func (r RepoIdentifier) String() string {
	return r.FullName()
}

// ParseRepoIdentifier parses an 'owner/name' string.
func ParseRepoIdentifier(s string) (RepoIdentifier, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoIdentifier{}, &custom_errors.ErrInvalidRepoFormat{Repo: s}
	}
	return RepoIdentifier{Owner: parts[0], Name: parts[1]}, nil
}

// ParseRepoIdentifiers parses a list of 'owner/name' strings, keeping their order.
func ParseRepoIdentifiers(repos []string) ([]RepoIdentifier, error) {
	identifiers := make([]RepoIdentifier, 0, len(repos))
	for _, r := range repos {
		id, err := ParseRepoIdentifier(r)
		if err != nil {
			return nil, err
		}
		identifiers = append(identifiers, id)
	}
	return identifiers, nil
}

// Repository represents the metadata of a GitHub repository.
type Repository struct {
	GithubRepoID  int64
	Owner         string
	Name          string
	FullName      string
	Description   *string
	URL           string
	StarsCount    int
	ForksCount    int
	RepoUpdatedAt time.Time
}

// FileStatus is the kind of change a commit made to a file.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileRemoved  FileStatus = "removed"
	FileRenamed  FileStatus = "renamed"
	FileChanged  FileStatus = "changed"
	FileOther    FileStatus = "other"
)

// ParseFileStatus maps a platform status string onto FileStatus.
// Unknown values become FileOther.
func ParseFileStatus(s string) FileStatus {
	switch FileStatus(s) {
	case FileAdded, FileModified, FileRemoved, FileRenamed, FileChanged:
		return FileStatus(s)
	default:
		return FileOther
	}
}

// FileChange describes one file touched by a commit.
type FileChange struct {
	Path      string
	Status    FileStatus
	RawStatus string
	Additions int
	Deletions int
	Patch     string
}

// Commit is a single commit as returned by the platform.
type Commit struct {
	SHA         string
	AuthorName  string
	AuthorEmail string
	Message     string
	URL         string
	CommitDate  time.Time
	Files       []FileChange
}

// ShortSHA returns the abbreviated commit hash.
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// Issue is a created issue on the reporting repository.
type Issue struct {
	Number int
	URL    string
}

func (i Issue) String() string {
	return fmt.Sprintf("#%d", i.Number)
}

// RateLimit is the core API quota of the authenticated caller.
type RateLimit struct {
	Limit     int
	Remaining int
}
