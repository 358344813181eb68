package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
)

var (
	// ErrFileNotFound is returned when a path does not exist on a branch.
	ErrFileNotFound = errors.New("file not found")
	// ErrRepositoryNotFound is returned when a repository or account does not exist.
	ErrRepositoryNotFound = errors.New("repository not found")
	// ErrRateLimitExhausted is returned when the API quota is spent and the
	// provider cannot (or may not) wait for it to reset. It aborts the run.
	ErrRateLimitExhausted = errors.New("API rate limit exhausted")
)

// ProviderConfig carries what a provider factory needs to build a provider.
type ProviderConfig struct {
	Token            string
	Location         string // API base URL for GitHub, clone path for gitlocal
	RequestTimeout   time.Duration
	MaxRateLimitWait time.Duration
}

// ProviderRepository abstracts where repositories and their files come from:
// the GitHub REST API or a local clone.
type ProviderRepository interface {
	// Name returns the provider identifier (e.g. "github", "gitlocal").
	Name() string

	// DiscoverRepositories lists every repository of an organization or,
	// when no organization by that name exists, of a user.
	DiscoverRepositories(ctx context.Context, account string) ([]entities.Repository, error)

	// GetRepository returns a single repository with its default branch.
	GetRepository(ctx context.Context, account, name string) (entities.Repository, error)

	// ListBranches returns the names of every branch of the repository.
	ListBranches(ctx context.Context, repo entities.Repository) ([]string, error)

	// GetFileContent returns the decoded content of path on branch, or
	// ErrFileNotFound when it does not exist.
	GetFileContent(ctx context.Context, repo entities.Repository, branch, path string) ([]byte, error)

	// ListFiles returns every entry of the branch tree, recursively.
	// truncated is set when the provider could not return the full tree.
	ListFiles(ctx context.Context, repo entities.Repository, branch string) (files []entities.File, truncated bool, err error)
}
