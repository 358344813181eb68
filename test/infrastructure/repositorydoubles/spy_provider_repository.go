//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

// FileKey identifies a file of one branch in SpyProviderRepository maps.
func FileKey(repo, branch, path string) string {
	return repo + "@" + branch + ":" + path
}

// BranchKey identifies a branch in SpyProviderRepository maps.
func BranchKey(repo, branch string) string {
	return repo + "@" + branch
}

// SpyProviderRepository implements repositories.ProviderRepository as a configurable spy.
// Files that are not configured are reported as repositories.ErrFileNotFound.
type SpyProviderRepository struct {
	mu sync.Mutex

	// --- identity ---
	ProviderName string

	// --- DiscoverRepositories ---
	Repositories       []entities.Repository
	DiscoverErr        error
	DiscoveredAccounts []string

	// --- GetRepository ---
	GetRepositoryErr  error
	RequestedRepoName []string

	// --- ListBranches ---
	Branches        map[string][]string // repo name -> branch names
	ListBranchesErr error

	// --- GetFileContent ---
	Contents     map[string]string // FileKey -> content
	FileErrors   map[string]error  // FileKey -> error
	FetchedFiles []string          // FileKey of every request

	// --- ListFiles ---
	Trees        map[string][]entities.File // BranchKey -> tree
	Truncated    bool
	ListFilesErr error
}

var _ repositories.ProviderRepository = (*SpyProviderRepository)(nil)

func (p *SpyProviderRepository) Name() string {
	if p.ProviderName == "" {
		return "spy"
	}
	return p.ProviderName
}

func (p *SpyProviderRepository) DiscoverRepositories(
	_ context.Context, account string,
) ([]entities.Repository, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.DiscoveredAccounts = append(p.DiscoveredAccounts, account)
	return p.Repositories, p.DiscoverErr
}

func (p *SpyProviderRepository) GetRepository(
	_ context.Context, _ string, name string,
) (entities.Repository, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RequestedRepoName = append(p.RequestedRepoName, name)
	if p.GetRepositoryErr != nil {
		return entities.Repository{}, p.GetRepositoryErr
	}
	for _, repo := range p.Repositories {
		if repo.Name == name {
			return repo, nil
		}
	}
	return entities.Repository{}, repositories.ErrRepositoryNotFound
}

func (p *SpyProviderRepository) ListBranches(
	_ context.Context, repo entities.Repository,
) ([]string, error) {
	if p.ListBranchesErr != nil {
		return nil, p.ListBranchesErr
	}
	return p.Branches[repo.Name], nil
}

func (p *SpyProviderRepository) GetFileContent(
	_ context.Context, repo entities.Repository, branch, path string,
) ([]byte, error) {
	key := FileKey(repo.Name, branch, path)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.FetchedFiles = append(p.FetchedFiles, key)

	if err, ok := p.FileErrors[key]; ok {
		return nil, err
	}
	if content, ok := p.Contents[key]; ok {
		return []byte(content), nil
	}
	return nil, repositories.ErrFileNotFound
}

func (p *SpyProviderRepository) ListFiles(
	_ context.Context, repo entities.Repository, branch string,
) ([]entities.File, bool, error) {
	if p.ListFilesErr != nil {
		return nil, false, p.ListFilesErr
	}
	return p.Trees[BranchKey(repo.Name, branch)], p.Truncated, nil
}
