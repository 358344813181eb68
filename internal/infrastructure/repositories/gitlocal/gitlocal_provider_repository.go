package gitlocal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

const (
	providerName = "gitlocal"
	remoteName   = "origin"
	headRef      = "HEAD"
)

// GitLocalProviderRepository implements repositories.ProviderRepository over a
// local clone. Files are read from branch commits, so the working tree and
// the checked-out branch are left untouched.
type GitLocalProviderRepository struct {
	path string
	repo *git.Repository
}

// NewGitLocalProviderRepository opens the clone at cfg.Location (or any
// directory inside it).
func NewGitLocalProviderRepository(
	cfg repositories.ProviderConfig,
) (repositories.ProviderRepository, error) {
	location := cfg.Location
	if location == "" {
		location = "."
	}
	absPath, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	//nolint:exhaustruct // only DetectDotGit differs from the defaults
	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", absPath, err)
	}

	// a path inside the clone names the clone, not the subdirectory
	if worktree, wtErr := repo.Worktree(); wtErr == nil {
		absPath = worktree.Filesystem.Root()
	}

	return &GitLocalProviderRepository{path: absPath, repo: repo}, nil
}

func (p *GitLocalProviderRepository) Name() string { return providerName }

// DiscoverRepositories returns the clone itself; the account is ignored.
func (p *GitLocalProviderRepository) DiscoverRepositories(
	_ context.Context,
	_ string,
) ([]entities.Repository, error) {
	return []entities.Repository{p.describe()}, nil
}

func (p *GitLocalProviderRepository) GetRepository(
	_ context.Context,
	_ string,
	name string,
) (entities.Repository, error) {
	repo := p.describe()
	if name != "" && name != repo.Name {
		return entities.Repository{}, fmt.Errorf(
			"%w: %q (the clone at %q is %q)", repositories.ErrRepositoryNotFound, name, p.path, repo.Name,
		)
	}
	return repo, nil
}

func (p *GitLocalProviderRepository) ListBranches(
	_ context.Context,
	_ entities.Repository,
) ([]string, error) {
	iter, err := p.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer iter.Close()

	var branches []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

func (p *GitLocalProviderRepository) GetFileContent(
	_ context.Context,
	_ entities.Repository,
	branch, path string,
) ([]byte, error) {
	tree, err := p.branchTree(branch)
	if err != nil {
		return nil, err
	}

	file, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s:%s", repositories.ErrFileNotFound, branch, path)
		}
		return nil, fmt.Errorf("failed to get file %q: %w", path, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return []byte(content), nil
}

func (p *GitLocalProviderRepository) ListFiles(
	_ context.Context,
	_ entities.Repository,
	branch string,
) ([]entities.File, bool, error) {
	tree, err := p.branchTree(branch)
	if err != nil {
		return nil, false, err
	}

	var files []entities.File
	err = tree.Files().ForEach(func(f *object.File) error {
		files = append(files, entities.File{Path: f.Name})
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to walk tree of %q: %w", branch, err)
	}
	return files, false, nil
}

func (p *GitLocalProviderRepository) branchTree(branch string) (*object.Tree, error) {
	hash, err := p.repo.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve branch %q: %w", branch, err)
	}
	commit, err := p.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit of %q: %w", branch, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %q: %w", branch, err)
	}
	return tree, nil
}

// describe builds the repository entity: the name is the clone's folder, the
// URL is the origin remote when there is one, and the default branch is the
// checked-out branch.
func (p *GitLocalProviderRepository) describe() entities.Repository {
	repo := entities.Repository{
		Name:          filepath.Base(p.path),
		URL:           "file://" + filepath.ToSlash(p.path),
		DefaultBranch: headRef,
	}

	if remote, err := p.repo.Remote(remoteName); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			repo.URL = urls[0]
			repo.Owner = ownerFromURL(urls[0])
		}
	}

	if head, err := p.repo.Head(); err == nil && head.Name().IsBranch() {
		repo.DefaultBranch = head.Name().Short()
	}

	return repo
}

// ownerFromURL extracts "org" from "git@github.com:org/repo.git" or
// "https://github.com/org/repo".
func ownerFromURL(rawURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(rawURL, "/"), ".git")
	trimmed = strings.ReplaceAll(trimmed, ":", "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
