package commands

import (
	"context"
	"errors"
	"sort"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

// WalkOptions selects what the walker visits.
type WalkOptions struct {
	Account    string
	Repository string   // when set, only this repository
	Branches   []string // empty means the default branch only
	Recursive  bool     // look for manifests below the root as well
}

// ManifestVisitor receives every manifest the walker fetches. A non-nil error
// stops the walk and is returned by Walk.
type ManifestVisitor func(file entities.ManifestFile) error

// RepositoryWalker enumerates repositories, branches and manifest files one at
// a time. Failures of a single repository, branch or file are logged and
// skipped; only rate-limit exhaustion, cancellation and visitor errors stop it.
type RepositoryWalker struct {
	provider repositories.ProviderRepository
}

// NewRepositoryWalker creates a walker reading from provider.
func NewRepositoryWalker(provider repositories.ProviderRepository) *RepositoryWalker {
	return &RepositoryWalker{provider: provider}
}

// visitError marks an error returned by the visitor so it is never skipped.
type visitError struct{ err error }

func (e *visitError) Error() string { return e.err.Error() }
func (e *visitError) Unwrap() error { return e.err }

// Walk visits every manifest of the selected repositories and returns how many
// repositories were walked.
func (w *RepositoryWalker) Walk(ctx context.Context, opts WalkOptions, visit ManifestVisitor) (int, error) {
	repos, err := w.repositories(ctx, opts)
	if err != nil {
		return 0, err
	}
	if len(repos) == 0 {
		logger.Warnf("No repositories found for %q", opts.Account)
		return 0, nil
	}

	walked := 0
	for i, repo := range repos {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return walked, ctxErr
		}

		logger.Infof("[%d/%d] Checking %s...", i+1, len(repos), repo.Label())
		walked++

		if repoErr := w.walkRepository(ctx, repo, opts, visit); repoErr != nil {
			if isFatal(ctx, repoErr) {
				return walked, unwrapVisit(repoErr)
			}
			logger.Warnf("Skipping repository %s: %v", repo.FullName(), repoErr)
		}
	}

	return walked, nil
}

func (w *RepositoryWalker) repositories(ctx context.Context, opts WalkOptions) ([]entities.Repository, error) {
	if opts.Repository != "" {
		repo, err := w.provider.GetRepository(ctx, opts.Account, opts.Repository)
		if err != nil {
			return nil, err
		}
		logger.Infof("Found repository: %s", repo.FullName())
		return []entities.Repository{repo}, nil
	}

	logger.Infof("Fetching repositories from %s...", opts.Account)
	repos, err := w.provider.DiscoverRepositories(ctx, opts.Account)
	if err != nil {
		return nil, err
	}
	logger.Infof("Total repositories found: %d", len(repos))
	return repos, nil
}

func (w *RepositoryWalker) walkRepository(
	ctx context.Context,
	repo entities.Repository,
	opts WalkOptions,
	visit ManifestVisitor,
) error {
	branches, err := w.branches(ctx, repo, opts.Branches)
	if err != nil {
		return err
	}

	for _, branch := range branches {
		if branchErr := w.walkBranch(ctx, repo, branch, opts.Recursive, visit); branchErr != nil {
			if isFatal(ctx, branchErr) {
				return branchErr
			}
			logger.Warnf("Skipping branch %q of %s: %v", branch, repo.FullName(), branchErr)
		}
	}
	return nil
}

// branches returns the default branch first, followed by the requested
// branches that exist in the repository.
func (w *RepositoryWalker) branches(
	ctx context.Context,
	repo entities.Repository,
	requested []string,
) ([]string, error) {
	selected := []string{repo.DefaultBranch}
	if len(requested) == 0 {
		return selected, nil
	}

	existing, err := w.provider.ListBranches(ctx, repo)
	if err != nil {
		if isFatal(ctx, err) {
			return nil, err
		}
		logger.Warnf("Could not list branches of %s, checking %q only: %v", repo.FullName(), repo.DefaultBranch, err)
		return selected, nil
	}

	available := make(map[string]bool, len(existing))
	for _, name := range existing {
		available[name] = true
	}
	for _, name := range requested {
		if name == repo.DefaultBranch {
			continue
		}
		if !available[name] {
			logger.Debugf("Branch %q does not exist in %s", name, repo.FullName())
			continue
		}
		selected = append(selected, name)
	}
	return selected, nil
}

func (w *RepositoryWalker) walkBranch(
	ctx context.Context,
	repo entities.Repository,
	branch string,
	recursive bool,
	visit ManifestVisitor,
) error {
	paths, err := w.manifestPaths(ctx, repo, branch, recursive)
	if err != nil {
		return err
	}

	for _, path := range paths {
		format, _ := entities.FormatForPath(path)

		content, fileErr := w.provider.GetFileContent(ctx, repo, branch, path)
		if fileErr != nil {
			if errors.Is(fileErr, repositories.ErrFileNotFound) {
				logger.Debugf("No %s in %s@%s", path, repo.Name, branch)
				continue
			}
			if isFatal(ctx, fileErr) {
				return fileErr
			}
			logger.Warnf("Skipping %s in %s@%s: %v", path, repo.Name, branch, fileErr)
			continue
		}

		if visitErr := visit(entities.ManifestFile{
			Repository: repo,
			Branch:     branch,
			Path:       path,
			Format:     format,
			Content:    content,
		}); visitErr != nil {
			return &visitError{err: visitErr}
		}
	}
	return nil
}

// manifestPaths returns the root manifest names, or every manifest of the
// branch tree in recursive mode. A failed tree listing falls back to the root.
func (w *RepositoryWalker) manifestPaths(
	ctx context.Context,
	repo entities.Repository,
	branch string,
	recursive bool,
) ([]string, error) {
	if !recursive {
		return entities.ManifestFileNames(), nil
	}

	files, truncated, err := w.provider.ListFiles(ctx, repo, branch)
	if err != nil {
		if isFatal(ctx, err) {
			return nil, err
		}
		logger.Warnf("Could not list files of %s@%s, checking the root only: %v", repo.Name, branch, err)
		return entities.ManifestFileNames(), nil
	}
	if truncated {
		logger.Warnf("File listing of %s@%s is truncated, some manifests may be missed", repo.Name, branch)
	}

	var paths []string
	for _, file := range files {
		if file.IsDir {
			continue
		}
		if _, ok := entities.FormatForPath(file.Path); ok {
			paths = append(paths, file.Path)
		}
	}
	sort.Strings(paths)

	if len(paths) > 0 {
		logger.Infof("  Found %d package file(s) in %s@%s:", len(paths), repo.Name, branch)
		for _, path := range paths {
			logger.Infof("    - %s", path)
		}
	}
	return paths, nil
}

// isFatal reports whether err must stop the walk instead of skipping a unit.
// Request timeouts are not fatal; only the cancellation of the walk itself is.
func isFatal(ctx context.Context, err error) bool {
	var vErr *visitError
	return errors.As(err, &vErr) ||
		errors.Is(err, repositories.ErrRateLimitExhausted) ||
		ctx.Err() != nil
}

func unwrapVisit(err error) error {
	var vErr *visitError
	if errors.As(err, &vErr) {
		return vErr.err
	}
	return err
}
