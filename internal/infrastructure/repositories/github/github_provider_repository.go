package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

const (
	providerName         = "github"
	perPage              = 100
	defaultBranch        = "main"
	treeType             = "tree"
	encodingNone         = "none"
	lowQuotaThreshold    = 10
	rateLimitResetBuffer = time.Second
	secondaryLimitWait   = time.Minute
)

// GitHubProviderRepository implements repositories.ProviderRepository for GitHub.
// Requests are sequential; an exhausted quota is waited out at most once per
// request, and only when a token is configured.
type GitHubProviderRepository struct {
	token            string
	client           *gh.Client
	maxRateLimitWait time.Duration
	lastRemaining    int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGitHubProviderRepository creates a GitHub provider. An empty token makes
// unauthenticated requests: public repositories only and a much lower quota.
func NewGitHubProviderRepository(
	cfg repositories.ProviderConfig,
) (repositories.ProviderRepository, error) {
	return newGitHubProviderRepository(cfg)
}

func newGitHubProviderRepository(cfg repositories.ProviderConfig) (*GitHubProviderRepository, error) {
	//nolint:exhaustruct // only the timeout differs from the zero client
	client := gh.NewClient(&http.Client{Timeout: cfg.RequestTimeout})
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}

	if cfg.Location != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.Location, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.Location, err)
		}
		client.BaseURL = baseURL
	}

	return &GitHubProviderRepository{
		token:            cfg.Token,
		client:           client,
		maxRateLimitWait: cfg.MaxRateLimitWait,
		lastRemaining:    -1,
		now:              time.Now,
		sleep:            sleepContext,
	}, nil
}

func (p *GitHubProviderRepository) Name() string { return providerName }

// DiscoverRepositories lists all repositories in a GitHub organization. When
// no organization by that name exists it lists the user's repositories.
func (p *GitHubProviderRepository) DiscoverRepositories(
	ctx context.Context,
	account string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gh.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		var repos []*gh.Repository
		var resp *gh.Response
		err := p.call(ctx, func(callCtx context.Context) (*gh.Response, error) {
			var callErr error
			repos, resp, callErr = p.client.Repositories.ListByOrg(callCtx, account, opts)
			return resp, callErr
		})
		if err != nil {
			if isNotFound(err) {
				logger.Debugf("%q is not an organization, listing user repositories", account)
				return p.discoverUserRepos(ctx, account)
			}
			return nil, fmt.Errorf("failed to list repos for %q: %w", account, err)
		}

		for _, r := range repos {
			allRepos = append(allRepos, toRepository(r, account))
		}
		logger.Infof("Fetched %d repositories so far...", len(allRepos))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

func (p *GitHubProviderRepository) discoverUserRepos(
	ctx context.Context,
	user string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gh.RepositoryListByUserOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
		Type:        "owner",
	}

	for {
		var repos []*gh.Repository
		var resp *gh.Response
		err := p.call(ctx, func(callCtx context.Context) (*gh.Response, error) {
			var callErr error
			repos, resp, callErr = p.client.Repositories.ListByUser(callCtx, user, opts)
			return resp, callErr
		})
		if err != nil {
			if isNotFound(err) {
				return nil, fmt.Errorf("%w: no organization or user named %q", repositories.ErrRepositoryNotFound, user)
			}
			return nil, fmt.Errorf("failed to list repos for %q: %w", user, err)
		}

		for _, r := range repos {
			allRepos = append(allRepos, toRepository(r, user))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

func (p *GitHubProviderRepository) GetRepository(
	ctx context.Context,
	account, name string,
) (entities.Repository, error) {
	var repo *gh.Repository
	err := p.call(ctx, func(callCtx context.Context) (*gh.Response, error) {
		var resp *gh.Response
		var callErr error
		repo, resp, callErr = p.client.Repositories.Get(callCtx, account, name)
		return resp, callErr
	})
	if err != nil {
		if isNotFound(err) {
			return entities.Repository{}, fmt.Errorf("%w: %s/%s", repositories.ErrRepositoryNotFound, account, name)
		}
		return entities.Repository{}, fmt.Errorf("failed to get repository %s/%s: %w", account, name, err)
	}

	return toRepository(repo, account), nil
}

func (p *GitHubProviderRepository) ListBranches(
	ctx context.Context,
	repo entities.Repository,
) ([]string, error) {
	var allBranches []string
	opts := &gh.BranchListOptions{ListOptions: gh.ListOptions{PerPage: perPage}}

	for {
		var branches []*gh.Branch
		var resp *gh.Response
		err := p.call(ctx, func(callCtx context.Context) (*gh.Response, error) {
			var callErr error
			branches, resp, callErr = p.client.Repositories.ListBranches(callCtx, repo.Owner, repo.Name, opts)
			return resp, callErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list branches of %s: %w", repo.FullName(), err)
		}

		for _, branch := range branches {
			allBranches = append(allBranches, branch.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allBranches, nil
}

// GetFileContent fetches path on branch. Files above the contents API size
// limit come back without content and are downloaded instead.
func (p *GitHubProviderRepository) GetFileContent(
	ctx context.Context,
	repo entities.Repository,
	branch, path string,
) ([]byte, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: branch}

	var fileContent *gh.RepositoryContent
	err := p.call(ctx, func(callCtx context.Context) (*gh.Response, error) {
		var resp *gh.Response
		var callErr error
		fileContent, _, resp, callErr = p.client.Repositories.GetContents(
			callCtx, repo.Owner, repo.Name, path, opts,
		)
		return resp, callErr
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s@%s:%s", repositories.ErrFileNotFound, repo.FullName(), branch, path)
		}
		return nil, fmt.Errorf("failed to get file %q: %w", path, err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("%w: %q is a directory, not a file", repositories.ErrFileNotFound, path)
	}

	if fileContent.GetEncoding() == encodingNone {
		return p.downloadFile(ctx, repo, branch, path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}

	return []byte(content), nil
}

func (p *GitHubProviderRepository) downloadFile(
	ctx context.Context,
	repo entities.Repository,
	branch, path string,
) ([]byte, error) {
	logger.Debugf("Downloading large file %s@%s:%s", repo.FullName(), branch, path)

	var body io.ReadCloser
	err := p.call(ctx, func(callCtx context.Context) (*gh.Response, error) {
		var resp *gh.Response
		var callErr error
		body, resp, callErr = p.client.Repositories.DownloadContents(
			callCtx, repo.Owner, repo.Name, path, &gh.RepositoryContentGetOptions{Ref: branch},
		)
		return resp, callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download file %q: %w", path, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return data, nil
}

// ListFiles returns the whole tree of branch in a single recursive listing.
func (p *GitHubProviderRepository) ListFiles(
	ctx context.Context,
	repo entities.Repository,
	branch string,
) ([]entities.File, bool, error) {
	var tree *gh.Tree
	err := p.call(ctx, func(callCtx context.Context) (*gh.Response, error) {
		var resp *gh.Response
		var callErr error
		tree, resp, callErr = p.client.Git.GetTree(callCtx, repo.Owner, repo.Name, branch, true)
		return resp, callErr
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get repo tree: %w", err)
	}

	files := make([]entities.File, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		files = append(files, entities.File{
			Path:  entry.GetPath(),
			IsDir: entry.GetType() == treeType,
		})
	}

	return files, tree.GetTruncated(), nil
}

// --- rate limiting ---

// call runs fn and, when GitHub reports an exhausted quota, waits for the
// reset and runs it once more. Unauthenticated clients never wait.
func (p *GitHubProviderRepository) call(
	ctx context.Context,
	fn func(ctx context.Context) (*gh.Response, error),
) error {
	resp, err := fn(ctx)
	wait, limited, primary := p.rateLimitWait(err)
	if !limited {
		p.observeQuota(resp)
		return err
	}

	if primary && p.token == "" {
		return fmt.Errorf(
			"%w: unauthenticated quota used up (resets in %s); set %s to raise the limit",
			repositories.ErrRateLimitExhausted, wait.Round(time.Second), entities.TokenEnvVar,
		)
	}
	if wait > p.maxRateLimitWait {
		return fmt.Errorf(
			"%w: quota resets in %s, longer than the allowed wait of %s",
			repositories.ErrRateLimitExhausted, wait.Round(time.Second), p.maxRateLimitWait,
		)
	}

	logger.Warnf("GitHub rate limit reached, waiting %s before retrying", wait.Round(time.Second))
	if sleepErr := p.sleep(ctx, wait); sleepErr != nil {
		return sleepErr
	}

	// The client remembers the exhausted quota; the wait above already covered it.
	resp, err = fn(context.WithValue(ctx, gh.BypassRateLimitCheck, true))
	if _, stillLimited, _ := p.rateLimitWait(err); stillLimited {
		return fmt.Errorf("%w: still limited after waiting: %w", repositories.ErrRateLimitExhausted, err)
	}
	p.observeQuota(resp)
	return err
}

// rateLimitWait returns how long to wait before retrying err, whether err is a
// rate-limit error at all, and whether it is the primary (hourly) limit.
func (p *GitHubProviderRepository) rateLimitWait(err error) (time.Duration, bool, bool) {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		wait := rateErr.Rate.Reset.Time.Sub(p.now()) + rateLimitResetBuffer
		if wait < rateLimitResetBuffer {
			wait = rateLimitResetBuffer
		}
		return wait, true, true
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		if retryAfter := abuseErr.GetRetryAfter(); retryAfter > 0 {
			return retryAfter, true, false
		}
		return secondaryLimitWait, true, false
	}

	return 0, false, false
}

// observeQuota reads the remaining-quota headers and warns when they run low.
func (p *GitHubProviderRepository) observeQuota(resp *gh.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}
	remaining := resp.Rate.Remaining
	if remaining == p.lastRemaining {
		return
	}
	p.lastRemaining = remaining

	if remaining < lowQuotaThreshold {
		logger.Warnf(
			"GitHub API quota low: %d of %d requests left, resets at %s",
			remaining, resp.Rate.Limit, resp.Rate.Reset.Time.Format(time.RFC3339),
		)
		return
	}
	logger.Debugf("GitHub API quota: %d of %d requests left", remaining, resp.Rate.Limit)
}

// --- helpers ---

func toRepository(r *gh.Repository, account string) entities.Repository {
	branch := defaultBranch
	if r.GetDefaultBranch() != "" {
		branch = r.GetDefaultBranch()
	}
	owner := r.GetOwner().GetLogin()
	if owner == "" {
		owner = account
	}

	htmlURL := r.GetHTMLURL()
	if htmlURL == "" {
		htmlURL = fmt.Sprintf("https://github.com/%s/%s", owner, r.GetName())
	}

	return entities.Repository{
		Name:          r.GetName(),
		Owner:         owner,
		URL:           htmlURL,
		DefaultBranch: branch,
		Private:       r.GetPrivate(),
		Archived:      r.GetArchived(),
	}
}

func isNotFound(err error) bool {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == http.StatusNotFound
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
