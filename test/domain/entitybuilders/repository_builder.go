//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// RepositoryBuilder helps create test repositories with a fluent interface.
type RepositoryBuilder struct {
	*testkit.BaseBuilder
	name          string
	owner         string
	url           string
	defaultBranch string
	private       bool
	archived      bool
}

// NewRepositoryBuilder creates a new repository builder with sensible defaults.
func NewRepositoryBuilder() *RepositoryBuilder {
	return &RepositoryBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		name:          "frontend-app",
		owner:         "openedx",
		url:           "https://github.com/openedx/frontend-app",
		defaultBranch: "master",
	}
}

// WithName sets the repository name and derives its URL from the owner.
func (b *RepositoryBuilder) WithName(name string) *RepositoryBuilder {
	b.name = name
	b.url = "https://github.com/" + b.owner + "/" + name
	return b
}

// WithOwner sets the repository owner.
func (b *RepositoryBuilder) WithOwner(owner string) *RepositoryBuilder {
	b.owner = owner
	return b
}

// WithURL sets the browsable URL.
func (b *RepositoryBuilder) WithURL(url string) *RepositoryBuilder {
	b.url = url
	return b
}

// WithDefaultBranch sets the default branch.
func (b *RepositoryBuilder) WithDefaultBranch(branch string) *RepositoryBuilder {
	b.defaultBranch = branch
	return b
}

// WithPrivate marks the repository as private.
func (b *RepositoryBuilder) WithPrivate() *RepositoryBuilder {
	b.private = true
	return b
}

// WithArchived marks the repository as archived.
func (b *RepositoryBuilder) WithArchived() *RepositoryBuilder {
	b.archived = true
	return b
}

// Build creates the repository (satisfies testkit.Builder interface).
func (b *RepositoryBuilder) Build() interface{} {
	return b.BuildRepository()
}

// BuildRepository creates the repository with a concrete return type.
func (b *RepositoryBuilder) BuildRepository() entities.Repository {
	return entities.Repository{
		Name:          b.name,
		Owner:         b.owner,
		URL:           b.url,
		DefaultBranch: b.defaultBranch,
		Private:       b.private,
		Archived:      b.archived,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepositoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "frontend-app"
	b.owner = "openedx"
	b.url = "https://github.com/openedx/frontend-app"
	b.defaultBranch = "master"
	b.private = false
	b.archived = false
	return b
}

// Clone creates a deep copy of the RepositoryBuilder.
func (b *RepositoryBuilder) Clone() testkit.Builder {
	return &RepositoryBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:          b.name,
		owner:         b.owner,
		url:           b.url,
		defaultBranch: b.defaultBranch,
		private:       b.private,
		archived:      b.archived,
	}
}
