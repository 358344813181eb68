//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	domainRepos "github.com/rios0rios0/pkgscan/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories"
	"github.com/rios0rios0/pkgscan/internal/infrastructure/repositories/npm"
	doubles "github.com/rios0rios0/pkgscan/test/infrastructure/repositorydoubles"
)

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	spyFactory := func(_ domainRepos.ProviderConfig) (domainRepos.ProviderRepository, error) {
		return &doubles.SpyProviderRepository{}, nil
	}

	t.Run("should return the registered names in order", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewProviderRegistry()
		registry.Register(infraRepos.ProviderGitLocal, spyFactory)
		registry.Register(infraRepos.ProviderGitHub, spyFactory)

		// when
		names := registry.Names()

		// then
		assert.Equal(t, []string{"github", "gitlocal"}, names)
	})

	t.Run("should name the registered providers when the requested one is unknown", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewProviderRegistry()
		registry.Register(infraRepos.ProviderGitLocal, spyFactory)
		registry.Register(infraRepos.ProviderGitHub, spyFactory)

		// when
		provider, err := registry.Get("bitbucket", domainRepos.ProviderConfig{})

		// then
		require.Error(t, err)
		assert.Nil(t, provider)
		assert.Contains(t, err.Error(), `"bitbucket"`)
		assert.Contains(t, err.Error(), "registered: github, gitlocal")
	})

	t.Run("should build the registered provider", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewProviderRegistry()
		registry.Register(infraRepos.ProviderGitHub, spyFactory)

		// when
		provider, err := registry.Get(infraRepos.ProviderGitHub, domainRepos.ProviderConfig{})

		// then
		require.NoError(t, err)
		assert.NotNil(t, provider)
	})
}

func TestParserRegistry(t *testing.T) {
	t.Parallel()

	newRegistry := func() *infraRepos.ParserRegistry {
		registry := infraRepos.NewParserRegistry()
		registry.Register(npm.NewYarnLockParserRepository())
		registry.Register(npm.NewPackageJSONParserRepository())
		registry.Register(npm.NewPackageLockParserRepository())
		return registry
	}

	t.Run("should return the registered formats in order", func(t *testing.T) {
		t.Parallel()

		// given
		registry := newRegistry()

		// when
		formats := registry.Formats()

		// then
		assert.Equal(t, []entities.FileFormat{
			entities.FormatLockJSON, entities.FormatPackageDescriptor, entities.FormatLockText,
		}, formats)
	})

	t.Run("should pick the parser from the base name of a nested path", func(t *testing.T) {
		t.Parallel()

		// given
		registry := newRegistry()

		// when
		parser, err := registry.ForPath("apps/web/yarn.lock")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.FormatLockText, parser.Format())
	})

	t.Run("should reject a path that is not an npm manifest", func(t *testing.T) {
		t.Parallel()

		// given
		registry := newRegistry()

		// when
		_, err := registry.ForPath("go.mod")

		// then
		require.ErrorIs(t, err, domainRepos.ErrUnsupportedFormat)
	})

	t.Run("should reject a known format without a registered parser", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewParserRegistry()

		// when
		_, err := registry.ForPath("package.json")

		// then
		require.ErrorIs(t, err, domainRepos.ErrUnsupportedFormat)
	})
}
