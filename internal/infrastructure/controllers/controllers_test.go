//go:build unit

package controllers_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/infrastructure/controllers"
	infraRepos "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories"
	"github.com/rios0rios0/pkgscan/test/domain/commanddoubles"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// newCommand binds controller to a standalone command the way main does.
func newCommand(controller entities.Controller, args ...string) *cobra.Command {
	bind := controller.GetBind()
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:           bind.Use,
		RunE:          controller.Execute,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	controllers.AddPersistentFlags(cmd)
	controller.AddFlags(cmd)
	cmd.SetArgs(args)
	return cmd
}

//nolint:paralleltest // t.Setenv cannot run in parallel
func TestScanController(t *testing.T) {
	t.Run("should let flags override the config file", func(t *testing.T) {
		// given
		t.Setenv(entities.TokenEnvVar, "ghp_env")
		dir := t.TempDir()
		packages := writeFile(t, dir, "packages.txt", "@babel/core@7.26.0\n")
		config := writeFile(t, dir, "pkgscan.yaml", "account: from-config\nrecursive: true\noutput_dir: "+
			filepath.Join(dir, "out")+"\nbranches_file: "+filepath.Join(dir, "none.txt")+"\n")
		stub := &commanddoubles.StubScanCommand{}
		cmd := newCommand(controllers.NewScanController(stub),
			"--config", config,
			"--org", "acme",
			"--packages-file", packages,
		)

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		require.Equal(t, 1, stub.ExecuteCallCount)
		settings := stub.LastSettings
		assert.Equal(t, "acme", settings.Account)
		assert.True(t, settings.Recursive)
		assert.Equal(t, filepath.Join(dir, "out"), settings.OutputDir)
		assert.Equal(t, "ghp_env", settings.Token)
		assert.Equal(t, []entities.TargetPackage{{Name: "@babel/core", Version: "7.26.0"}}, settings.Packages)
		assert.Empty(t, settings.Branches)
		assert.Empty(t, stub.LastOpts.ProviderName)
	})

	t.Run("should prefer the token flag over the environment", func(t *testing.T) {
		// given
		t.Setenv(entities.TokenEnvVar, "ghp_env")
		dir := t.TempDir()
		config := writeFile(t, dir, "pkgscan.yaml", "repository: frontend-app-learning\n")
		packages := writeFile(t, dir, "packages.txt", "left-pad@1.3.0\n")
		stub := &commanddoubles.StubScanCommand{}
		cmd := newCommand(controllers.NewScanController(stub),
			"-c", config, "--packages-file", packages, "--token", "ghp_flag",
		)

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, "ghp_flag", stub.LastSettings.Token)
		assert.Equal(t, "frontend-app-learning", stub.LastSettings.Repository)
		assert.Equal(t, entities.DefaultAccount, stub.LastSettings.Account)
	})

	t.Run("should fail before scanning when the packages file is missing", func(t *testing.T) {
		// given
		dir := t.TempDir()
		config := writeFile(t, dir, "pkgscan.yaml", "account: acme\n")
		stub := &commanddoubles.StubScanCommand{}
		cmd := newCommand(controllers.NewScanController(stub),
			"--config", config, "--packages-file", filepath.Join(dir, "missing.txt"),
		)

		// when
		err := cmd.Execute()

		// then
		require.ErrorIs(t, err, entities.ErrConfiguration)
		assert.Zero(t, stub.ExecuteCallCount)
	})

	t.Run("should return the scan error", func(t *testing.T) {
		// given
		dir := t.TempDir()
		config := writeFile(t, dir, "pkgscan.yaml", "account: acme\n")
		packages := writeFile(t, dir, "packages.txt", "left-pad@1.3.0\n")
		failure := errors.New("rate limit")
		stub := &commanddoubles.StubScanCommand{ExecuteErr: failure}
		cmd := newCommand(controllers.NewScanController(stub), "-c", config, "--packages-file", packages)

		// when
		err := cmd.Execute()

		// then
		assert.ErrorIs(t, err, failure)
	})
}

//nolint:paralleltest // shares the process environment with the scan controller tests
func TestLocalController(t *testing.T) {
	t.Run("should scan the given clone with the local provider", func(t *testing.T) {
		// given
		dir := t.TempDir()
		config := writeFile(t, dir, "pkgscan.yaml", "repository: ignored\n")
		packages := writeFile(t, dir, "packages.txt", "left-pad@1.3.0\n")
		stub := &commanddoubles.StubScanCommand{}
		cmd := newCommand(controllers.NewLocalController(stub),
			"-c", config, "--packages-file", packages, "--recursive", "/src/frontend-app",
		)

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, infraRepos.ProviderGitLocal, stub.LastOpts.ProviderName)
		assert.Equal(t, "/src/frontend-app", stub.LastOpts.Location)
		assert.Equal(t, "local", stub.LastSettings.Account)
		assert.Empty(t, stub.LastSettings.Repository)
		assert.True(t, stub.LastSettings.Recursive)
	})
}

//nolint:paralleltest // shares the process environment with the scan controller tests
func TestInspectController(t *testing.T) {
	t.Run("should inspect every file argument", func(t *testing.T) {
		// given
		dir := t.TempDir()
		config := writeFile(t, dir, "pkgscan.yaml", "account: acme\n")
		packages := writeFile(t, dir, "packages.txt", "left-pad@1.3.0\n")
		stub := &commanddoubles.StubInspectCommand{}
		cmd := newCommand(controllers.NewInspectController(stub),
			"-c", config, "--packages-file", packages, "a/package.json", "b/yarn.lock",
		)

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"a/package.json", "b/yarn.lock"}, stub.LastOpts.Paths)
		assert.Equal(t, []entities.TargetPackage{{Name: "left-pad", Version: "1.3.0"}}, stub.LastTargets)
	})

	t.Run("should require at least one file", func(t *testing.T) {
		// given
		stub := &commanddoubles.StubInspectCommand{}
		cmd := newCommand(controllers.NewInspectController(stub))

		// when
		err := cmd.Execute()

		// then
		require.Error(t, err)
		assert.Zero(t, stub.ExecuteCallCount)
	})
}

func TestNewControllers(t *testing.T) {
	t.Parallel()

	t.Run("should expose scan, local and inspect subcommands", func(t *testing.T) {
		t.Parallel()

		// given
		scan := &commanddoubles.StubScanCommand{}
		inspect := &commanddoubles.StubInspectCommand{}

		// when
		list := controllers.NewControllers(
			controllers.NewScanController(scan),
			controllers.NewLocalController(scan),
			controllers.NewInspectController(inspect),
		)

		// then
		var uses []string
		for _, controller := range *list {
			uses = append(uses, controller.GetBind().Use)
		}
		assert.Equal(t, []string{"scan", "local [path]", "inspect <manifest>..."}, uses)
	})
}
