package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/pkgscan/internal/domain/commands"
	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	infraRepos "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories"
)

// LocalController handles the "local" subcommand: a scan of a local clone.
type LocalController struct {
	command commands.Scan
}

// NewLocalController creates a new LocalController.
func NewLocalController(command commands.Scan) *LocalController {
	return &LocalController{command: command}
}

// GetBind returns the Cobra command metadata for the local controller.
func (it *LocalController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "local [path]",
		Short: "Scan a local git clone for target npm packages",
		Long: `Scan the branches of a local Git repository without any network access.
Manifests are read from branch commits, so the working tree is left untouched
and uncommitted changes are not seen.`,
	}
}

// AddFlags adds the local scan flags to the given Cobra command.
func (it *LocalController) AddFlags(cmd *cobra.Command) {
	addWalkFlags(cmd)
}

// Execute runs the scan against the clone at args[0] (default ".").
func (it *LocalController) Execute(cmd *cobra.Command, args []string) error {
	repoDir := "."
	if len(args) > 0 {
		repoDir = args[0]
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	settings.Account = "local"
	settings.Repository = ""

	_, err = it.command.Execute(cmd.Context(), settings, commands.ScanOptions{
		ProviderName: infraRepos.ProviderGitLocal,
		Location:     repoDir,
		Console:      cmd.OutOrStdout(),
	})
	return err
}
