package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/pkgscan/internal/domain/commands"
	"github.com/rios0rios0/pkgscan/internal/domain/entities"
)

// ScanController handles the root command and the "scan" subcommand.
type ScanController struct {
	command commands.Scan
}

// NewScanController creates a new ScanController.
func NewScanController(command commands.Scan) *ScanController {
	return &ScanController{command: command}
}

// GetBind returns the Cobra command metadata for the scan controller.
func (it *ScanController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "scan",
		Short: "Scan a GitHub account for target npm packages",
		Long: `Discover the repositories of a GitHub organization (or user), fetch their
package.json, package-lock.json and yarn.lock files, and report every
occurrence of the target packages.

Exact matches go to exact_matches.txt, same package at another version to
partial_matches.txt. Both files are rewritten on every run.`,
	}
}

// AddFlags adds the scan flags to the given Cobra command.
func (it *ScanController) AddFlags(cmd *cobra.Command) {
	addAccountFlags(cmd)
	addWalkFlags(cmd)
}

// Execute runs the scan against GitHub.
func (it *ScanController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	_, err = it.command.Execute(cmd.Context(), settings, commands.ScanOptions{
		Console: cmd.OutOrStdout(),
	})
	return err
}
