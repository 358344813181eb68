package controllers

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/pkgscan/internal/domain/commands"
	"github.com/rios0rios0/pkgscan/internal/domain/entities"
)

// InspectController handles the "inspect" subcommand.
type InspectController struct {
	command commands.Inspect
}

// NewInspectController creates a new InspectController.
func NewInspectController(command commands.Inspect) *InspectController {
	return &InspectController{command: command}
}

// GetBind returns the Cobra command metadata for the inspect controller.
func (it *InspectController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "inspect <manifest>...",
		Short: "Check manifest files on disk for target npm packages",
		Long: `Parse package.json, package-lock.json or yarn.lock files on disk and print
the target packages they contain. Nothing is written to the results directory.`,
	}
}

// AddFlags adds the inspect flags to the given Cobra command.
func (it *InspectController) AddFlags(cmd *cobra.Command) {
	addTargetFlags(cmd)
}

// Execute inspects every file given as argument.
func (it *InspectController) Execute(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("at least one manifest file is required")
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	_, err = it.command.Execute(cmd.Context(), settings.Packages, commands.InspectOptions{
		Paths:   args,
		Console: cmd.OutOrStdout(),
	})
	return err
}
