package entities

import "github.com/spf13/cobra"

// ControllerBind is the Cobra metadata a controller exposes as a subcommand.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
}

// Controller is a CLI entry point wired into the Cobra command tree.
type Controller interface {
	GetBind() ControllerBind
	AddFlags(cmd *cobra.Command)
	Execute(cmd *cobra.Command, args []string) error
}
