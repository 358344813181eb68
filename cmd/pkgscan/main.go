package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/pkgscan/internal"
	"github.com/rios0rios0/pkgscan/internal/infrastructure/controllers"
)

func buildRootCommand(scanController *controllers.ScanController) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "pkgscan",
		Short: "Find target npm packages across GitHub repositories",
		Long: `Scans the repositories of a GitHub organization (or user) for npm packages
listed in a target file, across package.json, package-lock.json and yarn.lock.

Usage modes:
  pkgscan                     Scan the default organization (same as "scan")
  pkgscan scan --org acme     Scan another organization or user
  pkgscan local /path/to/repo Scan the branches of a local clone
  pkgscan inspect yarn.lock   Check manifest files on disk`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          scanController.Execute,
	}

	// Global persistent flags
	controllers.AddPersistentFlags(cmd)
	scanController.AddFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:          bind.Use,
			Short:        bind.Short,
			Long:         bind.Long,
			SilenceUsage: true,
			RunE:         controller.Execute,
		}

		// Add controller-specific flags
		controller.AddFlags(subCmd)

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	appContext := injectAppContext()
	cobraRoot := buildRootCommand(appContext.GetScanController())

	// Add all subcommands
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'pkgscan': %s", err)
	}
}
