package controllers

import (
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
)

const (
	flagConfig       = "config"
	flagToken        = "token"
	flagVerbose      = "verbose"
	flagOrg          = "org"
	flagRepo         = "repo"
	flagPackagesFile = "packages-file"
	flagBranchesFile = "branches-file"
	flagRecursive    = "recursive"
	flagOutputDir    = "output-dir"
	flagTimeout      = "timeout"
)

// AddPersistentFlags adds the flags shared by every command to the root.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(flagConfig, "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().String(flagToken, "",
		fmt.Sprintf("GitHub token (default: $%s)", entities.TokenEnvVar))
	cmd.PersistentFlags().BoolP(flagVerbose, "v", false,
		"Enable verbose output")
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagPackagesFile, entities.DefaultPackagesFile,
		"File with one name@version target package per line")
	cmd.Flags().String(flagBranchesFile, entities.DefaultBranchesFile,
		"File with one branch per line (absent: default branch only)")
}

func addWalkFlags(cmd *cobra.Command) {
	addTargetFlags(cmd)
	cmd.Flags().Bool(flagRecursive, false,
		"Recursively search for package files in subdirectories")
	cmd.Flags().String(flagOutputDir, entities.DefaultOutputDir,
		"Directory receiving exact_matches.txt and partial_matches.txt")
}

func addAccountFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagOrg, entities.DefaultAccount,
		"GitHub organization (or user) to scan")
	cmd.Flags().String(flagRepo, "",
		"Specific repository to check (default: every repository)")
	cmd.Flags().Duration(flagTimeout, entities.DefaultRequestTimeout,
		"Timeout of a single GitHub API request")
}

// resolveSettings builds the settings of one invocation. Precedence is
// flag > config file > environment > default. Targets are loaded last so
// configuration errors surface before any network activity.
func resolveSettings(cmd *cobra.Command) (*entities.Settings, error) {
	if verbose, _ := cmd.Flags().GetBool(flagVerbose); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	settings := entities.NewSettings()

	configPath := flagValue(cmd, flagConfig)
	if configPath == "" {
		if found, err := entities.FindConfigFile(); err == nil {
			configPath = found
		}
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
		if err := settings.ApplyConfigFile(configPath); err != nil {
			return nil, err
		}
	}

	overlayFlag(cmd, flagOrg, &settings.Account)
	overlayFlag(cmd, flagRepo, &settings.Repository)
	overlayFlag(cmd, flagPackagesFile, &settings.PackagesFile)
	overlayFlag(cmd, flagBranchesFile, &settings.BranchesFile)
	overlayFlag(cmd, flagOutputDir, &settings.OutputDir)
	overlayFlag(cmd, flagToken, &settings.Token)
	if changed(cmd, flagRecursive) {
		settings.Recursive, _ = cmd.Flags().GetBool(flagRecursive)
	}
	if changed(cmd, flagTimeout) {
		timeout, _ := cmd.Flags().GetDuration(flagTimeout)
		settings.RequestTimeout = timeout
	}
	settings.ApplyEnvironment()

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := settings.LoadTargets(); err != nil {
		return nil, err
	}

	logger.Debugf("Settings: account=%s repo=%q recursive=%t timeout=%s",
		settings.Account, settings.Repository, settings.Recursive, settings.RequestTimeout.Round(time.Millisecond))
	return settings, nil
}

func changed(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func flagValue(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

func overlayFlag(cmd *cobra.Command, name string, dst *string) {
	if changed(cmd, name) {
		*dst = flagValue(cmd, name)
	}
}
