package entities

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAccount          = "openedx"
	DefaultPackagesFile     = "target_packages.txt"
	DefaultBranchesFile     = "target_branches.txt"
	DefaultOutputDir        = "results"
	DefaultRequestTimeout   = 10 * time.Second
	DefaultMaxRateLimitWait = 15 * time.Minute

	// TokenEnvVar is read when no token is given by flag or config file.
	TokenEnvVar = "GITHUB_TOKEN"
)

// Settings is everything a scan needs, resolved from flags, the optional YAML
// config file and the environment.
type Settings struct {
	Account          string
	Repository       string // when set, only this repository is scanned
	PackagesFile     string
	BranchesFile     string
	Recursive        bool
	Token            string
	OutputDir        string
	RequestTimeout   time.Duration
	MaxRateLimitWait time.Duration

	Packages []TargetPackage
	Branches []string // empty means "default branch only"
}

// fileConfig mirrors the YAML config file. Zero values mean "not set".
type fileConfig struct {
	Account          string        `yaml:"account"`
	Repository       string        `yaml:"repository"`
	PackagesFile     string        `yaml:"packages_file"`
	BranchesFile     string        `yaml:"branches_file"`
	Recursive        bool          `yaml:"recursive"`
	Token            string        `yaml:"token"` // inline, ${ENV_VAR}, or file path
	OutputDir        string        `yaml:"output_dir"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	MaxRateLimitWait time.Duration `yaml:"max_rate_limit_wait"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings returns settings holding the built-in defaults.
func NewSettings() *Settings {
	return &Settings{
		Account:          DefaultAccount,
		PackagesFile:     DefaultPackagesFile,
		BranchesFile:     DefaultBranchesFile,
		OutputDir:        DefaultOutputDir,
		RequestTimeout:   DefaultRequestTimeout,
		MaxRateLimitWait: DefaultMaxRateLimitWait,
	}
}

// ApplyConfigFile overlays the values set in the YAML file at path.
func (s *Settings) ApplyConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: failed to read config file %q: %w", ErrConfiguration, path, err)
	}

	var cfg fileConfig
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return fmt.Errorf("%w: failed to parse config file %q: %w", ErrConfiguration, path, unmarshalErr)
	}

	overlayString(&s.Account, cfg.Account)
	overlayString(&s.Repository, cfg.Repository)
	overlayString(&s.PackagesFile, cfg.PackagesFile)
	overlayString(&s.BranchesFile, cfg.BranchesFile)
	overlayString(&s.OutputDir, cfg.OutputDir)
	overlayString(&s.Token, resolveToken(cfg.Token))
	s.Recursive = s.Recursive || cfg.Recursive
	if cfg.RequestTimeout > 0 {
		s.RequestTimeout = cfg.RequestTimeout
	}
	if cfg.MaxRateLimitWait > 0 {
		s.MaxRateLimitWait = cfg.MaxRateLimitWait
	}

	return nil
}

// ApplyEnvironment fills the token from GITHUB_TOKEN when none is set yet.
func (s *Settings) ApplyEnvironment() {
	if s.Token == "" {
		s.Token = strings.TrimSpace(os.Getenv(TokenEnvVar))
	}
}

// Authenticated reports whether API requests will carry a token.
func (s *Settings) Authenticated() bool { return s.Token != "" }

// LoadTargets reads the packages file (required) and the branches file
// (optional). It runs before any network activity.
func (s *Settings) LoadTargets() error {
	packages, err := LoadTargetPackages(s.PackagesFile)
	if err != nil {
		return err
	}
	branches, err := LoadTargetBranches(s.BranchesFile)
	if err != nil {
		return err
	}

	s.Packages = packages
	s.Branches = branches
	return nil
}

// Validate checks for required configuration values.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Account) == "" {
		return fmt.Errorf("%w: account is required", ErrConfiguration)
	}
	if s.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrConfiguration)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrConfiguration)
	}
	if s.MaxRateLimitWait < 0 {
		return fmt.Errorf("%w: max rate limit wait must not be negative", ErrConfiguration)
	}
	return nil
}

// LoadTargetPackages parses one "name@version" per line. Blank lines and lines
// starting with "#" are ignored. A missing file or an empty list is an error.
func LoadTargetPackages(path string) ([]TargetPackage, error) {
	lines, err := readConfigLines(path)
	if err != nil {
		return nil, fmt.Errorf("%w: packages file %q: %w", ErrConfiguration, path, err)
	}

	packages := make([]TargetPackage, 0, len(lines))
	for _, line := range lines {
		pkg, parseErr := ParsePackageIdentifier(line.text)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %s:%d: %w", ErrConfiguration, path, line.number, parseErr)
		}
		packages = append(packages, pkg)
	}

	if len(packages) == 0 {
		return nil, fmt.Errorf("%w: %w in %q", ErrConfiguration, ErrNoTargetPackages, path)
	}
	return packages, nil
}

// LoadTargetBranches parses one branch name per line. A missing file yields an
// empty list, which means "check each repository's default branch only".
func LoadTargetBranches(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	lines, err := readConfigLines(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debugf("Branches file %q not found, using default branches", path)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: branches file %q: %w", ErrConfiguration, path, err)
	}

	branches := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if seen[line.text] {
			continue
		}
		seen[line.text] = true
		branches = append(branches, line.text)
	}
	return branches, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".pkgscan.yaml",
		".pkgscan.yml",
		"pkgscan.yaml",
		"pkgscan.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

type configLine struct {
	number int
	text   string
}

func readConfigLines(path string) ([]configLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []configLine
	scanner := bufio.NewScanner(file)
	number := 0
	for scanner.Scan() {
		number++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, configLine{number: number, text: text})
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, scanErr
	}
	return lines, nil
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func overlayString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
