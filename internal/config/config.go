package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file location configuration.
type Paths struct {
	RepoDir         string `toml:"repo_dir"`
	ArtifactDir     string `toml:"artifact_dir"`
	StateDir        string `toml:"state_dir"`
	LogDir          string `toml:"log_dir"`
	CredentialsPath string `toml:"credentials_path"`
	TokenDir        string `toml:"token_dir"`
	AssetsDir       string `toml:"assets_dir"`
}

// Sheet contains configuration for the Google Sheets data source.
type Sheet struct {
	SpreadsheetID string `toml:"spreadsheet_id"`
	Range         string `toml:"range"`
	CSVPath       string `toml:"csv_path"`
}

// Deploy contains configuration for branch isolation and publishing.
type Deploy struct {
	Remote       string   `toml:"remote"`
	Branch       string   `toml:"branch"`
	SourceBranch string   `toml:"source_branch"`
	Strategy     string   `toml:"strategy"`
	Whitelist    []string `toml:"whitelist"`
	KeepMarkers  []string `toml:"keep_markers"`
}

// Security contains configuration for the pre-push secret scan.
type Security struct {
	PolicyPath string `toml:"policy_path"`
}

// Site contains configuration for the generated site.
type Site struct {
	Title      string `toml:"title"`
	Subtitle   string `toml:"subtitle"`
	LibraryURL string `toml:"library_url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the pipeline.
//
// Configuration sections by subsystem:
//   - Paths: repository, artifact, and state directories plus credentials
//   - Sheet: Google Sheets source (or a local CSV stand-in)
//   - Deploy: remote, deployment branch, isolation strategy, whitelist
//   - Security: optional policy override for the secret scan
//   - Site: titles and links rendered into the artifact
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Sheet    Sheet    `toml:"sheet"`
	Deploy   Deploy   `toml:"deploy"`
	Security Security `toml:"security"`
	Site     Site     `toml:"site"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/adujour/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("adujour.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories needed for a run.
// The artifact directory is owned by the build step and created there.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// GitBinary returns the git executable name.
func (c *Config) GitBinary() string {
	return "git"
}

// BackupsDir returns the transient snapshot location under the state dir.
func (c *Config) BackupsDir() string {
	return filepath.Join(c.Paths.StateDir, "backups")
}

// LockPath returns the single-operator lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "adujour.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
