package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSheet()
	c.normalizeDeploy()
	if err := c.normalizeSecurity(); err != nil {
		return err
	}
	c.normalizeSite()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RepoDir) == "" {
		c.Paths.RepoDir = defaultRepoDir
	}
	if c.Paths.RepoDir, err = expandPath(c.Paths.RepoDir); err != nil {
		return fmt.Errorf("paths.repo_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ArtifactDir) == "" {
		c.Paths.ArtifactDir = defaultArtifactDir
	}
	if !filepath.IsAbs(c.Paths.ArtifactDir) && !strings.HasPrefix(c.Paths.ArtifactDir, "~") {
		c.Paths.ArtifactDir = filepath.Join(c.Paths.RepoDir, c.Paths.ArtifactDir)
	}
	if c.Paths.ArtifactDir, err = expandPath(c.Paths.ArtifactDir); err != nil {
		return fmt.Errorf("paths.artifact_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CredentialsPath) == "" {
		c.Paths.CredentialsPath = defaultCredentials
	}
	if !filepath.IsAbs(c.Paths.CredentialsPath) && !strings.HasPrefix(c.Paths.CredentialsPath, "~") {
		c.Paths.CredentialsPath = filepath.Join(c.Paths.RepoDir, c.Paths.CredentialsPath)
	}
	if c.Paths.CredentialsPath, err = expandPath(c.Paths.CredentialsPath); err != nil {
		return fmt.Errorf("paths.credentials_path: %w", err)
	}
	if trimmed := strings.TrimSpace(c.Paths.TokenDir); trimmed != "" {
		if !filepath.IsAbs(trimmed) && !strings.HasPrefix(trimmed, "~") {
			trimmed = filepath.Join(c.Paths.RepoDir, trimmed)
		}
		if c.Paths.TokenDir, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("paths.token_dir: %w", err)
		}
	} else {
		c.Paths.TokenDir = ""
	}
	if trimmed := strings.TrimSpace(c.Paths.AssetsDir); trimmed != "" {
		if !filepath.IsAbs(trimmed) && !strings.HasPrefix(trimmed, "~") {
			trimmed = filepath.Join(c.Paths.RepoDir, trimmed)
		}
		if c.Paths.AssetsDir, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("paths.assets_dir: %w", err)
		}
	} else {
		c.Paths.AssetsDir = ""
	}
	return nil
}

func (c *Config) normalizeSheet() {
	c.Sheet.SpreadsheetID = strings.TrimSpace(c.Sheet.SpreadsheetID)
	if c.Sheet.SpreadsheetID == "" {
		if value, ok := os.LookupEnv("ADUJOUR_SPREADSHEET_ID"); ok {
			c.Sheet.SpreadsheetID = strings.TrimSpace(value)
		}
	}
	c.Sheet.Range = strings.TrimSpace(c.Sheet.Range)
	if c.Sheet.Range == "" {
		c.Sheet.Range = defaultSheetRange
	}
	c.Sheet.CSVPath = strings.TrimSpace(c.Sheet.CSVPath)
}

func (c *Config) normalizeDeploy() {
	c.Deploy.Remote = strings.TrimSpace(c.Deploy.Remote)
	if c.Deploy.Remote == "" {
		c.Deploy.Remote = defaultRemote
	}
	c.Deploy.Branch = strings.TrimSpace(c.Deploy.Branch)
	if c.Deploy.Branch == "" {
		c.Deploy.Branch = defaultBranch
	}
	c.Deploy.SourceBranch = strings.TrimSpace(c.Deploy.SourceBranch)
	c.Deploy.Strategy = strings.ToLower(strings.TrimSpace(c.Deploy.Strategy))
	if c.Deploy.Strategy == "" {
		c.Deploy.Strategy = defaultStrategy
	}
	c.Deploy.Whitelist = normalizeList(c.Deploy.Whitelist, defaultWhitelist())
	c.Deploy.KeepMarkers = normalizeList(c.Deploy.KeepMarkers, defaultKeepMarkers())
}

func (c *Config) normalizeSecurity() error {
	trimmed := strings.TrimSpace(c.Security.PolicyPath)
	if trimmed == "" {
		c.Security.PolicyPath = ""
		return nil
	}
	expanded, err := expandPath(trimmed)
	if err != nil {
		return fmt.Errorf("security.policy_path: %w", err)
	}
	c.Security.PolicyPath = expanded
	return nil
}

func (c *Config) normalizeSite() {
	c.Site.Title = strings.TrimSpace(c.Site.Title)
	if c.Site.Title == "" {
		c.Site.Title = defaultSiteTitle
	}
	c.Site.Subtitle = strings.TrimSpace(c.Site.Subtitle)
	if c.Site.Subtitle == "" {
		c.Site.Subtitle = defaultSubtitle
	}
	c.Site.LibraryURL = strings.TrimSpace(c.Site.LibraryURL)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "auto":
		c.Logging.Format = "auto"
	case "console", "json":
	default:
		c.Logging.Format = "auto"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeList(values []string, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.Trim(strings.TrimSpace(value), "/")
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
