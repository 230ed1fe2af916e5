package config

import (
	"errors"
	"fmt"
)

var validStrategies = map[string]struct{}{
	"orphan":  {},
	"prune":   {},
	"wipe":    {},
	"subtree": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSheet(); err != nil {
		return err
	}
	if err := c.validateDeploy(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSheet() error {
	if c.Sheet.SpreadsheetID == "" && c.Sheet.CSVPath == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/adujour/config.toml"
		}
		return fmt.Errorf("sheet.spreadsheet_id is required. Set ADUJOUR_SPREADSHEET_ID env var or edit %s (create with 'adujour config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateDeploy() error {
	if _, ok := validStrategies[c.Deploy.Strategy]; !ok {
		return fmt.Errorf("deploy.strategy must be one of orphan, prune, wipe, subtree (got %q)", c.Deploy.Strategy)
	}
	if c.Deploy.Branch == c.Deploy.SourceBranch && c.Deploy.SourceBranch != "" {
		return errors.New("deploy.branch must differ from deploy.source_branch")
	}
	if len(c.Deploy.Whitelist) == 0 {
		return errors.New("deploy.whitelist must not be empty")
	}
	return nil
}
