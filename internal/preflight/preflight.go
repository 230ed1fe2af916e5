package preflight

import (
	"context"

	"adujour/internal/config"
	"adujour/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks that depend on optional configuration are only run when that
// configuration is present.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Repository", cfg.Paths.RepoDir))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	// A spreadsheet source needs the service-account credential on
	// disk; CSV sources do not.
	if cfg.Sheet.SpreadsheetID != "" {
		results = append(results, CheckFile("Sheets credential", cfg.Paths.CredentialsPath))
	}
	if cfg.Sheet.CSVPath != "" {
		results = append(results, CheckFile("CSV source", cfg.Sheet.CSVPath))
	}

	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		}
		results = append(results, result)
	}

	return results
}

// Failures filters results down to the failed checks.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
