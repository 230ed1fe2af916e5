// Package config loads, normalizes, and validates adujour configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ADUJOUR_SPREADSHEET_ID. The Config type centralizes every knob the CLI and
// pipeline need, allowing repository/artifact directories and data-source
// credentials to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical strategy names, and clear validation errors.
package config
