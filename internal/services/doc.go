// Package services defines shared utilities consumed by the pipeline states
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp pipeline state names and run identifiers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the stable failure classes the CLI reports as exit codes.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the run.
package services
