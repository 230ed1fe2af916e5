// Package secscan verifies that a tree about to be published contains
// no credentials, key material, or build tooling. The rules live in a
// versioned YAML policy; the embedded default can be replaced via
// configuration but never weakened at runtime.
package secscan
