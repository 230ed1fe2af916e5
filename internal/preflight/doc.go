// Package preflight validates the environment before a run mutates
// anything: directories, credential files, the git binary, and the
// repository's remote configuration.
package preflight
