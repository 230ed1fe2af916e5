// Package git wraps the git CLI for the small set of repository
// operations deploys need. Command execution goes through an Executor
// so tests can script git behaviour without a real repository.
package git
