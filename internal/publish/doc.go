// Package publish pushes the deploy and source branches. Deploy pushes
// climb an escalation ladder from a plain push up to a force push; the
// source branch is never forced. Every attempt is recorded so a failed
// publish can explain exactly what was tried.
package publish
