// Package pipeline sequences a run through its states: Validating,
// Building, BackingUp, Isolating, Verifying, Publishing. A failure in
// any state aborts the run and restores the repository to its pre-run
// state; the guarantee is that a failed deploy leaves the checked-out
// branch and working tree exactly as they were.
package pipeline
