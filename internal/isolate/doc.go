// Package isolate derives a credential-free deploy branch from a
// backed-up build artifact. Four interchangeable strategies end in the
// same tree shape; they differ only in what happens to the branch's
// history and working tree.
package isolate
