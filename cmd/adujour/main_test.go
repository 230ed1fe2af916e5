package main

import (
	"bytes"
	"strings"
	"testing"
)

// runCLI executes the command tree with the given args and returns the
// captured output.
func runCLI(t *testing.T, args []string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := runCLI(t, []string{"--help"})
	if err != nil {
		t.Fatalf("--help: %v", err)
	}
	for _, name := range []string{"build", "deploy", "master", "status", "config"} {
		requireContains(t, out, name)
	}
}

func TestUnknownCommandFails(t *testing.T) {
	if _, err := runCLI(t, []string{"definitely-not-a-command"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
