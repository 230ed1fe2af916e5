package services_test

import (
	"errors"
	"testing"

	"adujour/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrSecurity, "verifying", "scan", "forbidden file", base)
	if !errors.Is(err, services.ErrSecurity) {
		t.Fatalf("expected security marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "publishing", "push", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{services.Wrap(services.ErrValidation, "validating", "", "missing credential", nil), 2},
		{services.Wrap(services.ErrBuild, "building", "", "", nil), 3},
		{services.Wrap(services.ErrBackup, "backing_up", "", "", nil), 4},
		{services.Wrap(services.ErrSecurity, "verifying", "", "", nil), 5},
		{services.Wrap(services.ErrPublish, "publishing", "", "", nil), 6},
		{errors.New("unclassified"), 1},
	}
	for _, tc := range cases {
		if got := services.ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestDetailsStripsMarker(t *testing.T) {
	err := services.Wrap(services.ErrPublish, "publishing", "push", "all escalation levels exhausted", nil)
	got := services.Details(err)
	want := "publishing: push: all escalation levels exhausted"
	if got != want {
		t.Fatalf("Details = %q, want %q", got, want)
	}
}
