package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitSpec(t *testing.T) {
	got, err := splitSpec("Finance Team:35:4:5:3", 5)
	if err != nil {
		t.Fatalf("splitSpec: %v", err)
	}
	if got.name != "Finance Team" {
		t.Errorf("name = %q", got.name)
	}
	if diff := cmp.Diff([]int{35, 4, 5, 3}, got.nums); diff != "" {
		t.Errorf("nums mismatch (-want +got):\n%s", diff)
	}

	got, err = splitSpec("Team: Ops:2:4", 3)
	if err != nil {
		t.Fatalf("splitSpec: %v", err)
	}
	if got.name != "Team: Ops" {
		t.Errorf("expected colon kept in name, got %q", got.name)
	}

	for _, bad := range []string{"CFO:5", "CFO:five:4"} {
		if _, err := splitSpec(bad, 3); err == nil {
			t.Errorf("splitSpec(%q): expected error", bad)
		}
	}
}
