package main

import (
	"strings"
	"testing"
)

func TestRequireClean_PassesOnCleanTree(t *testing.T) {
	state := RepoState{Branch: "main"}
	if err := requireClean(state, actionTable[ActionPull]); err != nil {
		t.Fatalf("clean tree must pass: %v", err)
	}
}

func TestRequireClean_RefusesUntrackedOnly(t *testing.T) {
	state := RepoState{Branch: "main", UntrackedCount: 1}
	err := requireClean(state, actionTable[ActionPull])
	if err == nil {
		t.Fatalf("untracked files count as a dirty tree")
	}
	if !strings.Contains(err.Error(), actionTable[ActionPull].Label) {
		t.Fatalf("refusal must name the action, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "stash") {
		t.Fatalf("refusal must tell the operator the remedy, got %q", err.Error())
	}
}

func TestRequireBranch_RefusesDetached(t *testing.T) {
	err := requireBranch(RepoState{Detached: true}, actionTable[ActionPush])
	if err == nil {
		t.Fatalf("detached HEAD must refuse branch-requiring actions")
	}
}

func TestRequireUpstream_RefusesWithoutTrackingRef(t *testing.T) {
	err := requireUpstream(RepoState{Branch: "main"}, actionTable[ActionRebase])
	if err == nil {
		t.Fatalf("missing upstream must refuse upstream-requiring actions")
	}
	if err := requireUpstream(RepoState{Branch: "main", Upstream: "origin/main"}, actionTable[ActionRebase]); err != nil {
		t.Fatalf("configured upstream must pass: %v", err)
	}
}
