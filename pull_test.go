package main

import (
	"strings"
	"testing"
)

func TestPull_FastForwardsWhenBehindOnly(t *testing.T) {
	repo, dir := initTestRepo(t)
	c1 := commitFile(t, repo, dir, "a.txt", "one", "c1")
	c2 := commitFile(t, repo, dir, "b.txt", "two", "c2")
	setUpstream(t, repo, "master")
	setRemoteRef(t, repo, "master", c2)
	resetHard(t, repo, c1)
	// 0 ahead, 1 behind: a plain fast-forward update.

	exec := &fakeExecutor{results: []CommandResult{{}, {Output: "Fast-forward"}}}
	result := pullCommand(Policy{PullMode: pullModeFFOnly})(exec, dir)

	if result.ExitCode != 0 {
		t.Fatalf("expected success, got exit %d: %s", result.ExitCode, result.Output)
	}
	if len(exec.calls) != 2 {
		t.Fatalf("expected fetch then merge, got %v", exec.calls)
	}
	if exec.calls[0][0] != "fetch" {
		t.Fatalf("expected fetch first, got %v", exec.calls[0])
	}
	if exec.calls[1][0] != "merge" || exec.calls[1][1] != "--ff-only" {
		t.Fatalf("expected ff-only merge, got %v", exec.calls[1])
	}
}

func TestPull_AlreadyUpToDateSkipsMerge(t *testing.T) {
	repo, dir := initTestRepo(t)
	c1 := commitFile(t, repo, dir, "a.txt", "one", "c1")
	setUpstream(t, repo, "master")
	setRemoteRef(t, repo, "master", c1)

	exec := &fakeExecutor{results: []CommandResult{{}}}
	result := pullCommand(Policy{PullMode: pullModeFFOnly})(exec, dir)

	if result.ExitCode != 0 {
		t.Fatalf("expected success, got exit %d", result.ExitCode)
	}
	if !strings.Contains(result.Output, "up to date") {
		t.Fatalf("expected up-to-date message, got %q", result.Output)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("expected fetch only, got %v", exec.calls)
	}
}

func TestPull_DivergedFailsWithoutMerging(t *testing.T) {
	repo, dir := initTestRepo(t)
	c1 := commitFile(t, repo, dir, "a.txt", "one", "c1")
	c2 := commitFile(t, repo, dir, "b.txt", "two", "c2")
	setUpstream(t, repo, "master")
	setRemoteRef(t, repo, "master", c2)
	resetHard(t, repo, c1)
	commitFile(t, repo, dir, "c.txt", "three", "local divergence")
	// 1 ahead, 1 behind: diverged.

	exec := &fakeExecutor{results: []CommandResult{{}}}
	result := pullCommand(Policy{PullMode: pullModeFFOnly})(exec, dir)

	if result.ExitCode == 0 {
		t.Fatalf("diverged branch must fail under ff-only")
	}
	if !strings.Contains(result.Output, "diverged") || !strings.Contains(result.Output, "rebase") {
		t.Fatalf("expected divergence message naming the remedy, got %q", result.Output)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("merge must never be attempted on divergence, got %v", exec.calls)
	}
}

func TestPull_DivergedRebasesUnderRebaseMode(t *testing.T) {
	repo, dir := initTestRepo(t)
	c1 := commitFile(t, repo, dir, "a.txt", "one", "c1")
	c2 := commitFile(t, repo, dir, "b.txt", "two", "c2")
	setUpstream(t, repo, "master")
	setRemoteRef(t, repo, "master", c2)
	resetHard(t, repo, c1)
	commitFile(t, repo, dir, "c.txt", "three", "local divergence")

	exec := &fakeExecutor{results: []CommandResult{{}, {}}}
	result := pullCommand(Policy{PullMode: pullModeRebase})(exec, dir)

	if result.ExitCode != 0 {
		t.Fatalf("expected rebase path to succeed, got %q", result.Output)
	}
	if len(exec.calls) != 2 || exec.calls[1][0] != "rebase" {
		t.Fatalf("expected fetch then rebase, got %v", exec.calls)
	}
}

func TestPull_FailsWithoutUpstream(t *testing.T) {
	repo, dir := initTestRepo(t)
	commitFile(t, repo, dir, "a.txt", "one", "c1")

	exec := &fakeExecutor{results: []CommandResult{{}}}
	result := pullCommand(Policy{PullMode: pullModeFFOnly})(exec, dir)

	if result.ExitCode == 0 {
		t.Fatalf("expected failure without upstream")
	}
	if !strings.Contains(result.Output, "upstream") {
		t.Fatalf("expected message naming the missing upstream, got %q", result.Output)
	}
}

func TestPull_FetchFailurePropagates(t *testing.T) {
	_, dir := initTestRepo(t)

	exec := &fakeExecutor{results: []CommandResult{{ExitCode: 128, Output: "fatal: unable to access remote"}}}
	result := pullCommand(Policy{PullMode: pullModeFFOnly})(exec, dir)

	if result.ExitCode != 128 {
		t.Fatalf("expected fetch failure to propagate, got %d", result.ExitCode)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("nothing may run after a failed fetch, got %v", exec.calls)
	}
}
