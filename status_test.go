package main

import (
	"strings"
	"testing"
)

func TestRenderStatus_NoUpstream(t *testing.T) {
	state := RepoState{
		Branch:     "main",
		DirtyCount: 1,
		StashCount: 3,
		LastCommit: "abc1234 initial",
	}
	out := renderStatus(state)
	for _, want := range []string{"main", "Upstream:   none", "Stashes:    3", "abc1234"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status missing %q:\n%s", want, out)
		}
	}
}

func TestRemoteWebURL_TrimsGitSuffix(t *testing.T) {
	repo, dir := initTestRepo(t)
	commitFile(t, repo, dir, "a.txt", "one", "c1")
	setUpstream(t, repo, "master")

	url := remoteWebURL(dir, "origin/master")
	if url != "https://example.com/demo" {
		t.Fatalf("expected trimmed https URL, got %q", url)
	}
}

func TestRemoteWebURL_NonHTTPRemote(t *testing.T) {
	_, dir := initTestRepo(t)
	if url := remoteWebURL(dir, "origin/master"); url != "" {
		t.Fatalf("missing remote must yield empty URL, got %q", url)
	}
}
