package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Shared go-git repository helpers for snapshot, checkpoint and pull tests.

func initTestRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return repo, dir
}

func testSignature() *object.Signature {
	return &object.Signature{
		Name:  "tester",
		Email: "tester@example.com",
		When:  time.Now(),
	}
}

func writeFile(t *testing.T, dir string, name string, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func commitFile(t *testing.T, repo *git.Repository, dir string, name string, content string, message string) plumbing.Hash {
	t.Helper()
	writeFile(t, dir, name, content)
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: testSignature()})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

func setUpstream(t *testing.T, repo *git.Repository, branch string) {
	t.Helper()
	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Remotes["origin"] = &config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.com/demo.git"},
	}
	cfg.Branches[branch] = &config.Branch{
		Name:   branch,
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName(branch),
	}
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("set config: %v", err)
	}
}

func setRemoteRef(t *testing.T, repo *git.Repository, branch string, hash plumbing.Hash) {
	t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", branch), hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("set remote ref: %v", err)
	}
}

func resetHard(t *testing.T, repo *git.Repository, hash plumbing.Hash) {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.Reset(&git.ResetOptions{Commit: hash, Mode: git.HardReset}); err != nil {
		t.Fatalf("reset: %v", err)
	}
}
