package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newTestCheckpointManager(present Presenter, policy Policy) *CheckpointManager {
	mgr := NewCheckpointManager(present, policy)
	mgr.now = fixedClock()
	return mgr
}

func TestOfferKnownGood_CreatesAnnotatedTag(t *testing.T) {
	repo, dir := initTestRepo(t)
	hash := commitFile(t, repo, dir, "a.txt", "one", "c1")

	present := &fakePresenter{
		confirmAnswers: []bool{true},
		promptAnswers: []promptAnswer{
			{useDefault: true, ok: true},
			{value: "before the big rewrite", ok: true},
		},
	}
	mgr := newTestCheckpointManager(present, Policy{})
	mgr.OfferKnownGood(dir)

	wantName := "known-good/20250309-143000"
	ref, err := repo.Tag(wantName)
	if err != nil {
		t.Fatalf("expected tag %s: %v", wantName, err)
	}
	tag, err := repo.TagObject(ref.Hash())
	if err != nil {
		t.Fatalf("expected annotated tag: %v", err)
	}
	if tag.Target != hash {
		t.Fatalf("tag must target HEAD")
	}
	if !strings.Contains(tag.Message, "master") || !strings.Contains(tag.Message, hash.String()[:7]) {
		t.Fatalf("annotation must embed branch and short commit, got %q", tag.Message)
	}
	if !strings.Contains(tag.Message, "before the big rewrite") {
		t.Fatalf("annotation must embed the note, got %q", tag.Message)
	}
}

func TestOfferKnownGood_SkipsWhenTagAlreadyAtHead(t *testing.T) {
	repo, dir := initTestRepo(t)
	commitFile(t, repo, dir, "a.txt", "one", "c1")

	mgr := newTestCheckpointManager(&fakePresenter{}, Policy{})
	if _, err := mgr.CreateAt(dir, "known-good/existing", KindKnownGood, ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	present := &fakePresenter{confirmAnswers: []bool{true}}
	mgr = newTestCheckpointManager(present, Policy{})
	mgr.OfferKnownGood(dir)

	if len(present.events) != 0 {
		t.Fatalf("offer must be skipped entirely when a known-good tag targets HEAD, got %v", present.events)
	}
}

func TestOfferKnownGood_OffersAgainAfterNewCommit(t *testing.T) {
	repo, dir := initTestRepo(t)
	commitFile(t, repo, dir, "a.txt", "one", "c1")

	mgr := newTestCheckpointManager(&fakePresenter{}, Policy{})
	if _, err := mgr.CreateAt(dir, "known-good/old", KindKnownGood, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	commitFile(t, repo, dir, "b.txt", "two", "c2")

	present := &fakePresenter{confirmAnswers: []bool{false}}
	mgr = newTestCheckpointManager(present, Policy{})
	mgr.OfferKnownGood(dir)

	if len(present.events) != 1 || present.events[0] != "confirm" {
		t.Fatalf("expected a fresh offer at the new commit, got %v", present.events)
	}
}

func TestOfferKnownGood_DeclineCreatesNothing(t *testing.T) {
	repo, dir := initTestRepo(t)
	commitFile(t, repo, dir, "a.txt", "one", "c1")

	present := &fakePresenter{confirmAnswers: []bool{false}}
	mgr := newTestCheckpointManager(present, Policy{})
	mgr.OfferKnownGood(dir)

	iter, err := repo.Tags()
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	defer iter.Close()
	if _, err := iter.Next(); err == nil {
		t.Fatalf("declined offer must not create a tag")
	}
}

func TestOfferBackup_GatedByPolicy(t *testing.T) {
	_, dir := initTestRepo(t)

	present := &fakePresenter{confirmAnswers: []bool{true}}
	mgr := newTestCheckpointManager(present, Policy{OfferBackupTag: false})
	mgr.OfferBackup(dir)

	if len(present.events) != 0 {
		t.Fatalf("disabled toggle must suppress the offer, got %v", present.events)
	}
}

func TestOfferBackup_ForceOverwritesSameName(t *testing.T) {
	repo, dir := initTestRepo(t)
	hash := commitFile(t, repo, dir, "a.txt", "one", "c1")

	policy := Policy{OfferBackupTag: true}
	present := &fakePresenter{confirmAnswers: []bool{true, true}}
	mgr := newTestCheckpointManager(present, policy)
	mgr.OfferBackup(dir)
	mgr.OfferBackup(dir) // same generated name: second-resolution clock is fixed

	ref, err := repo.Tag("backup/20250309-143000")
	if err != nil {
		t.Fatalf("expected backup tag: %v", err)
	}
	tag, err := repo.TagObject(ref.Hash())
	if err != nil {
		t.Fatalf("expected annotated tag: %v", err)
	}
	if tag.Target != hash {
		t.Fatalf("backup tag must target HEAD")
	}
	for _, msg := range present.messages {
		if strings.Contains(msg, "not created") {
			t.Fatalf("force overwrite must not report a failure: %q", msg)
		}
	}
}

func TestCreateAt_CollisionWithoutForceFails(t *testing.T) {
	repo, dir := initTestRepo(t)
	commitFile(t, repo, dir, "a.txt", "one", "c1")

	mgr := newTestCheckpointManager(&fakePresenter{}, Policy{})
	if _, err := mgr.CreateAt(dir, "known-good/x", KindKnownGood, ""); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := mgr.CreateAt(dir, "known-good/x", KindKnownGood, "")
	if !errors.Is(err, git.ErrTagExists) {
		t.Fatalf("expected tag-exists error, got %v", err)
	}
}

func TestCreateAt_NoCommitsFails(t *testing.T) {
	_, dir := initTestRepo(t)

	mgr := newTestCheckpointManager(&fakePresenter{}, Policy{})
	if _, err := mgr.CreateAt(dir, "known-good/x", KindKnownGood, ""); err == nil {
		t.Fatalf("expected error on a repo with no commits")
	}
}

func TestChooseKind_MapsSelectionToKind(t *testing.T) {
	cases := []struct {
		choice string
		want   CheckpointKind
	}{
		{"known-good", KindKnownGood},
		{"backup", KindBackup},
		{"pre-danger", KindPreDanger},
	}
	for _, tc := range cases {
		present := &fakePresenter{selectAnswers: []promptAnswer{{value: tc.choice, ok: true}}}
		mgr := newTestCheckpointManager(present, Policy{})
		kind, ok := mgr.ChooseKind()
		if !ok || kind != tc.want {
			t.Fatalf("choice %q: got kind %v ok=%v", tc.choice, kind, ok)
		}
	}
}

func TestChooseKind_CancelledSelectionDeclines(t *testing.T) {
	present := &fakePresenter{selectAnswers: []promptAnswer{{ok: false}}}
	mgr := newTestCheckpointManager(present, Policy{})
	if _, ok := mgr.ChooseKind(); ok {
		t.Fatalf("a cancelled selection must decline the operation")
	}
	if len(present.events) != 1 || present.events[0] != "select" {
		t.Fatalf("expected exactly one selection prompt, got %v", present.events)
	}
}

func TestCheckpointFailure_InformsWithoutAborting(t *testing.T) {
	repo, dir := initTestRepo(t)
	commitFile(t, repo, dir, "a.txt", "one", "c1")

	mgr := newTestCheckpointManager(&fakePresenter{}, Policy{})
	if _, err := mgr.CreateAt(dir, "known-good/dup", KindKnownGood, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	commitFile(t, repo, dir, "b.txt", "two", "c2")

	// Operator picks a name that collides with an existing tag.
	present := &fakePresenter{
		confirmAnswers: []bool{true},
		promptAnswers: []promptAnswer{
			{value: "known-good/dup", ok: true},
			{value: "", ok: true},
		},
	}
	mgr = newTestCheckpointManager(present, Policy{})
	mgr.OfferKnownGood(dir)

	// The failure path must be a message, never a panic or a pipeline error.
	found := false
	for _, msg := range present.messages {
		if strings.Contains(msg, "Checkpoint not created") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an advisory failure message, got %v", present.messages)
	}
}
