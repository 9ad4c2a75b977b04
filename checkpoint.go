package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CheckpointKind distinguishes the three safety-tag namespaces. Known-good
// tags are long-lived "this state was verified" markers; backup and
// pre-danger tags are short-lived rollback references taken right before a
// risky operation.
type CheckpointKind int

const (
	KindKnownGood CheckpointKind = iota
	KindBackup
	KindPreDanger
)

func (k CheckpointKind) String() string {
	switch k {
	case KindBackup:
		return "backup"
	case KindPreDanger:
		return "pre-danger"
	default:
		return "known-good"
	}
}

func (k CheckpointKind) prefix() string {
	switch k {
	case KindBackup:
		return "backup/"
	case KindPreDanger:
		return "pre-danger/"
	default:
		return "known-good/"
	}
}

// Checkpoint describes one safety tag. The tag itself lives in the
// repository's ref namespace and outlives the process.
type Checkpoint struct {
	Name              string
	Kind              CheckpointKind
	TargetCommit      string
	AnnotationMessage string
	CreatedAt         time.Time
}

const checkpointTimestampLayout = "20060102-150405"

// CheckpointManager creates safety tags around destructive actions. Its
// offers are advisory: a declined prompt or a failed tag write informs the
// operator and never aborts the caller's pipeline.
type CheckpointManager struct {
	present Presenter
	policy  Policy
	now     func() time.Time
}

func NewCheckpointManager(present Presenter, policy Policy) *CheckpointManager {
	return &CheckpointManager{present: present, policy: policy, now: time.Now}
}

// OfferKnownGood asks whether to tag the current commit as known-good.
// If a known-good tag already targets HEAD the offer is skipped without
// any prompt; duplicates are never created silently.
func (m *CheckpointManager) OfferKnownGood(repoPath string) {
	repo, err := openGitRepo(repoPath)
	if err != nil {
		return
	}
	exists, err := knownGoodAtHead(repo)
	if err != nil || exists {
		return
	}
	if !m.present.Confirm("Create a known-good checkpoint of the current state first?") {
		return
	}

	defaultName := KindKnownGood.prefix() + m.now().Format(checkpointTimestampLayout)
	name, ok := m.present.PromptText("Checkpoint name", defaultName)
	if !ok {
		return
	}
	note, ok := m.present.PromptText("Note (optional)", "")
	if !ok {
		return
	}

	cp, err := m.create(repo, name, KindKnownGood, note, false)
	if err != nil {
		m.present.Message(fmt.Sprintf("Checkpoint not created: %v\nThe requested action can still proceed.", err))
		return
	}
	m.present.Message(fmt.Sprintf("Checkpoint %s created at %s.", cp.Name, cp.TargetCommit))
}

// OfferBackup asks whether to drop a timestamp-named backup tag before a
// dangerous operation. The offer only appears when the policy toggle is
// enabled. The tag is created with force semantics: a same-named leftover
// is overwritten, not rejected.
func (m *CheckpointManager) OfferBackup(repoPath string) {
	if !m.policy.OfferBackupTag {
		return
	}
	repo, err := openGitRepo(repoPath)
	if err != nil {
		return
	}
	if !m.present.Confirm("Create a backup tag before proceeding?") {
		return
	}

	name := KindBackup.prefix() + m.now().Format(checkpointTimestampLayout)
	cp, err := m.create(repo, name, KindBackup, "", true)
	if err != nil {
		m.present.Message(fmt.Sprintf("Backup tag not created: %v\nThe requested action can still proceed.", err))
		return
	}
	m.present.Message(fmt.Sprintf("Backup tag %s created at %s.", cp.Name, cp.TargetCommit))
}

// ChooseKind asks the operator which tag namespace a new checkpoint should
// live in. A cancelled selection declines the whole operation.
func (m *CheckpointManager) ChooseKind() (CheckpointKind, bool) {
	kinds := []CheckpointKind{KindKnownGood, KindBackup, KindPreDanger}
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.String()
	}
	choice, ok := m.present.SelectOne("Checkpoint kind", labels)
	if !ok {
		return KindKnownGood, false
	}
	for _, k := range kinds {
		if k.String() == choice {
			return k, true
		}
	}
	return KindKnownGood, true
}

// CreateAt creates a checkpoint of the given kind at HEAD without any
// prompting. Used by the explicit checkpoint command.
func (m *CheckpointManager) CreateAt(repoPath string, name string, kind CheckpointKind, note string) (Checkpoint, error) {
	repo, err := openGitRepo(repoPath)
	if err != nil {
		return Checkpoint{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = kind.prefix() + m.now().Format(checkpointTimestampLayout)
	}
	return m.create(repo, name, kind, note, kind == KindBackup)
}

func (m *CheckpointManager) create(repo *git.Repository, name string, kind CheckpointKind, note string, force bool) (Checkpoint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Checkpoint{}, errors.New("checkpoint name required")
	}
	if err := plumbing.NewTagReferenceName(name).Validate(); err != nil {
		return Checkpoint{}, fmt.Errorf("invalid checkpoint name %q: %w", name, err)
	}

	head, err := repo.Head()
	if err != nil {
		return Checkpoint{}, fmt.Errorf("repository has no commits to checkpoint: %w", err)
	}
	branch := "(detached HEAD)"
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}

	createdAt := m.now()
	message := fmt.Sprintf("gsafe checkpoint: %s @ %s", branch, shortHash(head.Hash()))
	if strings.TrimSpace(note) != "" {
		message += "\n\n" + strings.TrimSpace(note)
	}

	opts := &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "gsafe",
			Email: "gsafe@localhost",
			When:  createdAt,
		},
		Message: message,
	}
	_, err = repo.CreateTag(name, head.Hash(), opts)
	if errors.Is(err, git.ErrTagExists) && force {
		if derr := repo.DeleteTag(name); derr != nil {
			return Checkpoint{}, derr
		}
		_, err = repo.CreateTag(name, head.Hash(), opts)
	}
	if err != nil {
		return Checkpoint{}, err
	}

	return Checkpoint{
		Name:              name,
		Kind:              kind,
		TargetCommit:      shortHash(head.Hash()),
		AnnotationMessage: message,
		CreatedAt:         createdAt,
	}, nil
}

// knownGoodAtHead reports whether any known-good tag resolves to the
// current commit.
func knownGoodAtHead(repo *git.Repository) (bool, error) {
	head, err := repo.Head()
	if err != nil {
		return false, err
	}
	iter, err := repo.Tags()
	if err != nil {
		return false, err
	}
	defer iter.Close()

	found := false
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if !strings.HasPrefix(ref.Name().Short(), KindKnownGood.prefix()) {
			return nil
		}
		target := ref.Hash()
		if tag, terr := repo.TagObject(ref.Hash()); terr == nil {
			target = tag.Target
		}
		if target == head.Hash() {
			found = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
