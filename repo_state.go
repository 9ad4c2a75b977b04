package main

import (
	"bytes"
	"io"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// RepoState is the advisory snapshot shown to the operator before a guarded
// action. It is recomputed per pipeline run and never cached across actions.
// Every field degrades independently: a sub-query failure leaves its field at
// the sentinel value instead of failing the snapshot.
type RepoState struct {
	Path     string
	Branch   string
	Detached bool
	Upstream string

	Ahead            int
	Behind           int
	AheadBehindKnown bool

	DirtyCount     int
	StagedCount    int
	UntrackedCount int
	StashCount     int

	LastCommit string
}

// HasUpstream reports whether the current branch tracks a remote ref.
func (s RepoState) HasUpstream() bool {
	return strings.TrimSpace(s.Upstream) != ""
}

// IsDirty reports whether the working tree has any uncommitted change,
// tracked or untracked.
func (s RepoState) IsDirty() bool {
	return s.DirtyCount > 0 || s.StagedCount > 0 || s.UntrackedCount > 0
}

// BranchLabel is the operator-facing branch name, with detached HEAD
// collapsed to a single sentinel label.
func (s RepoState) BranchLabel() string {
	if s.Detached || strings.TrimSpace(s.Branch) == "" {
		return "(detached HEAD)"
	}
	return s.Branch
}

func openGitRepo(repoPath string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
}

func snapshotRepoState(repoPath string) RepoState {
	state := RepoState{Path: repoPath}

	repo, err := openGitRepo(repoPath)
	if err != nil {
		state.Detached = true
		return state
	}

	state.Branch, state.Detached = currentBranch(repo)
	state.Upstream = upstreamRef(repo, state.Branch)
	if state.HasUpstream() {
		ahead, behind, err := aheadBehind(repo, state.Upstream)
		if err == nil {
			state.Ahead = ahead
			state.Behind = behind
			state.AheadBehindKnown = true
		}
	}

	state.DirtyCount, state.StagedCount, state.UntrackedCount = worktreeCounts(repo)
	state.StashCount = stashCount(repo)
	state.LastCommit = lastCommitSummary(repo)
	return state
}

// currentBranch resolves the checked-out branch name. Both a missing
// symbolic ref and a HEAD that points directly at a commit count as
// detached.
func currentBranch(repo *git.Repository) (string, bool) {
	head, err := repo.Head()
	if err == nil {
		if head.Name().IsBranch() {
			return head.Name().Short(), false
		}
		return "", true
	}
	// No commits yet: HEAD still names the unborn branch symbolically.
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return "", true
	}
	target := ref.Target()
	if !target.IsBranch() {
		return "", true
	}
	return target.Short(), false
}

// upstreamRef returns the remote-tracking ref name for branch, or "" when
// the branch has no configured upstream.
func upstreamRef(repo *git.Repository, branch string) string {
	if strings.TrimSpace(branch) == "" {
		return ""
	}
	cfg, err := repo.Config()
	if err != nil {
		return ""
	}
	bc, ok := cfg.Branches[branch]
	if !ok || bc == nil {
		return ""
	}
	remote := strings.TrimSpace(bc.Remote)
	merge := bc.Merge
	if remote == "" || strings.TrimSpace(merge.String()) == "" {
		return ""
	}
	short := strings.TrimPrefix(merge.String(), "refs/heads/")
	return remote + "/" + short
}

// aheadBehind counts commits unique to the local tip vs. the upstream
// tracking ref, walking each side down to their merge bases.
func aheadBehind(repo *git.Repository, upstream string) (int, int, error) {
	head, err := repo.Head()
	if err != nil {
		return 0, 0, err
	}
	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(splitUpstream(upstream)), true)
	if err != nil {
		return 0, 0, err
	}

	local, err := repo.CommitObject(head.Hash())
	if err != nil {
		return 0, 0, err
	}
	remote, err := repo.CommitObject(remoteRef.Hash())
	if err != nil {
		return 0, 0, err
	}
	if local.Hash == remote.Hash {
		return 0, 0, nil
	}

	bases, err := local.MergeBase(remote)
	if err != nil {
		return 0, 0, err
	}
	stop := make([]plumbing.Hash, 0, len(bases))
	for _, b := range bases {
		stop = append(stop, b.Hash)
	}

	ahead, err := countCommits(local, stop)
	if err != nil {
		return 0, 0, err
	}
	behind, err := countCommits(remote, stop)
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

func splitUpstream(upstream string) (string, string) {
	parts := strings.SplitN(upstream, "/", 2)
	if len(parts) != 2 {
		return "origin", upstream
	}
	return parts[0], parts[1]
}

func countCommits(tip *object.Commit, stop []plumbing.Hash) (int, error) {
	iter := object.NewCommitPreorderIter(tip, nil, stop)
	defer iter.Close()
	count := 0
	err := iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func worktreeCounts(repo *git.Repository) (dirty, staged, untracked int) {
	wt, err := repo.Worktree()
	if err != nil {
		return 0, 0, 0
	}
	status, err := wt.Status()
	if err != nil {
		return 0, 0, 0
	}
	for _, fs := range status {
		if fs.Worktree == git.Untracked {
			untracked++
			continue
		}
		if fs.Staging != git.Unmodified {
			staged++
		}
		if fs.Worktree != git.Unmodified {
			dirty++
		}
	}
	return dirty, staged, untracked
}

// stashCount counts stash reflog entries. go-git has no stash API, so this
// reads the reflog through the repository's resolved git directory, which
// also covers opens from a subdirectory; a missing file means an empty
// stash.
func stashCount(repo *git.Repository) int {
	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return 0
	}
	file, err := storage.Filesystem().Open("logs/refs/stash")
	if err != nil {
		return 0
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return 0
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}
	return bytes.Count(data, []byte("\n")) + 1
}

func lastCommitSummary(repo *git.Repository) string {
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return ""
	}
	summary := commit.Message
	if idx := strings.IndexByte(summary, '\n'); idx >= 0 {
		summary = summary[:idx]
	}
	return shortHash(head.Hash()) + " " + strings.TrimSpace(summary)
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}
