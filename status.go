package main

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// renderStatus is the read-only snapshot view. The upstream label becomes a
// terminal hyperlink when the tracking remote has a web URL.
func renderStatus(state RepoState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Branch:     %s\n", state.BranchLabel())

	if state.HasUpstream() {
		upstream := state.Upstream
		if url := remoteWebURL(state.Path, state.Upstream); url != "" {
			upstream = termenv.Hyperlink(url, upstream)
		}
		fmt.Fprintf(&b, "Upstream:   %s\n", upstream)
		if state.AheadBehindKnown {
			fmt.Fprintf(&b, "Position:   %d ahead, %d behind\n", state.Ahead, state.Behind)
		} else {
			b.WriteString("Position:   unknown\n")
		}
	} else {
		b.WriteString("Upstream:   none\n")
	}

	fmt.Fprintf(&b, "Unstaged:   %d\n", state.DirtyCount)
	fmt.Fprintf(&b, "Staged:     %d\n", state.StagedCount)
	fmt.Fprintf(&b, "Untracked:  %d\n", state.UntrackedCount)
	fmt.Fprintf(&b, "Stashes:    %d\n", state.StashCount)
	if state.LastCommit != "" {
		fmt.Fprintf(&b, "Last commit: %s\n", state.LastCommit)
	} else {
		b.WriteString("Last commit: none\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// remoteWebURL resolves the http(s) URL of the remote the upstream ref
// tracks, or "" when the remote is absent or not web-addressable.
func remoteWebURL(repoPath string, upstream string) string {
	remoteName, _ := splitUpstream(upstream)
	repo, err := openGitRepo(repoPath)
	if err != nil {
		return ""
	}
	remote, err := repo.Remote(remoteName)
	if err != nil {
		return ""
	}
	cfg := remote.Config()
	if len(cfg.URLs) == 0 {
		return ""
	}
	url := strings.TrimSpace(cfg.URLs[0])
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return strings.TrimSuffix(url, ".git")
	}
	return ""
}
