package main

import (
	"fmt"
	"strings"
)

// Presenter is the modal-dialog contract the pipeline drives. Every
// primitive blocks until the operator answers. Implementations signal a
// backed-out dialog through the ok return; the pipeline treats cancel and
// an explicit No identically.
type Presenter interface {
	Message(text string)
	Confirm(text string) bool
	PromptText(label string, def string) (value string, ok bool)
	SelectOne(title string, options []string) (choice string, ok bool)
}

// confirmBoolean runs the default-No boolean confirm for an action.
func confirmBoolean(p Presenter, desc ActionDescriptor) bool {
	return p.Confirm(fmt.Sprintf("%s?", desc.Label))
}

// confirmPhrase demands the exact configured phrase. The comparison is
// byte-for-byte: no trimming, no case folding. A cancelled prompt counts
// as a mismatch.
func confirmPhrase(p Presenter, desc ActionDescriptor, phrase string) bool {
	typed, ok := p.PromptText(fmt.Sprintf("Type %q to %s", phrase, strings.ToLower(desc.Label)), "")
	if !ok {
		return false
	}
	return typed == phrase
}

// renderPreflight builds the destructive-action summary shown before the
// boolean confirm: current repository snapshot plus what the action will do.
func renderPreflight(state RepoState, desc ActionDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "About to run: %s\n", desc.Label)
	if strings.TrimSpace(desc.Description) != "" {
		fmt.Fprintf(&b, "%s\n", desc.Description)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Branch:    %s\n", state.BranchLabel())
	if state.HasUpstream() {
		fmt.Fprintf(&b, "Upstream:  %s\n", state.Upstream)
		if state.AheadBehindKnown {
			fmt.Fprintf(&b, "Position:  %d ahead, %d behind\n", state.Ahead, state.Behind)
		} else {
			b.WriteString("Position:  unknown\n")
		}
	} else {
		b.WriteString("Upstream:  none\n")
	}
	fmt.Fprintf(&b, "Changes:   %d unstaged, %d staged, %d untracked\n",
		state.DirtyCount, state.StagedCount, state.UntrackedCount)
	if state.StashCount > 0 {
		fmt.Fprintf(&b, "Stashes:   %d\n", state.StashCount)
	}
	if state.LastCommit != "" {
		fmt.Fprintf(&b, "Last commit: %s\n", state.LastCommit)
	} else {
		b.WriteString("Last commit: none\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
