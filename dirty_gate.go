package main

import "fmt"

// Precondition gates. Each refusal is terminal for the pipeline run: no
// prompt is shown and the underlying command is never invoked. Every
// message names the action and the specific missing precondition.

func requireBranch(state RepoState, desc ActionDescriptor) error {
	if !state.Detached {
		return nil
	}
	return fmt.Errorf("%s requires a checked-out branch; HEAD is detached", desc.Label)
}

func requireUpstream(state RepoState, desc ActionDescriptor) error {
	if state.HasUpstream() {
		return nil
	}
	return fmt.Errorf("%s requires an upstream tracking ref; set one with `git branch --set-upstream-to`", desc.Label)
}

func requireClean(state RepoState, desc ActionDescriptor) error {
	if !state.IsDirty() {
		return nil
	}
	return fmt.Errorf(
		"%s requires a clean working tree (%d unstaged, %d staged, %d untracked); commit or stash your changes first",
		desc.Label, state.DirtyCount, state.StagedCount, state.UntrackedCount,
	)
}
