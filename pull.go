package main

import (
	"fmt"
	"time"
)

const fetchSpinnerDelay = 250 * time.Millisecond

// pullCommand implements the safe-update flow: fetch, re-read the branch
// position with typed queries, then fast-forward (or rebase, per policy).
// A diverged branch under ff-only mode fails with a clear message before
// any merge is attempted.
func pullCommand(policy Policy) CommandFunc {
	return func(exec GitExecutor, repoPath string) CommandResult {
		stop := startDelayedSpinner("Fetching upstream", fetchSpinnerDelay)
		res := exec.Run(repoPath, "fetch", "--prune")
		stop()
		if res.ExitCode != 0 {
			return res
		}

		state := snapshotRepoState(repoPath)
		if !state.HasUpstream() {
			return CommandResult{
				Output:   "current branch has no upstream; set one with `git branch --set-upstream-to` first",
				ExitCode: 1,
			}
		}
		if !state.AheadBehindKnown {
			return CommandResult{
				Output:   "could not compare against upstream " + state.Upstream,
				ExitCode: 1,
			}
		}
		if state.Behind == 0 {
			return CommandResult{Output: "Already up to date."}
		}
		if state.Ahead > 0 {
			if policy.PullMode == pullModeRebase {
				return exec.Run(repoPath, "rebase", "@{u}")
			}
			return CommandResult{
				Output: fmt.Sprintf(
					"branch has diverged from %s (%d ahead, %d behind); a merge or rebase is required, not a fast-forward",
					state.Upstream, state.Ahead, state.Behind,
				),
				ExitCode: 1,
			}
		}
		return exec.Run(repoPath, "merge", "--ff-only", "@{u}")
	}
}

// fetchCommand updates remote-tracking refs only.
func fetchCommand() CommandFunc {
	return func(exec GitExecutor, repoPath string) CommandResult {
		stop := startDelayedSpinner("Fetching upstream", fetchSpinnerDelay)
		defer stop()
		return exec.Run(repoPath, "fetch", "--prune")
	}
}
