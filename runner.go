package main

import (
	"fmt"
	"os"
	"strings"
)

// RunStatus is the tri-state outcome of one pipeline run. Cancellation
// is a first-class outcome, never an error.
type RunStatus int

const (
	StatusSuccess RunStatus = iota
	StatusCancelled
	StatusFailed
)

func (s RunStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// ActionResult is produced exactly once per pipeline invocation and never
// mutated afterwards.
type ActionResult struct {
	Status         RunStatus
	ExitCode       int
	CapturedOutput string

	// RestartRequired is set when the action changed shell integration
	// state; the host should exit cleanly instead of continuing on stale
	// in-process assumptions.
	RestartRequired bool
}

// exitCodeCancelled is the reserved exit value an underlying sub-flow uses
// to signal a benign operator cancel. It maps to Cancelled, never Failed.
const exitCodeCancelled = 130

// CommandFunc performs the underlying mutating command for one action.
// Handlers that need intermediate steps (a fetch before a merge, say) run
// them in here; everything before the first executor call must be free of
// side effects.
type CommandFunc func(exec GitExecutor, repoPath string) CommandResult

// gitCommand builds the plain case: a single git invocation from a fixed
// argument template.
func gitCommand(args ...string) CommandFunc {
	return func(exec GitExecutor, repoPath string) CommandResult {
		return exec.Run(repoPath, args...)
	}
}

type checkpointOfferer interface {
	OfferKnownGood(repoPath string)
	OfferBackup(repoPath string)
}

// ActionRunner drives the guarded mutation pipeline: snapshot, dirty gate,
// tier-appropriate confirmation, checkpoint offers, then the underlying
// command with uniform result classification.
type ActionRunner struct {
	exec        GitExecutor
	present     Presenter
	policy      Policy
	checkpoints checkpointOfferer
	snapshot    func(string) RepoState
}

func NewActionRunner(exec GitExecutor, present Presenter, policy Policy) *ActionRunner {
	return &ActionRunner{
		exec:        exec,
		present:     present,
		policy:      policy,
		checkpoints: NewCheckpointManager(present, policy),
		snapshot:    snapshotRepoState,
	}
}

// Run executes one guarded action to completion. The state machine runs
// exactly once: any decline short-circuits to Cancelled with zero side
// effects, and once invoke has started there is no cancellation path.
func (r *ActionRunner) Run(desc ActionDescriptor, repoPath string, invoke CommandFunc) ActionResult {
	state := r.snapshot(repoPath)

	if desc.RequiresBranch {
		if err := requireBranch(state, desc); err != nil {
			return ActionResult{Status: StatusFailed, ExitCode: 1, CapturedOutput: err.Error()}
		}
	}
	if desc.RequiresUpstream {
		if err := requireUpstream(state, desc); err != nil {
			return ActionResult{Status: StatusFailed, ExitCode: 1, CapturedOutput: err.Error()}
		}
	}
	if desc.RequiresCleanTree {
		if err := requireClean(state, desc); err != nil {
			return ActionResult{Status: StatusFailed, ExitCode: 1, CapturedOutput: err.Error()}
		}
	}

	switch classify(desc) {
	case RiskSafe:
		// No prompt; execute immediately.
	case RiskGuarded:
		if !confirmBoolean(r.present, desc) {
			return ActionResult{Status: StatusCancelled}
		}
	case RiskDestructive:
		r.present.Message(renderPreflight(state, desc))
		if !confirmBoolean(r.present, desc) {
			return ActionResult{Status: StatusCancelled}
		}
		if desc.OffersCheckpoint {
			r.checkpoints.OfferKnownGood(repoPath)
			r.checkpoints.OfferBackup(repoPath)
		}
		if desc.RequiresTypedPhrase {
			if !confirmPhrase(r.present, desc, r.policy.ConfirmPhrase) {
				r.present.Message(fmt.Sprintf("Phrase did not match; %s cancelled.", strings.ToLower(desc.Label)))
				return ActionResult{Status: StatusCancelled}
			}
		}
	}

	res := invoke(r.exec, repoPath)

	result := ActionResult{
		ExitCode:       res.ExitCode,
		CapturedOutput: res.Output,
	}
	switch {
	case res.ExitCode == 0:
		result.Status = StatusSuccess
		result.RestartRequired = desc.AltersShellIntegration
	case res.ExitCode == exitCodeCancelled:
		result.Status = StatusCancelled
	default:
		result.Status = StatusFailed
	}
	return result
}

// Report renders the single operator-facing outcome line, plus the
// captured command output for failures so the operator can diagnose
// without re-running by hand.
func (r *ActionRunner) Report(desc ActionDescriptor, result ActionResult) {
	switch result.Status {
	case StatusSuccess:
		if output := strings.TrimSpace(result.CapturedOutput); output != "" {
			r.present.Message(output)
		} else {
			r.present.Message(fmt.Sprintf("%s: done.", desc.Label))
		}
	case StatusCancelled:
		r.present.Message(fmt.Sprintf("%s: cancelled. Nothing was changed.", desc.Label))
	case StatusFailed:
		r.reportFailure(desc, result)
	}
}

func (r *ActionRunner) reportFailure(desc ActionDescriptor, result ActionResult) {
	output := strings.TrimSpace(result.CapturedOutput)
	if output == "" {
		r.present.Message(fmt.Sprintf("%s: failed (exit %d).", desc.Label, result.ExitCode))
		return
	}
	// Scoped capture: the output lives in a temp file for the duration of
	// this one display step and is released on every exit path.
	path, release, err := captureOutputFile(output)
	if err != nil {
		r.present.Message(fmt.Sprintf("%s: failed (exit %d).\n\n%s", desc.Label, result.ExitCode, output))
		return
	}
	defer release()
	data, err := os.ReadFile(path)
	if err != nil {
		data = []byte(output)
	}
	r.present.Message(fmt.Sprintf("%s: failed (exit %d).\n\n%s", desc.Label, result.ExitCode, strings.TrimSpace(string(data))))
}
