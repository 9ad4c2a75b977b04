package main

import (
	"errors"
	"os/exec"
)

var errGitNotInstalled = errors.New("git is not installed or not on PATH")

// CommandResult is the raw outcome of one underlying git invocation:
// merged stdout/stderr plus the process exit code.
type CommandResult struct {
	Output   string
	ExitCode int
}

// GitExecutor runs the underlying mutating git command for the pipeline.
// Read-side decisions never go through here; they use typed go-git queries.
type GitExecutor interface {
	Run(repoPath string, args ...string) CommandResult
}

type execGitExecutor struct {
	gitPath string
}

// NewGitExecutor locates the git binary. Absence is a hard precondition
// failure detected before any interactive loop starts.
func NewGitExecutor() (GitExecutor, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, errGitNotInstalled
	}
	return &execGitExecutor{gitPath: gitPath}, nil
}

func (e *execGitExecutor) Run(repoPath string, args ...string) CommandResult {
	cmd := exec.Command(e.gitPath, args...)
	cmd.Dir = repoPath
	out, err := cmd.CombinedOutput()
	result := CommandResult{Output: string(out)}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			if result.Output == "" {
				result.Output = err.Error()
			}
		}
	}
	return result
}
