package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const launcherName = "gsafe"

// launcherPath is where the shell launcher link lives. Install and remove
// both run through the guarded pipeline because they change how the host
// shell reaches this binary; a successful run requires a session restart.
func launcherPath() (string, error) {
	home := strings.TrimSpace(os.Getenv("HOME"))
	if home == "" {
		return "", errors.New("HOME not set")
	}
	return filepath.Join(home, ".local", "bin", launcherName), nil
}

func installLauncherCommand() CommandFunc {
	return func(GitExecutor, string) CommandResult {
		target, err := launcherPath()
		if err != nil {
			return CommandResult{Output: err.Error(), ExitCode: 1}
		}
		self, err := os.Executable()
		if err != nil {
			return CommandResult{Output: err.Error(), ExitCode: 1}
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return CommandResult{Output: err.Error(), ExitCode: 1}
		}
		if _, err := os.Lstat(target); err == nil {
			if err := os.Remove(target); err != nil {
				return CommandResult{Output: err.Error(), ExitCode: 1}
			}
		}
		if err := os.Symlink(self, target); err != nil {
			return CommandResult{Output: err.Error(), ExitCode: 1}
		}
		return CommandResult{Output: fmt.Sprintf("Launcher installed at %s.", target)}
	}
}

func removeLauncherCommand() CommandFunc {
	return func(GitExecutor, string) CommandResult {
		target, err := launcherPath()
		if err != nil {
			return CommandResult{Output: err.Error(), ExitCode: 1}
		}
		err = os.Remove(target)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return CommandResult{Output: err.Error(), ExitCode: 1}
		}
		if errors.Is(err, os.ErrNotExist) {
			return CommandResult{Output: "No launcher was installed."}
		}
		return CommandResult{Output: fmt.Sprintf("Launcher removed from %s.", target)}
	}
}
