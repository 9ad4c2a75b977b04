package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mrbonezy/gsafe/ui"
)

var errNotInGitRepository = errors.New("not in a git repository")

func newRootCommand() *cobra.Command {
	var repoPath string

	root := &cobra.Command{
		Use:           "gsafe",
		Short:         "Guarded git mutations with preflight, confirmation and checkpoints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&repoPath, "repo", "C", "", "Repository path (defaults to the working directory)")

	root.AddCommand(
		newInitCommand(),
		newStatusCommand(&repoPath),
		newFetchCLICommand(&repoPath),
		newPullCLICommand(&repoPath),
		newPushCLICommand(&repoPath),
		newForcePushCLICommand(&repoPath),
		newDiscardCLICommand(&repoPath),
		newRebaseCLICommand(&repoPath),
		newCheckpointCLICommand(&repoPath),
		newLauncherCLICommand(&repoPath),
		newVersionCommand(),
	)
	return root
}

// pipelineEnv holds the per-invocation wiring of one guarded action. The
// policy is resolved once here and never re-read mid-run.
type pipelineEnv struct {
	runner   *ActionRunner
	present  Presenter
	policy   Policy
	repoPath string
}

// newPipelineEnv checks the hard preconditions that must fail before any
// interactive loop starts: the git binary and the repository itself.
func newPipelineEnv(repoPath string) (*pipelineEnv, error) {
	exec, err := NewGitExecutor()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(repoPath) == "" {
		repoPath, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}
	if _, err := openGitRepo(repoPath); err != nil {
		return nil, errNotInGitRepository
	}

	policy := LoadPolicy()
	present := ui.NewConsole()
	return &pipelineEnv{
		runner:   NewActionRunner(exec, present, policy),
		present:  present,
		policy:   policy,
		repoPath: repoPath,
	}, nil
}

// runGuarded is the single entry point every mutating subcommand shares:
// resolve descriptor, wire the pipeline, run, report.
func runGuarded(repoPath string, id ActionID, invoke func(*pipelineEnv) CommandFunc) error {
	desc, err := lookupAction(id)
	if err != nil {
		return err
	}
	env, err := newPipelineEnv(repoPath)
	if err != nil {
		return err
	}
	result := env.runner.Run(desc, env.repoPath, invoke(env))
	env.runner.Report(desc, result)
	if result.RestartRequired {
		env.present.Message("Shell integration changed; restart your session before running gsafe again.")
	}
	return nil
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive first-run configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p := tea.NewProgram(newInitModel())
			_, err := p.Run()
			return err
		},
	}
}

func newStatusCommand(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the repository snapshot",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGuarded(*repoPath, ActionStatus, func(env *pipelineEnv) CommandFunc {
				return func(GitExecutor, string) CommandResult {
					return CommandResult{Output: renderStatus(snapshotRepoState(env.repoPath))}
				}
			})
		},
	}
}

func newFetchCLICommand(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Update remote-tracking refs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGuarded(*repoPath, ActionFetch, func(*pipelineEnv) CommandFunc {
				return fetchCommand()
			})
		},
	}
}

func newPullCLICommand(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Fetch and fast-forward the current branch",
		Long: "Fetches the upstream, re-reads the branch position and fast-forwards.\n" +
			"A diverged branch fails with a clear message instead of merging.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGuarded(*repoPath, ActionPull, func(env *pipelineEnv) CommandFunc {
				return pullCommand(env.policy)
			})
		},
	}
}

func newPushCLICommand(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Publish local commits to the tracking ref",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGuarded(*repoPath, ActionPush, func(*pipelineEnv) CommandFunc {
				return gitCommand("push")
			})
		},
	}
}

func newForcePushCLICommand(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "force-push",
		Short: "Overwrite the remote branch with local history",
		Long: "Phrase-confirmed. The remote branch is replaced by local history;\n" +
			"commits only the remote has will be lost.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGuarded(*repoPath, ActionForcePush, func(*pipelineEnv) CommandFunc {
				return gitCommand("push", "--force")
			})
		},
	}
}

func newDiscardCLICommand(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Reset the working tree and index to the last commit",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGuarded(*repoPath, ActionDiscard, func(*pipelineEnv) CommandFunc {
				return gitCommand("reset", "--hard", "HEAD")
			})
		},
	}
}

func newRebaseCLICommand(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rebase",
		Short: "Rewrite local commits on top of the upstream tip",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGuarded(*repoPath, ActionRebase, func(*pipelineEnv) CommandFunc {
				return gitCommand("rebase", "@{u}")
			})
		},
	}
}

func newCheckpointCLICommand(repoPath *string) *cobra.Command {
	var name string
	var note string
	var preDanger bool

	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Create an annotated safety tag at the current commit",
		Example: strings.Join([]string{
			"  gsafe checkpoint",
			"  gsafe checkpoint --name known-good/v2-migration --note \"before schema change\"",
			"  gsafe checkpoint --pre-danger",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGuarded(*repoPath, ActionCheckpoint, func(env *pipelineEnv) CommandFunc {
				return func(GitExecutor, string) CommandResult {
					mgr := NewCheckpointManager(env.present, env.policy)
					kind := KindPreDanger
					if !preDanger {
						chosen, ok := mgr.ChooseKind()
						if !ok {
							return CommandResult{ExitCode: exitCodeCancelled}
						}
						kind = chosen
					}
					cp, err := mgr.CreateAt(env.repoPath, name, kind, note)
					if err != nil {
						return CommandResult{Output: err.Error(), ExitCode: 1}
					}
					return CommandResult{Output: fmt.Sprintf("Checkpoint %s created at %s.", cp.Name, cp.TargetCommit)}
				}
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Tag name (defaults to a timestamped name)")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note embedded in the tag annotation")
	cmd.Flags().BoolVar(&preDanger, "pre-danger", false, "Create a pre-danger marker instead of a known-good tag")
	return cmd
}

func newLauncherCLICommand(repoPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launcher",
		Short: "Manage the ~/.local/bin shell launcher",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Link this binary into ~/.local/bin",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return runGuarded(*repoPath, ActionLauncherInstall, func(*pipelineEnv) CommandFunc {
					return installLauncherCommand()
				})
			},
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Remove the ~/.local/bin link",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return runGuarded(*repoPath, ActionLauncherRemove, func(*pipelineEnv) CommandFunc {
					return removeLauncherCommand()
				})
			},
		},
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gsafe version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("gsafe " + currentVersion())
		},
	}
}
