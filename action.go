package main

import "fmt"

// RiskTier is the static classification of a guarded action. It is derived
// from the descriptor alone; nothing at runtime changes an action's tier.
type RiskTier int

const (
	RiskSafe RiskTier = iota
	RiskGuarded
	RiskDestructive
)

func (t RiskTier) String() string {
	switch t {
	case RiskSafe:
		return "safe"
	case RiskGuarded:
		return "guarded"
	case RiskDestructive:
		return "destructive"
	default:
		return fmt.Sprintf("risk(%d)", int(t))
	}
}

// ActionID is the closed set of operations the pipeline mediates.
type ActionID string

const (
	ActionStatus          ActionID = "status"
	ActionFetch           ActionID = "fetch"
	ActionPull            ActionID = "pull"
	ActionPush            ActionID = "push"
	ActionForcePush       ActionID = "force-push"
	ActionDiscard         ActionID = "discard"
	ActionRebase          ActionID = "rebase"
	ActionCheckpoint      ActionID = "checkpoint"
	ActionLauncherInstall ActionID = "launcher-install"
	ActionLauncherRemove  ActionID = "launcher-remove"
)

// ActionDescriptor is static per-action configuration. Descriptors are
// process-wide constants; the runner never mutates them.
type ActionDescriptor struct {
	ID    ActionID
	Label string

	RiskTier            RiskTier
	RequiresBranch      bool
	RequiresUpstream    bool
	RequiresCleanTree   bool
	RequiresTypedPhrase bool
	OffersCheckpoint    bool

	// AltersShellIntegration marks actions that change how the host shell
	// reaches this binary; a successful run sets RestartRequired.
	AltersShellIntegration bool

	// Description is the one-paragraph explanation shown in the
	// destructive preflight.
	Description string
}

var actionTable = map[ActionID]ActionDescriptor{
	ActionStatus: {
		ID:          ActionStatus,
		Label:       "Show repository status",
		RiskTier:    RiskSafe,
		Description: "Read-only inspection of the repository snapshot.",
	},
	ActionFetch: {
		ID:          ActionFetch,
		Label:       "Fetch from upstream",
		RiskTier:    RiskSafe,
		Description: "Updates remote-tracking refs only; the working tree is untouched.",
	},
	ActionPull: {
		ID:                ActionPull,
		Label:             "Pull (fast-forward only)",
		RiskTier:          RiskGuarded,
		RequiresBranch:    true,
		RequiresUpstream:  true,
		RequiresCleanTree: true,
		Description:       "Fetches and fast-forwards the current branch to its upstream.",
	},
	ActionPush: {
		ID:             ActionPush,
		Label:          "Push to upstream",
		RiskTier:       RiskGuarded,
		RequiresBranch: true,
		Description:    "Publishes local commits to the tracking ref.",
	},
	ActionForcePush: {
		ID:                  ActionForcePush,
		Label:               "Force-push to upstream",
		RiskTier:            RiskDestructive,
		RequiresBranch:      true,
		RequiresUpstream:    true,
		RequiresTypedPhrase: true,
		OffersCheckpoint:    true,
		Description:         "Overwrites the remote branch with local history. Commits the remote has that you do not will be lost.",
	},
	ActionDiscard: {
		ID:               ActionDiscard,
		Label:            "Discard local changes",
		RiskTier:         RiskDestructive,
		OffersCheckpoint: true,
		Description:      "Resets the working tree and index to the last commit. Uncommitted work is destroyed.",
	},
	ActionRebase: {
		ID:                  ActionRebase,
		Label:               "Rebase onto upstream",
		RiskTier:            RiskDestructive,
		RequiresBranch:      true,
		RequiresUpstream:    true,
		RequiresCleanTree:   true,
		RequiresTypedPhrase: true,
		OffersCheckpoint:    true,
		Description:         "Rewrites local commits on top of the upstream tip. Already-pushed history will diverge.",
	},
	ActionCheckpoint: {
		ID:          ActionCheckpoint,
		Label:       "Create known-good checkpoint",
		RiskTier:    RiskGuarded,
		Description: "Creates an annotated safety tag at the current commit.",
	},
	ActionLauncherInstall: {
		ID:                     ActionLauncherInstall,
		Label:                  "Install shell launcher",
		RiskTier:               RiskGuarded,
		AltersShellIntegration: true,
		Description:            "Links this binary into ~/.local/bin.",
	},
	ActionLauncherRemove: {
		ID:                     ActionLauncherRemove,
		Label:                  "Remove shell launcher",
		RiskTier:               RiskGuarded,
		AltersShellIntegration: true,
		Description:            "Removes the ~/.local/bin link.",
	},
}

// lookupAction resolves a descriptor from the closed action set.
func lookupAction(id ActionID) (ActionDescriptor, error) {
	desc, ok := actionTable[id]
	if !ok {
		return ActionDescriptor{}, fmt.Errorf("unknown action: %s", id)
	}
	return desc, nil
}

// classify returns the action's static risk tier. The tier is read straight
// off the descriptor; scale-based heuristics belong to individual handlers,
// never here.
func classify(desc ActionDescriptor) RiskTier {
	return desc.RiskTier
}
