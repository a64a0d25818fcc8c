// Package plan implements the action planner: a deterministic, pure
// mapping from classified path states to corrective actions.
//
// Planning is a global preflight. Every registry entry is evaluated before
// any mutation happens anywhere, so a fatal condition on one entry aborts
// the whole run with the filesystem untouched.
package plan

import (
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Options controls planner behavior
type Options struct {
	// Force lets shared and script paths holding a real system copy be
	// replaced by a link (the repo copy is authoritative for those
	// categories). Identity conflicts are always fatal: there is no rule
	// saying which copy wins.
	Force bool
}

// Actions maps every classified state to an action, in registry order.
// It returns an error on the first fatal condition; actions computed for
// earlier entries are discarded with it.
func Actions(states []types.PathState, opts Options) ([]types.Action, error) {
	logger := logging.GetLogger("plan")
	actions := make([]types.Action, 0, len(states))

	for _, state := range states {
		action, err := planOne(state, opts)
		if err != nil {
			logger.Error().
				Str("path", state.Path.Name).
				Str("state", string(state.Kind)).
				Err(err).
				Msg("planning aborted")
			return nil, err
		}

		logger.Debug().
			Str("path", state.Path.Name).
			Str("state", string(state.Kind)).
			Str("action", string(action.Kind)).
			Msg("planned action")
		actions = append(actions, action)
	}

	return actions, nil
}

func planOne(state types.PathState, opts Options) (types.Action, error) {
	mp := state.Path

	switch state.Kind {
	case types.StateLinkedCorrect:
		return types.Action{Kind: types.ActionNoOp, Path: mp}, nil

	case types.StateLinkedWrong:
		return types.Action{
			Kind:      types.ActionRelinkFix,
			Path:      mp,
			OldTarget: state.CurrentTarget,
		}, nil

	case types.StateConflictBothReal:
		if opts.Force && mp.Category.RequiresRepoCopy() {
			return types.Action{
				Kind: types.ActionBackupRemoveLink,
				Path: mp,
				Note: "replacing real copy, repo is authoritative",
			}, nil
		}
		return types.Action{}, errors.Newf(errors.ErrConflict,
			"real objects at both %s and %s, cannot decide which is authoritative",
			mp.SystemPath, mp.RepoPath).
			WithDetail("path", mp.Name).
			WithDetail("systemPath", mp.SystemPath).
			WithDetail("repoPath", mp.RepoPath)

	case types.StateSystemOnlyReal:
		if mp.Category.RequiresRepoCopy() {
			return types.Action{}, errors.Newf(errors.ErrAuthorityMissing,
				"repo copy %s is missing and category %q cannot adopt the system copy",
				mp.RepoPath, mp.Category).
				WithDetail("path", mp.Name).
				WithDetail("systemPath", mp.SystemPath).
				WithDetail("repoPath", mp.RepoPath)
		}
		return types.Action{Kind: types.ActionMoveThenLink, Path: mp}, nil

	case types.StateRepoOnlyReal:
		return types.Action{Kind: types.ActionCreateLink, Path: mp}, nil

	case types.StateMissingBoth:
		return types.Action{
			Kind: types.ActionNoOp,
			Path: mp,
			Note: "not configured on this machine",
		}, nil
	}

	return types.Action{}, errors.Newf(errors.ErrInternal,
		"unknown state %q for %s", state.Kind, mp.Name)
}

// Mutating filters a plan down to the actions that change the filesystem
func Mutating(actions []types.Action) []types.Action {
	out := make([]types.Action, 0, len(actions))
	for _, a := range actions {
		if a.Mutates() {
			out = append(out, a)
		}
	}
	return out
}
