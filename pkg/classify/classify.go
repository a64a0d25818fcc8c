// Package classify implements the state classifier. It turns raw link
// inspector facts about one managed path into exactly one discrete
// PathState. Classification is pure: it never touches the filesystem and
// is safe to repeat.
package classify

import (
	"github.com/arthur-debert/relink/pkg/inspect"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Classify maps inspector facts to a PathState, first match wins:
//  1. link with correct target
//  2. link with wrong target
//  3. real object on both sides
//  4. real object on the system side only
//  5. repository side only
//  6. neither side exists
func Classify(path types.ManagedPath, system inspect.Facts, repoExists bool) types.PathState {
	state := types.PathState{Path: path}

	switch {
	case system.IsLink && system.Target == path.RepoPath:
		state.Kind = types.StateLinkedCorrect
	case system.IsLink:
		state.Kind = types.StateLinkedWrong
		state.CurrentTarget = system.Target
	case system.Exists && repoExists:
		state.Kind = types.StateConflictBothReal
	case system.Exists:
		state.Kind = types.StateSystemOnlyReal
	case repoExists:
		state.Kind = types.StateRepoOnlyReal
	default:
		state.Kind = types.StateMissingBoth
	}

	return state
}

// State inspects both sides of a managed path and classifies the result
func State(fsys types.FS, path types.ManagedPath) (types.PathState, error) {
	logger := logging.GetLogger("classify")

	system, err := inspect.Path(fsys, path.SystemPath)
	if err != nil {
		return types.PathState{}, err
	}

	repo, err := inspect.Path(fsys, path.RepoPath)
	if err != nil {
		return types.PathState{}, err
	}

	state := Classify(path, system, repo.Exists)
	logger.Debug().
		Str("path", path.Name).
		Str("state", string(state.Kind)).
		Str("currentTarget", state.CurrentTarget).
		Msg("classified path")

	return state, nil
}

// All classifies every registry entry in order
func All(fsys types.FS, entries []types.ManagedPath) ([]types.PathState, error) {
	states := make([]types.PathState, 0, len(entries))
	for _, entry := range entries {
		state, err := State(fsys, entry)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}
