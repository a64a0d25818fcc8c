// Package verify re-inspects every registry entry after execution and
// reports converged/diverged per path. It never mutates anything and it
// always runs, even when execution halted early, so partial failures stay
// visible.
package verify

import (
	"fmt"

	"github.com/arthur-debert/relink/pkg/inspect"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Check is the verification outcome for one managed path
type Check struct {
	Path types.ManagedPath
	OK   bool

	// Detail holds expected-vs-actual information for failures, or a
	// short note for passing optional entries
	Detail string
}

// Report aggregates all per-path checks
type Report struct {
	Checks []Check
}

// Pass returns true only if every check passed
func (r Report) Pass() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Failures returns the checks that did not pass
func (r Report) Failures() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.OK {
			out = append(out, c)
		}
	}
	return out
}

// Run verifies every registry entry in order
func Run(fsys types.FS, entries []types.ManagedPath) (Report, error) {
	logger := logging.GetLogger("verify")
	report := Report{Checks: make([]Check, 0, len(entries))}

	for _, entry := range entries {
		check, err := verifyOne(fsys, entry)
		if err != nil {
			return Report{}, err
		}

		logger.Debug().
			Str("path", entry.Name).
			Bool("ok", check.OK).
			Str("detail", check.Detail).
			Msg("verified path")
		report.Checks = append(report.Checks, check)
	}

	return report, nil
}

func verifyOne(fsys types.FS, entry types.ManagedPath) (Check, error) {
	system, err := inspect.Path(fsys, entry.SystemPath)
	if err != nil {
		return Check{}, err
	}

	switch {
	case system.IsLink && system.Target == entry.RepoPath:
		return Check{Path: entry, OK: true}, nil

	case system.IsLink:
		return Check{
			Path: entry,
			Detail: fmt.Sprintf("link target is %s, expected %s",
				system.Target, entry.RepoPath),
		}, nil

	case system.Exists:
		return Check{
			Path:   entry,
			Detail: fmt.Sprintf("%s exists but is not a link", entry.SystemPath),
		}, nil
	}

	// system side absent: acceptable only when the repo side is absent too
	repoExists, err := inspect.Exists(fsys, entry.RepoPath)
	if err != nil {
		return Check{}, err
	}
	if !repoExists {
		return Check{Path: entry, OK: true, Detail: "not configured on this machine"}, nil
	}

	return Check{
		Path: entry,
		Detail: fmt.Sprintf("%s is missing, expected link to %s",
			entry.SystemPath, entry.RepoPath),
	}, nil
}
