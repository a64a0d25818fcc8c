// Package reconcile orchestrates one full reconciliation run:
// classify -> plan -> backup -> execute -> verify.
//
// The run is single-threaded and sequential. All entries are classified
// and planned before anything mutates, so a fatal condition anywhere
// leaves the filesystem untouched. Actions execute in registry order and
// verification always runs, even after an execution failure.
package reconcile

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arthur-debert/relink/pkg/backup"
	"github.com/arthur-debert/relink/pkg/classify"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/execute"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/plan"
	"github.com/arthur-debert/relink/pkg/platform"
	"github.com/arthur-debert/relink/pkg/registry"
	"github.com/arthur-debert/relink/pkg/style"
	"github.com/arthur-debert/relink/pkg/types"
	"github.com/arthur-debert/relink/pkg/verify"
)

// Options configures one reconciliation run
type Options struct {
	Registry *registry.Registry

	// FS defaults to the OS filesystem
	FS types.FS

	// DryRun plans and reports without mutating anything
	DryRun bool

	// Force lets shared/script conflicts be resolved in the repo's favor
	Force bool

	// BackupsRoot is the directory under which the per-run backup
	// directory is created
	BackupsRoot string

	// Now stamps the backup directory; zero means time.Now()
	Now time.Time

	// Out receives status lines; defaults to os.Stdout
	Out io.Writer
}

// Result captures everything one run did
type Result struct {
	States   []types.PathState
	Actions  []types.Action
	Executed []types.ActionResult

	// BackupDir is the run's backup directory, empty when no backup was
	// taken
	BackupDir string

	// Verification is only meaningful when Verified is true (the run got
	// past planning)
	Verification verify.Report
	Verified     bool
}

// Mutations counts the actions that changed (or would change) the
// filesystem
func (r *Result) Mutations() int {
	return len(plan.Mutating(r.Actions))
}

// Run performs one reconciliation pass. The returned Result is non-nil
// whenever planning succeeded, including alongside execution or
// verification errors.
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("reconcile")
	done := logging.LogOperationStart(logger, "reconcile")
	defer done()

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	if err := opts.Registry.CheckRepoRoot(fsys); err != nil {
		return nil, err
	}

	// Global preflight: classify and plan everything before any mutation
	states, err := classify.All(fsys, opts.Registry.Entries)
	if err != nil {
		return nil, err
	}

	actions, err := plan.Actions(states, plan.Options{Force: opts.Force})
	if err != nil {
		return nil, err
	}

	result := &Result{States: states, Actions: actions}
	for _, action := range actions {
		printAnalysis(out, action)
	}

	mutating := plan.Mutating(actions)
	if len(mutating) == 0 {
		// Idempotence fast path: nothing to change, nothing to back up
		fmt.Fprintln(out, style.RenderSummary(true, 0, ""))
		logger.Info().Msg("already converged")
		return result, nil
	}

	if opts.DryRun {
		fmt.Fprintf(out, "Dry run: %d action(s) planned, nothing executed\n", len(mutating))
		return result, nil
	}

	backups := backup.NewManager(fsys, opts.BackupsRoot, now)
	linker := platform.NewLinker(fsys, platform.Detect())
	executor := execute.New(fsys, backups, linker)

	executed, execErr := executor.Apply(actions)
	result.Executed = executed
	result.BackupDir = backups.RunDir()

	// Verification always runs so partial failures stay visible
	report, verifyErr := verify.Run(fsys, opts.Registry.Entries)
	if verifyErr == nil {
		result.Verification = report
		result.Verified = true
		for _, check := range report.Checks {
			printVerification(out, check)
		}
	}

	ok := execErr == nil && verifyErr == nil && report.Pass()
	fmt.Fprintln(out, style.RenderSummary(ok, len(executed), result.BackupDir))

	switch {
	case execErr != nil:
		return result, execErr
	case verifyErr != nil:
		return result, verifyErr
	case !report.Pass():
		return result, errors.Newf(errors.ErrVerifyFailed,
			"%d path(s) failed verification", len(report.Failures()))
	}

	return result, nil
}

func printAnalysis(out io.Writer, action types.Action) {
	switch {
	case action.Kind == types.ActionNoOp && action.Note != "":
		fmt.Fprintln(out, style.RenderPathLine(style.StatusInfo, action.Path.Name, action.Note))
	case action.Kind == types.ActionNoOp:
		fmt.Fprintln(out, style.RenderPathLine(style.StatusOK, action.Path.Name,
			"linked to "+action.Path.RepoPath))
	default:
		fmt.Fprintln(out, style.RenderPathLine(style.StatusAction, action.Path.Name,
			describe(action)))
	}
}

func printVerification(out io.Writer, check verify.Check) {
	if check.OK {
		fmt.Fprintln(out, style.RenderPathLine(style.StatusOK, check.Path.Name, check.Detail))
		return
	}
	fmt.Fprintln(out, style.RenderPathLine(style.StatusError, check.Path.Name, check.Detail))
}

func describe(action types.Action) string {
	mp := action.Path
	switch action.Kind {
	case types.ActionMoveThenLink:
		return fmt.Sprintf("adopt %s into %s and link", mp.SystemPath, mp.RepoPath)
	case types.ActionCreateLink:
		return fmt.Sprintf("link %s -> %s", mp.SystemPath, mp.RepoPath)
	case types.ActionRelinkFix:
		return fmt.Sprintf("relink %s -> %s (was %s)", mp.SystemPath, mp.RepoPath, action.OldTarget)
	case types.ActionBackupRemoveLink:
		return fmt.Sprintf("replace %s with link to %s", mp.SystemPath, mp.RepoPath)
	}
	return string(action.Kind)
}
