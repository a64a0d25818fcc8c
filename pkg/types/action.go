package types

// ActionKind identifies the corrective action planned for one managed path.
type ActionKind string

const (
	// ActionNoOp means the path is already converged (or legitimately
	// absent on both sides)
	ActionNoOp ActionKind = "noop"

	// ActionMoveThenLink adopts the system copy into the repository, then
	// links the system path to it
	ActionMoveThenLink ActionKind = "move-then-link"

	// ActionCreateLink creates the link directly; nothing pre-exists on the
	// system side
	ActionCreateLink ActionKind = "create-link"

	// ActionRelinkFix replaces a link pointing at the wrong target
	ActionRelinkFix ActionKind = "relink-fix"

	// ActionBackupRemoveLink backs up a real system copy, removes it and
	// links to the repository copy
	ActionBackupRemoveLink ActionKind = "backup-remove-link"
)

// Action is one planned step against the real filesystem. It carries the
// managed path and the state facts needed to execute without re-querying,
// avoiding races between planning and execution.
type Action struct {
	Kind ActionKind
	Path ManagedPath

	// OldTarget is the wrong link target being replaced (ActionRelinkFix)
	OldTarget string

	// Note is an informational detail for status output
	Note string
}

// Mutates reports whether applying this action changes the filesystem
func (a Action) Mutates() bool {
	return a.Kind != ActionNoOp
}

// NeedsBackup reports whether an existing object is modified or removed,
// which requires a backup before execution
func (a Action) NeedsBackup() bool {
	return a.Kind == ActionMoveThenLink || a.Kind == ActionBackupRemoveLink
}

// ActionResult records the outcome of executing one action
type ActionResult struct {
	Action Action
	Err    error
}

// Success returns true if the action completed without error
func (r ActionResult) Success() bool {
	return r.Err == nil
}
