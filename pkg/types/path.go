package types

// PathKind describes what kind of filesystem object a managed path is.
// Directories may need a different link mechanism on some platforms.
type PathKind string

const (
	KindFile      PathKind = "file"
	KindDirectory PathKind = "directory"
)

// Valid returns true if the kind is one of the known values
func (k PathKind) Valid() bool {
	return k == KindFile || k == KindDirectory
}

// Category classifies a managed path by how the planner treats a missing
// repository copy.
type Category string

const (
	// CategoryIdentity covers per-machine identity configuration. The
	// repository copy may be created by adopting the system copy.
	CategoryIdentity Category = "identity"

	// CategoryShared covers configuration shared across machines. The
	// repository copy must already exist.
	CategoryShared Category = "shared"

	// CategoryScript covers executable scripts. Like shared configuration,
	// the repository copy must already exist.
	CategoryScript Category = "script"
)

// Valid returns true if the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryIdentity, CategoryShared, CategoryScript:
		return true
	}
	return false
}

// RequiresRepoCopy reports whether the planner must treat a missing
// repository copy as fatal. Identity paths can be adopted from the system
// side; shared and script paths have nothing to adopt from.
func (c Category) RequiresRepoCopy() bool {
	return c != CategoryIdentity
}

// ManagedPath is one (system location, repository location) pair the engine
// keeps synchronized. Entries come from the registry and are never created
// or destroyed at runtime.
type ManagedPath struct {
	// Name is a short registry identifier used in logs and status lines
	Name string

	// SystemPath is the absolute path consumers expect to find
	SystemPath string

	// RepoPath is the absolute path to the canonical copy (source of truth)
	RepoPath string

	Kind     PathKind
	Category Category
}
