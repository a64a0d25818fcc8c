package types

// BackupRecord maps one original path to its backup copy for one run.
// Records are append-only and persist as filesystem artifacts; the engine
// never deletes them.
type BackupRecord struct {
	// Original is the path that was about to be mutated
	Original string `toml:"original"`

	// Copy is where the pre-mutation object was copied, empty for
	// link-target records that have no file content
	Copy string `toml:"copy,omitempty"`

	// OldTarget is the previous link target, when the original was a link
	OldTarget string `toml:"old_target,omitempty"`
}
