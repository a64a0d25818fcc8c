package types

// StateKind is the discrete classification of one managed path at one
// instant. Exactly one kind applies per classification pass.
type StateKind string

const (
	// StateLinkedCorrect means the system path is a link resolving to the
	// repository path exactly
	StateLinkedCorrect StateKind = "linked-correct"

	// StateLinkedWrong means the system path is a link resolving somewhere
	// else
	StateLinkedWrong StateKind = "linked-wrong"

	// StateConflictBothReal means both sides hold a real (non-link) object
	StateConflictBothReal StateKind = "conflict-both-real"

	// StateSystemOnlyReal means only the system side holds a real object
	StateSystemOnlyReal StateKind = "system-only"

	// StateRepoOnlyReal means only the repository side holds an object
	StateRepoOnlyReal StateKind = "repo-only"

	// StateMissingBoth means neither side exists
	StateMissingBoth StateKind = "missing-both"
)

// PathState is the classification result for one managed path. It carries
// everything planning needs so no re-query happens between planning and
// execution.
type PathState struct {
	Path ManagedPath
	Kind StateKind

	// CurrentTarget is the link's resolved target when Kind is
	// StateLinkedWrong, empty otherwise
	CurrentTarget string
}
