// Package types defines the core types and interfaces used throughout
// relink. This includes the FS filesystem interface, registry entries
// (ManagedPath), classification results (PathState) and planned actions.
package types
