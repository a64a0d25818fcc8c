// Package filesystem provides filesystem implementations for relink.
//
// This package contains implementations of the types.FS interface; the
// engine itself only ever talks to the interface so tests can substitute
// their own.
package filesystem
