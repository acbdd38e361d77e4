// Package filesystem provides filesystem implementations for envsync.
//
// This package contains the OS-backed implementation of the types.FS
// interface used by the synchronizer.
package filesystem
