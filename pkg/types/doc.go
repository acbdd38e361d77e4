// Package types defines the core types and interfaces shared across envsync:
// the LinkSpec declaration produced by the resolver and consumed by the
// synchronizer, and the FS interface the synchronizer mutates through.
package types
