// Package paths provides centralized path handling for envsync.
//
// It owns canonicalization (absolute, symlink-free paths, used both to
// validate existence and to obtain stable symlink targets), home directory
// expansion, and the XDG locations of envsync's own files.
package paths
