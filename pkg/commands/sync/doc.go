// Package sync runs a script end to end: it loads the tool settings, builds
// the run context, evaluates the script with env and utils installed, and
// synchronizes any link list the script returned from its top level.
//
// Only invocation and script errors are returned. Per-link and per-call
// failures are reported as they happen and counted in the Result.
package sync
