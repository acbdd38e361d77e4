// Package testutil provides utilities for testing envsync components.
//
// Key components:
//   - TestEnvironment: an isolated temp-dir home with HOME and XDG
//     variables pointed into it
//   - Recorder: a report.Reporter that keeps every event
//   - MockRunner: a testify mock for external command runners
//
// Each test should be completely isolated with no shared state.
package testutil
