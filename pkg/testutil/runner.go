package testutil

import (
	"github.com/stretchr/testify/mock"
)

// MockRunner mocks an external command runner with
// Run(name string, args ...string) error.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(name string, args ...string) error {
	callArgs := []interface{}{name}
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	return m.Called(callArgs...).Error(0)
}
