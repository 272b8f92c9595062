package pypage

import "github.com/itsatony/go-pypage/internal"

// Environment is the variable mapping shared by every block of a template run.
// It is safe to reuse across runs but must not be shared by concurrent runs.
type Environment = internal.Environment

// NewEnvironment creates an environment seeded with a copy of data.
func NewEnvironment(data map[string]any) *Environment {
	return internal.NewEnvironment(data)
}
