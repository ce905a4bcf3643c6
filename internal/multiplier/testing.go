package multiplier

import (
	"context"
	"sort"

	"github.com/agbru/gsmul/internal/digits"
)

// MockMultiplier is a Multiplier with canned behavior, exported for tests in
// other packages.
type MockMultiplier struct {
	Result digits.Digits
	Err    error
	Fn     func(ctx context.Context, x, y digits.Digits, opts Options) (digits.Digits, error)
	// DisplayName overrides the name returned by Name. Defaults to "mock".
	DisplayName string
}

// Name returns DisplayName or "mock".
func (m *MockMultiplier) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return "mock"
}

// Multiply calls Fn when set; otherwise it reports completion and returns
// Result and Err.
func (m *MockMultiplier) Multiply(ctx context.Context, progressChan chan<- ProgressUpdate, index int, x, y digits.Digits, opts Options) (digits.Digits, error) {
	if m.Fn != nil {
		return m.Fn(ctx, x, y, opts)
	}
	if progressChan != nil {
		progressChan <- ProgressUpdate{MultiplierIndex: index, Value: 1.0}
	}
	return m.Result, m.Err
}

// TestFactory is a Factory over a fixed set of multipliers.
type TestFactory struct {
	multipliers map[string]Multiplier
}

// NewTestFactory creates a factory serving the given multipliers.
func NewTestFactory(multipliers map[string]Multiplier) *TestFactory {
	if multipliers == nil {
		multipliers = make(map[string]Multiplier)
	}
	return &TestFactory{multipliers: multipliers}
}

// Create returns the multiplier by name.
func (f *TestFactory) Create(name string) (Multiplier, error) {
	return f.Get(name)
}

// Get returns the multiplier by name.
func (f *TestFactory) Get(name string) (Multiplier, error) {
	m, ok := f.multipliers[name]
	if !ok {
		return nil, &UnknownMultiplierError{Name: name}
	}
	return m, nil
}

// List returns the names, sorted.
func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.multipliers))
	for name := range f.multipliers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register is a no-op; multipliers are fixed at construction.
func (f *TestFactory) Register(name string, creator func() coreMultiplier) error {
	return nil
}

// GetAll returns a copy of all multipliers.
func (f *TestFactory) GetAll() map[string]Multiplier {
	result := make(map[string]Multiplier, len(f.multipliers))
	for k, v := range f.multipliers {
		result[k] = v
	}
	return result
}
