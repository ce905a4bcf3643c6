package multiplier

import (
	"sort"
	"sync"
)

// Factory creates and looks up Multiplier instances by name.
type Factory interface {
	// Create returns a fresh, uncached Multiplier.
	Create(name string) (Multiplier, error)

	// Get returns the cached Multiplier for name, creating it on first use.
	Get(name string) (Multiplier, error)

	// List returns the registered names in alphabetical order.
	List() []string

	// Register adds or replaces an algorithm.
	Register(name string, creator func() coreMultiplier) error

	// GetAll returns every registered Multiplier keyed by name.
	GetAll() map[string]Multiplier
}

// UnknownMultiplierError is returned when no algorithm is registered under
// Name.
type UnknownMultiplierError struct {
	Name string
}

func (e *UnknownMultiplierError) Error() string {
	return "unknown multiplier: " + e.Name
}

// DefaultFactory is a thread-safe registry of algorithm creators that caches
// one Multiplier per name.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreMultiplier
	multipliers map[string]Multiplier
}

// NewDefaultFactory returns a factory with the built-in algorithms
// registered:
//   - "schoolbook": SchoolbookMultiplier (O(m·n) long multiplication)
//   - "reference": ReferenceMultiplier (math/big)
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreMultiplier),
		multipliers: make(map[string]Multiplier),
	}

	_ = f.Register("schoolbook", func() coreMultiplier { return &SchoolbookMultiplier{} })
	_ = f.Register("reference", func() coreMultiplier { return &ReferenceMultiplier{} })

	return f
}

// Register adds an algorithm under name. An existing entry is replaced and
// its cached instance dropped.
func (f *DefaultFactory) Register(name string, creator func() coreMultiplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	delete(f.multipliers, name)
	return nil
}

// Create always builds a new instance, bypassing the cache.
func (f *DefaultFactory) Create(name string) (Multiplier, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()

	if !ok {
		return nil, &UnknownMultiplierError{Name: name}
	}
	return newKeyedMultiplier(name, creator()), nil
}

// Get returns the cached instance for name, creating it if needed.
//
// Parameters:
//   - name: The registered name of the algorithm.
//
// Returns:
//   - Multiplier: The shared instance.
//   - error: An *UnknownMultiplierError if name is not registered.
func (f *DefaultFactory) Get(name string) (Multiplier, error) {
	f.mu.RLock()
	if m, exists := f.multipliers[name]; exists {
		f.mu.RUnlock()
		return m, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Another goroutine may have created it while we waited for the lock.
	if m, exists := f.multipliers[name]; exists {
		return m, nil
	}

	creator, ok := f.creators[name]
	if !ok {
		return nil, &UnknownMultiplierError{Name: name}
	}

	m := newKeyedMultiplier(name, creator())
	f.multipliers[name] = m
	return m, nil
}

// List returns the registered names, sorted.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll initializes every registered algorithm and returns a copy of the
// cache.
func (f *DefaultFactory) GetAll() map[string]Multiplier {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name, creator := range f.creators {
		if _, exists := f.multipliers[name]; !exists {
			f.multipliers[name] = newKeyedMultiplier(name, creator())
		}
	}

	result := make(map[string]Multiplier, len(f.multipliers))
	for name, m := range f.multipliers {
		result[name] = m
	}
	return result
}

// MustGet is like Get but panics if name is not registered.
func (f *DefaultFactory) MustGet(name string) Multiplier {
	m, err := f.Get(name)
	if err != nil {
		panic("multiplier: required multiplier not found: " + name)
	}
	return m
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterMultiplier registers an algorithm in the global factory.
func RegisterMultiplier(name string, creator func() coreMultiplier) error {
	return globalFactory.Register(name, creator)
}
