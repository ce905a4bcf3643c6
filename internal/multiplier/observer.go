package multiplier

import (
	"slices"
	"sync"
)

// ProgressObserver is notified as a multiplication advances. index tells
// concurrent runs apart and progress goes from 0.0 to 1.0.
type ProgressObserver interface {
	Update(index int, progress float64)
}

// ProgressSubject fans progress out to a set of observers. Observers are
// called synchronously, in registration order, outside the subject's lock,
// so an observer may register or unregister others.
type ProgressSubject struct {
	mu        sync.Mutex
	observers []ProgressObserver
}

func NewProgressSubject(observers ...ProgressObserver) *ProgressSubject {
	s := &ProgressSubject{}
	for _, o := range observers {
		s.Register(o)
	}
	return s
}

// Register ignores nil observers.
func (s *ProgressSubject) Register(o ProgressObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(slices.Clip(s.observers), o)
	s.mu.Unlock()
}

// Unregister removes the first registration of o, if any.
func (s *ProgressSubject) Unregister(o ProgressObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.observers, o); i >= 0 {
		s.observers = slices.Delete(slices.Clone(s.observers), i, i+1)
	}
}

func (s *ProgressSubject) snapshot() []ProgressObserver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observers
}

func (s *ProgressSubject) Notify(index int, progress float64) {
	for _, o := range s.snapshot() {
		o.Update(index, progress)
	}
}

func (s *ProgressSubject) ObserverCount() int {
	return len(s.snapshot())
}

// AsProgressReporter binds the subject to one run index.
func (s *ProgressSubject) AsProgressReporter(index int) ProgressReporter {
	return func(progress float64) { s.Notify(index, progress) }
}
