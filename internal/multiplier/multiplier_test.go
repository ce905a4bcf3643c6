package multiplier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agbru/gsmul/internal/digits"
	apperrors "github.com/agbru/gsmul/internal/errors"
)

// fakeCore lets tests drive the decorator directly.
type fakeCore struct {
	result digits.Digits
	err    error
	steps  []float64
	fn     func(ctx context.Context) error
}

func (f *fakeCore) Name() string { return "fake" }

func (f *fakeCore) MultiplyCore(ctx context.Context, reporter ProgressReporter, x, y digits.Digits, opts Options) (digits.Digits, error) {
	for _, s := range f.steps {
		reporter(s)
	}
	if f.fn != nil {
		if err := f.fn(ctx); err != nil {
			return nil, err
		}
	}
	return f.result, f.err
}

func builtinMultipliers() map[string]Multiplier {
	return map[string]Multiplier{
		"schoolbook": NewMultiplier(&SchoolbookMultiplier{}),
		"reference":  NewMultiplier(&ReferenceMultiplier{}),
	}
}

func TestMultipliers_KnownProducts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		x, y digits.Digits
		base int
		want digits.Digits
	}{
		{"1024 x 16", digits.Digits{1, 0, 2, 4}, digits.Digits{1, 6}, 10, digits.Digits{1, 6, 3, 8, 4}},
		{"99 x 99", digits.Digits{9, 9}, digits.Digits{9, 9}, 10, digits.Digits{9, 8, 0, 1}},
		{"one", digits.Digits{1}, digits.Digits{1}, 10, digits.Digits{1}},
		{"base 2", digits.Digits{1, 1, 1}, digits.Digits{1, 1}, 2, digits.Digits{1, 0, 1, 0, 1}},
		{"zero", digits.Digits{0}, digits.Digits{5, 5}, 10, digits.Digits{0}},
		{"default base", digits.Digits{1, 2}, digits.Digits{1, 2}, 0, digits.Digits{1, 4, 4}},
		{"large base", digits.Digits{255, 255}, digits.Digits{2}, 256, digits.Digits{1, 255, 254}},
	}

	ctx := context.Background()
	for name, m := range builtinMultipliers() {
		m := m
		for _, tt := range tests {
			tt := tt
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				t.Parallel()
				got, err := m.Multiply(ctx, nil, 0, tt.x, tt.y, Options{Base: tt.base})
				if err != nil {
					t.Fatalf("Multiply error: %v", err)
				}
				if !got.Equal(tt.want) {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			})
		}
	}
}

func TestMultipliers_InvalidInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, m := range builtinMultipliers() {
		m := m
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := m.Multiply(ctx, nil, 0, digits.Digits{1, 12}, digits.Digits{1}, Options{Base: 10})
			var digitErr *digits.InvalidDigitError
			if !errors.As(err, &digitErr) || digitErr.Operand != "x" {
				t.Errorf("expected InvalidDigitError for x, got %v", err)
			}

			_, err = m.Multiply(ctx, nil, 0, digits.Digits{1}, digits.Digits{}, Options{Base: 10})
			var emptyErr *digits.EmptyInputError
			if !errors.As(err, &emptyErr) || emptyErr.Operand != "y" {
				t.Errorf("expected EmptyInputError for y, got %v", err)
			}

			_, err = m.Multiply(ctx, nil, 0, digits.Digits{1}, digits.Digits{1}, Options{Base: 1})
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("expected invalid input for base 1, got %v", err)
			}
		})
	}
}

func TestMultiplier_ProgressReachesCompletion(t *testing.T) {
	t.Parallel()
	x := make(digits.Digits, 300)
	y := make(digits.Digits, 200)
	for i := range x {
		x[i] = 9
	}
	for i := range y {
		y[i] = 7
	}

	for name, m := range builtinMultipliers() {
		m := m
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ch := make(chan ProgressUpdate, 1000)
			if _, err := m.Multiply(context.Background(), ch, 3, x, y, Options{Base: 10}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			close(ch)

			var last ProgressUpdate
			count, completions := 0, 0
			for u := range ch {
				if u.Value == 1.0 {
					completions++
				}
				if u.MultiplierIndex != 3 {
					t.Errorf("update has index %d, want 3", u.MultiplierIndex)
				}
				if u.Value < last.Value {
					t.Errorf("progress went backwards: %v -> %v", last.Value, u.Value)
				}
				last = u
				count++
			}
			if count == 0 || last.Value != 1.0 {
				t.Errorf("final progress = %v after %d updates, want 1.0", last.Value, count)
			}
			if completions != 1 {
				t.Errorf("got %d completion updates, want 1", completions)
			}
		})
	}
}

func TestMultiplier_Cancellation(t *testing.T) {
	t.Parallel()

	t.Run("canceled before start", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		core := &fakeCore{result: digits.Digits{1}}
		_, err := NewMultiplier(core).Multiply(ctx, nil, 0, digits.Digits{1}, digits.Digits{1}, Options{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("schoolbook stops between passes", func(t *testing.T) {
		t.Parallel()
		x := make(digits.Digits, 2000)
		y := make(digits.Digits, 2000)
		for i := range x {
			x[i], y[i] = 9, 9
		}

		ctx, cancel := context.WithCancel(context.Background())
		subject := NewProgressSubject()
		subject.Register(cancelOnProgress{cancel: cancel})

		m := NewMultiplier(&SchoolbookMultiplier{}).(*DigitMultiplier)
		got, err := m.MultiplyWithObservers(ctx, subject, 0, x, y, Options{Base: 10})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if got != nil {
			t.Errorf("expected no partial product, got %d digits", len(got))
		}
	})

	t.Run("deadline", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()
		core := &fakeCore{fn: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}}
		_, err := NewMultiplier(core).Multiply(ctx, nil, 0, digits.Digits{1}, digits.Digits{1}, Options{})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
		if !apperrors.IsContextError(err) {
			t.Errorf("IsContextError(%v) = false", err)
		}
	})
}

// cancelOnProgress cancels the run as soon as the first progress arrives.
type cancelOnProgress struct {
	cancel context.CancelFunc
}

func (c cancelOnProgress) Update(int, float64) { c.cancel() }

func TestDigitMultiplier_Decorator(t *testing.T) {
	t.Parallel()

	t.Run("nil core panics", func(t *testing.T) {
		t.Parallel()
		defer func() {
			if recover() == nil {
				t.Error("expected panic for nil core")
			}
		}()
		NewMultiplier(nil)
	})

	t.Run("name delegates", func(t *testing.T) {
		t.Parallel()
		if got := NewMultiplier(&fakeCore{}).Name(); got != "fake" {
			t.Errorf("Name() = %q", got)
		}
	})

	t.Run("no completion on error", func(t *testing.T) {
		t.Parallel()
		rec := newRecordingObserver()
		subject := NewProgressSubject()
		subject.Register(rec)
		core := &fakeCore{steps: []float64{0.5}, err: errors.New("boom")}
		m := NewMultiplier(core).(*DigitMultiplier)
		if _, err := m.MultiplyWithObservers(context.Background(), subject, 1, digits.Digits{1}, digits.Digits{1}, Options{}); err == nil {
			t.Fatal("expected error")
		}
		for _, u := range rec.snapshot() {
			if u.Value >= 1.0 {
				t.Errorf("completion reported for a failed run: %+v", u)
			}
		}
	})

	t.Run("single completion", func(t *testing.T) {
		t.Parallel()
		rec := newRecordingObserver()
		core := &fakeCore{steps: []float64{0.5, 1.0}, result: digits.Digits{6}}
		m := NewMultiplier(core).(*DigitMultiplier)
		if _, err := m.MultiplyWithObservers(context.Background(), NewProgressSubject(rec), 0, digits.Digits{2}, digits.Digits{3}, Options{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		updates := rec.snapshot()
		if len(updates) != 2 || updates[1].Value != 1.0 {
			t.Errorf("updates = %+v, want 0.5 then a single 1.0", updates)
		}
	})

	t.Run("nil subject", func(t *testing.T) {
		t.Parallel()
		core := &fakeCore{steps: []float64{0.3}, result: digits.Digits{4}}
		m := NewMultiplier(core).(*DigitMultiplier)
		got, err := m.MultiplyWithObservers(context.Background(), nil, 0, digits.Digits{2}, digits.Digits{2}, Options{})
		if err != nil || !got.Equal(digits.Digits{4}) {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("default base", func(t *testing.T) {
		t.Parallel()
		var seen int
		core := &fakeCore{fn: func(context.Context) error { return nil }}
		wrapped := &baseRecorder{fakeCore: core, seen: &seen}
		if _, err := NewMultiplier(wrapped).Multiply(context.Background(), nil, 0, digits.Digits{1}, digits.Digits{1}, Options{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != digits.DefaultBase {
			t.Errorf("core saw base %d, want %d", seen, digits.DefaultBase)
		}
	})
}

// baseRecorder records the base the core was called with.
type baseRecorder struct {
	*fakeCore
	seen *int
}

func (b *baseRecorder) MultiplyCore(ctx context.Context, reporter ProgressReporter, x, y digits.Digits, opts Options) (digits.Digits, error) {
	*b.seen = opts.Base
	return b.fakeCore.MultiplyCore(ctx, reporter, x, y, opts)
}

func TestMockMultiplier(t *testing.T) {
	t.Parallel()

	m := &MockMultiplier{Result: digits.Digits{4, 2}}
	if m.Name() != "mock" {
		t.Errorf("Name() = %q", m.Name())
	}
	ch := make(chan ProgressUpdate, 1)
	got, err := m.Multiply(context.Background(), ch, 5, nil, nil, Options{})
	if err != nil || !got.Equal(digits.Digits{4, 2}) {
		t.Errorf("got %v, %v", got, err)
	}
	if u := <-ch; u.MultiplierIndex != 5 || u.Value != 1.0 {
		t.Errorf("unexpected update %+v", u)
	}

	named := &MockMultiplier{DisplayName: "other", Fn: func(ctx context.Context, x, y digits.Digits, opts Options) (digits.Digits, error) {
		return digits.Digits{opts.Base}, nil
	}}
	if named.Name() != "other" {
		t.Errorf("Name() = %q", named.Name())
	}
	got, _ = named.Multiply(context.Background(), nil, 0, nil, nil, Options{Base: 7})
	if !got.Equal(digits.Digits{7}) {
		t.Errorf("Fn not used: %v", got)
	}
}

func BenchmarkMultipliers(b *testing.B) {
	x := make(digits.Digits, 500)
	y := make(digits.Digits, 500)
	for i := range x {
		x[i] = (i*13 + 7) % 10
		y[i] = (i*17 + 3) % 10
	}
	ctx := context.Background()
	for name, m := range builtinMultipliers() {
		m := m
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := m.Multiply(ctx, nil, 0, x, y, Options{Base: 10}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
