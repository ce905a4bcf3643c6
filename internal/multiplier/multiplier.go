// Package multiplier runs digit-sequence multiplications behind a common
// interface. Several algorithms (the long-multiplication engine, a math/big
// reference and an optional GMP backend) can be selected by name through a
// factory, and every call is wrapped with progress reporting, metrics,
// tracing and logging.
package multiplier

import (
	"context"
	"time"

	"github.com/agbru/gsmul/internal/digits"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	multiplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsmul_multiplications_total",
			Help: "The total number of multiplications processed",
		},
		[]string{"algorithm", "status"},
	)
	multiplicationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gsmul_multiplication_duration_seconds",
			Help: "The duration of multiplications in seconds",
		},
		[]string{"algorithm"},
	)
)

// Multiplier is the public interface of a multiplication algorithm. It is the
// abstraction the orchestration, service and CLI layers work with.
type Multiplier interface {
	// Multiply returns x*y in opts.Base. It is safe for concurrent use and
	// honors cancellation of ctx. Progress updates, if any, are sent to
	// progressChan without blocking.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - progressChan: The channel for progress updates. May be nil.
	//   - index: Identifies this run in progress updates.
	//   - x, y: The operands, most-significant digit first.
	//   - opts: Options for the run (the base).
	//
	// Returns:
	//   - digits.Digits: The product without leading zeros.
	//   - error: A validation error matching apperrors.ErrInvalidInput, or the
	//     context error if the run was canceled.
	Multiply(ctx context.Context, progressChan chan<- ProgressUpdate, index int, x, y digits.Digits, opts Options) (digits.Digits, error)

	// Name returns the display name of the algorithm.
	Name() string
}

// coreMultiplier is the pure algorithm wrapped by the decorator.
type coreMultiplier interface {
	MultiplyCore(ctx context.Context, reporter ProgressReporter, x, y digits.Digits, opts Options) (digits.Digits, error)
	Name() string
}

// DigitMultiplier implements Multiplier by decorating a coreMultiplier with
// context checks, observer-based progress, Prometheus metrics, an
// OpenTelemetry span and a debug log record. Metrics, spans and log records
// are labelled with key, the name the algorithm is registered under.
type DigitMultiplier struct {
	core coreMultiplier
	key  string
}

// NewMultiplier wraps core, labelling its telemetry with core.Name(). It
// panics if core is nil.
func NewMultiplier(core coreMultiplier) Multiplier {
	if core == nil {
		panic("multiplier: the `coreMultiplier` implementation cannot be nil")
	}
	return newKeyedMultiplier(core.Name(), core)
}

// newKeyedMultiplier wraps core, labelling its telemetry with key.
func newKeyedMultiplier(key string, core coreMultiplier) *DigitMultiplier {
	if core == nil {
		panic("multiplier: the `coreMultiplier` implementation cannot be nil")
	}
	return &DigitMultiplier{core: core, key: key}
}

// Key returns the label used for metrics and logs.
func (m *DigitMultiplier) Key() string {
	return m.key
}

// Name delegates to the wrapped algorithm.
func (m *DigitMultiplier) Name() string {
	return m.core.Name()
}

// Multiply reports progress to progressChan, to the progress gauge and to
// the debug log, then calls MultiplyWithObservers.
func (m *DigitMultiplier) Multiply(ctx context.Context, progressChan chan<- ProgressUpdate, index int, x, y digits.Digits, opts Options) (digits.Digits, error) {
	subject := NewProgressSubject(
		NewMetricsObserver(m.key),
		NewLoggingObserver(log.Logger, m.key, 0.25),
	)
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return m.MultiplyWithObservers(ctx, subject, index, x, y, opts)
}

// MultiplyWithObservers runs the multiplication and notifies every observer
// registered on subject. A nil subject discards progress. Progress reaches
// 1.0 exactly once, and only when a product is returned.
func (m *DigitMultiplier) MultiplyWithObservers(ctx context.Context, subject *ProgressSubject, index int, x, y digits.Digits, opts Options) (result digits.Digits, err error) {
	opts = normalizeOptions(opts)

	ctx, span := otel.Tracer("multiplier").Start(ctx, "Multiply")
	span.SetAttributes(
		attribute.String("algorithm", m.key),
		attribute.Int("base", opts.Base),
		attribute.Int("x.len", len(x)),
		attribute.Int("y.len", len(y)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
		}
		multiplicationsTotal.WithLabelValues(m.key, status).Inc()
		multiplicationDuration.WithLabelValues(m.key).Observe(duration)

		log.Debug().
			Str("algo", m.key).
			Int("base", opts.Base).
			Int("x_len", len(x)).
			Int("y_len", len(y)).
			Int("product_len", len(result)).
			Float64("duration", duration).
			Str("status", status).
			Msg("multiplication completed")
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notify := func(float64) {}
	if subject != nil {
		notify = subject.AsProgressReporter(index)
	}
	completed := false
	reporter := func(progress float64) {
		if completed {
			return
		}
		completed = progress >= 1
		notify(progress)
	}

	result, err = m.core.MultiplyCore(ctx, reporter, x, y, opts)
	if err != nil {
		return nil, err
	}
	reporter(1.0)
	return result, nil
}
