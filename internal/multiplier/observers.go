package multiplier

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ChannelObserver feeds the terminal progress display.
type ChannelObserver struct {
	ch chan<- ProgressUpdate
}

// NewChannelObserver returns an observer writing to ch. Updates are
// discarded when ch is nil.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// Update never blocks: an update that does not fit in the channel buffer is
// dropped and superseded by the next one.
func (o *ChannelObserver) Update(index int, progress float64) {
	if o.ch == nil {
		return
	}
	select {
	case o.ch <- ProgressUpdate{MultiplierIndex: index, Value: min(progress, 1)}:
	default:
	}
}

// LoggingObserver writes debug records as a run advances. A record is
// written for the first progress seen, whenever progress moved by at least
// step since the last record, and once on completion.
type LoggingObserver struct {
	logger zerolog.Logger
	algo   string
	step   float64

	mu     sync.Mutex
	logged map[int]float64
}

// NewLoggingObserver uses a step of 0.1 when step is not positive.
func NewLoggingObserver(logger zerolog.Logger, algo string, step float64) *LoggingObserver {
	if step <= 0 {
		step = 0.1
	}
	return &LoggingObserver{logger: logger, algo: algo, step: step, logged: map[int]float64{}}
}

func (o *LoggingObserver) Update(index int, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	last, seen := o.logged[index]
	if seen && (last >= 1 || progress < 1 && progress-last < o.step) {
		return
	}
	o.logged[index] = progress
	o.logger.Debug().
		Str("algo", o.algo).
		Int("run", index).
		Float64("progress", progress).
		Msgf("multiplication %.1f%% done", progress*100)
}

var progressGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "gsmul_multiplication_progress",
	Help: "Progress of the latest multiplication per algorithm, from 0 to 1.",
}, []string{"algorithm"})

// MetricsObserver exports the progress of one algorithm as a gauge.
type MetricsObserver struct {
	gauge prometheus.Gauge
}

func NewMetricsObserver(algo string) *MetricsObserver {
	return &MetricsObserver{gauge: progressGauge.WithLabelValues(algo)}
}

func (o *MetricsObserver) Update(_ int, progress float64) {
	o.gauge.Set(progress)
}

// ResetProgressMetrics drops every progress series.
func ResetProgressMetrics() {
	progressGauge.Reset()
}
