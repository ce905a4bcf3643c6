package cli

import (
	"fmt"
	"strings"
	"time"
)

// ProgressState holds the latest progress of each multiplier of a run.
type ProgressState struct {
	values []float64
}

func NewProgressState(numMultipliers int) *ProgressState {
	return &ProgressState{values: make([]float64, max(numMultipliers, 0))}
}

// Update stores value, clamped to [0, 1], for the multiplier at index.
// Unknown indices are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(ps.values) {
		return
	}
	ps.values[index] = clamp01(value)
}

// Average is the mean progress of all multipliers, 0 when there are none.
func (ps *ProgressState) Average() float64 {
	if len(ps.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range ps.values {
		sum += v
	}
	return sum / float64(len(ps.values))
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

const (
	// maxETA bounds estimates made from a nearly stalled rate.
	maxETA = 24 * time.Hour
	// etaWarmup is how long the estimator waits before trusting the rate.
	etaWarmup = 100 * time.Millisecond
	// etaSampleGap is the minimum spacing between two rate samples.
	etaSampleGap = 50 * time.Millisecond
	// etaSmoothing weights the newest rate sample in the moving average.
	etaSmoothing = 0.3
)

// etaEstimator turns a sequence of progress observations into a remaining
// time estimate using an exponentially weighted progress rate.
type etaEstimator struct {
	now       func() time.Time
	start     time.Time
	sampledAt time.Time
	sampled   float64
	rate      float64 // progress per second
}

func newETAEstimator(now func() time.Time) *etaEstimator {
	t := now()
	return &etaEstimator{now: now, start: t, sampledAt: t}
}

func (e *etaEstimator) observe(progress float64) {
	t := e.now()
	if t.Sub(e.start) < etaWarmup || progress <= 0.001 {
		e.sampledAt, e.sampled = t, progress
		return
	}
	gap := t.Sub(e.sampledAt)
	if gap < etaSampleGap {
		return
	}
	if delta := progress - e.sampled; delta > 0 {
		if e.rate == 0 {
			e.rate = progress / t.Sub(e.start).Seconds()
		} else {
			e.rate += etaSmoothing * (delta/gap.Seconds() - e.rate)
		}
	}
	e.sampledAt, e.sampled = t, progress
}

// remaining returns 0 while no rate is known or once progress is complete.
func (e *etaEstimator) remaining(progress float64) time.Duration {
	if e.rate <= 0 || progress >= 1 {
		return 0
	}
	secs := (1 - progress) / e.rate
	if secs >= maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// FormatETA renders eta with at most two units: "45s", "2m30s", "1h15m".
// Sub-second values read "< 1s" and non-positive ones "calculating...".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta/time.Second))
	case eta < time.Hour:
		return twoUnits(int(eta/time.Minute), "m", int(eta%time.Minute/time.Second), "s")
	default:
		return twoUnits(int(eta/time.Hour), "h", int(eta%time.Hour/time.Minute), "m")
	}
}

func twoUnits(major int, majorUnit string, minor int, minorUnit string) string {
	if minor == 0 {
		return fmt.Sprintf("%d%s", major, majorUnit)
	}
	return fmt.Sprintf("%d%s%d%s", major, majorUnit, minor, minorUnit)
}

// progressBar draws progress, clamped to [0, 1], as width cells.
func progressBar(progress float64, width int) string {
	filled := int(clamp01(progress) * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// progressLine renders "45.00% [████░░░░] ETA: 2m30s", with "done" in
// place of the ETA once progress is complete.
func progressLine(progress float64, eta time.Duration, width int) string {
	tail := "ETA: " + FormatETA(eta)
	if progress >= 1 {
		tail = "done"
	}
	return fmt.Sprintf("%6.2f%% [%s] %s", progress*100, progressBar(progress, width), tail)
}
