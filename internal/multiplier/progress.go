package multiplier

// ProgressReportThreshold is the minimum change in progress (0.0 to 1.0)
// between two reports from the long-multiplication engine.
const ProgressReportThreshold = 0.01

// ProgressUpdate carries the progress of one multiplier run. It is sent over
// a channel from the engine to the user interface.
type ProgressUpdate struct {
	// MultiplierIndex identifies the run when several multipliers work on
	// the same operands concurrently.
	MultiplierIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the callback core algorithms use to report progress
// without knowing how it is delivered.
type ProgressReporter func(progress float64)

// throttledReporter returns a digits.RowHook-shaped function that converts
// pass counts into progress and forwards them to reporter once they moved by
// at least ProgressReportThreshold. The first and last passes are always
// reported.
func throttledReporter(reporter ProgressReporter) func(done, total int) {
	lastReported := -1.0
	return func(done, total int) {
		if total <= 0 {
			return
		}
		progress := float64(done) / float64(total)
		if progress-lastReported >= ProgressReportThreshold || done == 1 || done == total {
			reporter(progress)
			lastReported = progress
		}
	}
}
