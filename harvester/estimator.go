package harvester

import (
	"time"
)

// Statistical confidence bound for the per-round flip target.
const (
	confidenceZ     = 4.0
	confidenceError = 0.01
)

// targetFlips is the counter increment count per round that the estimator
// steers the timer interval towards: Z² / (4·err²).
const targetFlips = (confidenceZ * confidenceZ) / (4 * confidenceError * confidenceError)

// defaultStartInterval is used until the first round has been observed.
const defaultStartInterval = 100 * time.Microsecond

// intervalEstimator tracks the timer interval that produces the target
// increment count per round, as an EWMA with smoothing weight 1/8.
type intervalEstimator struct {
	ewma   float64 // nanoseconds, scaled by 8
	seeded bool
}

// update consumes one round's observation and returns the interval to arm
// the next round with.
func (e *intervalEstimator) update(increments uint64, interval time.Duration) time.Duration {
	if increments == 0 || interval <= 0 {
		return e.current()
	}

	// interval that would have produced exactly targetFlips increments
	rate := float64(increments) / float64(interval.Nanoseconds())
	estimated := targetFlips / rate

	if !e.seeded {
		e.ewma = estimated * 8
		e.seeded = true
	} else {
		e.ewma += estimated - e.ewma/8
	}

	return e.current()
}

// current returns the interval estimate, clamped to the platform timer
// resolution.
func (e *intervalEstimator) current() time.Duration {
	if !e.seeded {
		return defaultStartInterval
	}
	next := time.Duration(e.ewma / 8)
	if next < timerResolution {
		next = timerResolution
	}
	return next
}
