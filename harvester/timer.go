package harvester

import (
	"math"
	"time"

	"github.com/tevino/abool"
)

// timerResolution is the smallest interval the platform clock can resolve,
// probed once at startup. Requested timer intervals below it are clamped.
var timerResolution = probeTimerResolution()

func probeTimerResolution() time.Duration {
	best := time.Duration(math.MaxInt64)
	for i := 0; i < 16; i++ {
		t0 := time.Now()
		var t1 time.Time
		for {
			t1 = time.Now()
			if t1.After(t0) {
				break
			}
		}
		if d := t1.Sub(t0); d < best {
			best = d
		}
	}
	if best <= 0 {
		best = time.Nanosecond
	}
	return best
}

// virtualTimer models a one-shot interrupt timer: every Arm schedules exactly
// one expiry, delivered by polling Expired from the counting loop. The polling
// side and the arming side never run concurrently, only interleaved.
type virtualTimer struct {
	armed    *abool.AtomicBool
	interval time.Duration
	deadline time.Time
}

func newVirtualTimer() *virtualTimer {
	return &virtualTimer{
		armed: abool.NewBool(false),
	}
}

// Arm schedules the next expiry and returns the effective interval, which may
// have been clamped to the platform timer resolution.
func (t *virtualTimer) Arm(interval time.Duration) time.Duration {
	if interval < timerResolution {
		interval = timerResolution
	}
	t.interval = interval
	t.deadline = time.Now().Add(interval)
	t.armed.Set()
	return interval
}

// Cancel disarms a pending timer.
func (t *virtualTimer) Cancel() {
	t.armed.UnSet()
}

// Expired reports whether the armed deadline has passed. The first call at or
// after the deadline disarms the timer, so each Arm delivers exactly one expiry.
func (t *virtualTimer) Expired(now time.Time) bool {
	if !t.armed.IsSet() {
		return false
	}
	if now.Before(t.deadline) {
		return false
	}
	t.armed.UnSet()
	return true
}
