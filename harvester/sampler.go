package harvester

import (
	"time"
)

// Round length grows from 2 to 32 bits over the run: early rounds deliver
// first output quickly, later rounds amortize the timer arming overhead.
const (
	firstRoundLength = 2
	maxRoundLength   = 32
	roundLengthStep  = 2
)

// round holds the raw result of one collection round.
type round struct {
	bits       uint32        // raw bits, oldest at the highest position
	length     int           // number of valid bits
	increments uint64        // counter increments observed over the round
	interval   time.Duration // effective per-tick timer interval
}

// sampler is the raw entropy source. While the virtual timer is armed, a
// counter increments at full speed; the counter's parity at expiry is the
// raw bit. The parity depends on scheduling and clock jitter between the
// timer and the CPU.
type sampler struct {
	timer       *virtualTimer
	roundLength int
}

func newSampler() *sampler {
	return &sampler{
		timer:       newVirtualTimer(),
		roundLength: firstRoundLength,
	}
}

// collect runs one full round of raw bit sampling. It returns early with
// complete == false when cancel fires between ticks; a partial round is
// never handed to the debiaser.
func (s *sampler) collect(interval time.Duration, cancel <-chan struct{}) (r round, complete bool) {
	r.length = s.roundLength

	for tick := 0; tick < r.length; tick++ {
		select {
		case <-cancel:
			s.timer.Cancel()
			return r, false
		default:
		}

		r.interval = s.timer.Arm(interval)

		// The counting loop is the only work: increment until the timer
		// expires, then read the parity as the raw bit. No I/O in here.
		var counter uint64
		for !s.timer.Expired(time.Now()) {
			counter++
		}

		r.increments += counter
		r.bits = r.bits<<1 | uint32(counter&1)
	}

	s.advance()
	return r, true
}

func (s *sampler) advance() {
	if s.roundLength < maxRoundLength {
		s.roundLength += roundLengthStep
	}
}
