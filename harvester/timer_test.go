package harvester

import (
	"testing"
	"time"
)

func TestTimerResolutionProbe(t *testing.T) {
	if timerResolution <= 0 {
		t.Fatalf("invalid timer resolution: %s", timerResolution)
	}
	if timerResolution > time.Second {
		t.Fatalf("implausible timer resolution: %s", timerResolution)
	}
}

func TestTimerClamping(t *testing.T) {
	timer := newVirtualTimer()

	// requested intervals below the resolution are silently clamped
	effective := timer.Arm(0)
	if effective != timerResolution {
		t.Errorf("expected clamp to %s, got %s", timerResolution, effective)
	}
	timer.Cancel()

	effective = timer.Arm(time.Millisecond)
	if effective != time.Millisecond {
		t.Errorf("expected %s, got %s", time.Millisecond, effective)
	}
	timer.Cancel()
}

func TestTimerSingleExpiry(t *testing.T) {
	timer := newVirtualTimer()
	timer.Arm(time.Microsecond)

	expiries := 0
	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		if timer.Expired(time.Now()) {
			expiries++
		}
	}

	// exactly one expiry per arm
	if expiries != 1 {
		t.Errorf("expected 1 expiry, got %d", expiries)
	}
}

func TestTimerCancel(t *testing.T) {
	timer := newVirtualTimer()
	timer.Arm(time.Nanosecond)
	timer.Cancel()

	if timer.Expired(time.Now().Add(time.Second)) {
		t.Error("canceled timer must not expire")
	}
}

func TestSamplerRound(t *testing.T) {
	s := newSampler()

	r, complete := s.collect(timerResolution, nil)
	if !complete {
		t.Fatal("round did not complete")
	}
	if r.length != firstRoundLength {
		t.Errorf("first round length: %d", r.length)
	}
	if r.interval < timerResolution {
		t.Errorf("effective interval %s below resolution", r.interval)
	}

	// round length grows by 2 per round up to the cap
	for i := 0; i < 20; i++ {
		r, complete = s.collect(timerResolution, nil)
		if !complete {
			t.Fatal("round did not complete")
		}
	}
	if r.length != maxRoundLength {
		t.Errorf("round length did not cap at %d: %d", maxRoundLength, r.length)
	}
	if s.roundLength != maxRoundLength {
		t.Errorf("round length grew past the cap: %d", s.roundLength)
	}
}

func TestSamplerCancel(t *testing.T) {
	s := newSampler()
	cancel := make(chan struct{})
	close(cancel)

	_, complete := s.collect(time.Millisecond, cancel)
	if complete {
		t.Error("canceled collection reported as complete")
	}
	if s.timer.armed.IsSet() {
		t.Error("timer still armed after cancellation")
	}
}
