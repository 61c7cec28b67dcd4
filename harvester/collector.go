package harvester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tickseed/tickseed/container"
	"github.com/tickseed/tickseed/log"
)

// Settings hold the resolved configuration of one harvesting run.
type Settings struct {
	ByteCount     int           // target number of bytes, 0 = unbounded
	TimeBudget    time.Duration // 0 = unbounded
	FixedInterval time.Duration // 0 = adaptive
	Debias        bool
	HashName      string // sha256, sha1 or off
	CipherName    string // aes, serpent or off
}

// ErrNoBudget is returned when neither a byte count nor a time budget is set.
var ErrNoBudget = errors.New("harvester: at least one of byte count and time budget must be set")

func (s Settings) check() error {
	if s.ByteCount < 0 || s.TimeBudget < 0 || s.FixedInterval < 0 {
		return errors.New("harvester: byte count, time budget and interval must not be negative")
	}
	if s.ByteCount == 0 && s.TimeBudget == 0 {
		return ErrNoBudget
	}
	return nil
}

// collector owns all round state and drives the collection loop through
// the COLLECTING, FLUSHING and FINALIZING phases. All state lives for one
// run and is single-owner throughout.
type collector struct {
	settings Settings
	out      io.Writer
	sinks    []func([]byte)

	sampler   *sampler
	estimator *intervalEstimator
	debiaser  *vonNeumann
	packer    *rawPacker
	seeder    *seedAccumulator
	whitener  whitener

	buffer            *container.Container
	bytesEmitted      int
	rawBits           uint64
	trimmedBits       uint64
	reportedDiscarded uint64
	started           time.Time
	lastProgress      time.Time
}

func newCollector(settings Settings, out io.Writer) (*collector, error) {
	if err := settings.check(); err != nil {
		return nil, err
	}

	c := &collector{
		settings:  settings,
		out:       out,
		sampler:   newSampler(),
		estimator: &intervalEstimator{},
		debiaser:  &vonNeumann{},
		packer:    &rawPacker{},
		seeder:    newSeedAccumulator(),
		whitener:  selectWhitener(settings.Debias, settings.HashName, settings.CipherName),
		buffer:    container.New(),
	}

	log.Infof("harvester: using %s whitening, flushing every %d byte(s)", c.whitener.Name(), c.whitener.BufferLimit())
	return c, nil
}

// run drives the collection loop until the byte count or time budget is
// exhausted, or ctx is canceled. It always finalizes: any partial buffer is
// flushed before returning.
func (c *collector) run(ctx context.Context) error {
	c.started = time.Now()
	c.lastProgress = c.started

	var deadline time.Time
	if c.settings.TimeBudget > 0 {
		deadline = c.started.Add(c.settings.TimeBudget)
	}

	interval := c.settings.FixedInterval
	if interval == 0 {
		interval = c.estimator.current()
	}

	for !c.done(deadline) && ctx.Err() == nil {
		r, complete := c.sampler.collect(interval, ctx.Done())
		if !complete {
			break
		}

		roundsTotal.Inc()
		rawBitsTotal.Add(r.length)
		c.rawBits += uint64(r.length)

		if c.settings.Debias {
			if c.whitener.NeedsRawSeed() {
				c.seeder.feed(r.bits, r.length)
			}
			c.debiaser.feed(r.bits, r.length, c.buffer)
		} else {
			c.packer.feed(r.bits, r.length, c.buffer)
		}

		if c.settings.FixedInterval == 0 {
			interval = c.estimator.update(r.increments, r.interval)
		}

		// output work happens strictly between rounds, never inside the
		// counting loop
		if c.buffer.Length() >= c.whitener.BufferLimit() {
			if err := c.flush(); err != nil {
				return err
			}
		}

		c.reportProgress()
	}

	return c.finalize()
}

// done reports whether the run budget is exhausted. Bytes already waiting in
// the buffer count towards the byte target, they only lack a final flush.
func (c *collector) done(deadline time.Time) bool {
	if c.settings.ByteCount > 0 && c.bytesEmitted+c.buffer.Length() >= c.settings.ByteCount {
		return true
	}
	if !deadline.IsZero() && !time.Now().Before(deadline) {
		return true
	}
	return false
}

// flush passes the buffered bytes through the whitening stage and writes the
// result to the output stream. The buffer is cleared together with the
// transform consuming its snapshot.
func (c *collector) flush() error {
	data := c.buffer.CompileData()
	c.buffer = container.New()

	// trim overproduced trailing bytes, they still count as discarded
	if c.settings.ByteCount > 0 {
		remaining := c.settings.ByteCount - c.bytesEmitted
		if remaining < 0 {
			remaining = 0
		}
		if len(data) > remaining {
			trimmed := len(data) - remaining
			c.trimmedBits += uint64(trimmed) * 8
			discardedBitsTotal.Add(trimmed * 8)
			data = data[:remaining]
		}
	}
	if len(data) == 0 {
		return nil
	}

	var seed []byte
	if c.whitener.NeedsRawSeed() {
		seed = c.seeder.takePending()
		seedBytesTotal.Add(len(seed))
	}

	out, err := c.whitener.Flush(data, seed)
	if err != nil {
		return fmt.Errorf("harvester: whitening failed: %w", err)
	}

	if _, err := c.out.Write(out); err != nil {
		return fmt.Errorf("harvester: failed to write output: %w", err)
	}

	c.bytesEmitted += len(out)
	emittedBytesTotal.Add(len(out))
	flushesTotal.Inc()
	discardedBitsTotal.Add(int(c.debiaser.discarded - c.reportedDiscarded))
	c.reportedDiscarded = c.debiaser.discarded

	for _, sink := range c.sinks {
		sink(out)
	}

	return nil
}

// finalize performs the last flush of any partial buffer and reports run
// statistics. Invoked for normal completion and for external termination
// alike, so buffered bytes are never dropped.
func (c *collector) finalize() error {
	err := c.flush()

	elapsed := time.Since(c.started)
	discarded := c.debiaser.discarded + c.trimmedBits

	log.Infof("harvester: emitted %d byte(s) in %s", c.bytesEmitted, elapsed.Round(time.Millisecond))
	log.Debugf("harvester: %d raw bits collected, %d bits discarded, %d byte(s) seeded into the hash",
		c.rawBits, discarded, c.seeder.seedBytes)
	if elapsed > 0 {
		log.Debugf("harvester: achieved raw bit rate: %.1f bits/s", float64(c.rawBits)/elapsed.Seconds())
	}
	dumpMetrics()

	return err
}

func (c *collector) reportProgress() {
	now := time.Now()
	if now.Sub(c.lastProgress) < time.Second {
		return
	}
	c.lastProgress = now

	produced := c.bytesEmitted + c.buffer.Length()
	if c.settings.ByteCount > 0 {
		percent := float64(produced) * 100 / float64(c.settings.ByteCount)
		log.Infof("harvester: %d/%d byte(s) (%.0f%%)", produced, c.settings.ByteCount, percent)
	} else {
		log.Infof("harvester: %d byte(s) produced", produced)
	}
}
