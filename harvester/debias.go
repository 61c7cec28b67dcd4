package harvester

import (
	"github.com/tickseed/tickseed/container"
)

// vonNeumann removes first-order bias from raw bit pairs: equal pairs are
// discarded entirely, unequal pairs emit their first bit. Output bits pack
// into bytes MSB-first, in accumulation order.
type vonNeumann struct {
	outBits     uint32
	outBitCount uint
	discarded   uint64 // never reset during a run
}

// feed consumes one round's raw bits, oldest first, appending every completed
// byte to out. It returns the number of bits emitted from this round.
func (d *vonNeumann) feed(bits uint32, length int, out *container.Container) (emitted int) {
	for i := length - 1; i >= 1; i -= 2 {
		first := (bits >> uint(i)) & 1
		second := (bits >> uint(i-1)) & 1

		if first == second {
			d.discarded += 2
			continue
		}

		// the second bit of the pair is used up as context
		d.discarded++
		d.outBits = d.outBits<<1 | first
		d.outBitCount++
		emitted++

		if d.outBitCount == 8 {
			out.AppendByte(byte(d.outBits))
			d.outBits = 0
			d.outBitCount -= 8
		}
	}
	return emitted
}

// rawPacker packs raw tick bits straight into output bytes, with no discard.
// Used when debiasing is disabled.
type rawPacker struct {
	bits     uint32
	bitCount uint
}

func (p *rawPacker) feed(bits uint32, length int, out *container.Container) {
	for i := length - 1; i >= 0; i-- {
		p.bits = p.bits<<1 | (bits>>uint(i))&1
		p.bitCount++

		if p.bitCount == 8 {
			out.AppendByte(byte(p.bits))
			p.bits = 0
			p.bitCount = 0
		}
	}
}

// seedAccumulator folds every raw bit consumed by the debiaser into pending
// seed bytes for the keyed-stream whitener. Raw bits are collected before
// debiasing, so discarded pairs still contribute to the whitening key.
type seedAccumulator struct {
	bits      uint32
	bitCount  uint
	pending   *container.Container
	seedBytes uint64 // total bytes accumulated over the run
}

func newSeedAccumulator() *seedAccumulator {
	return &seedAccumulator{
		pending: container.New(),
	}
}

func (a *seedAccumulator) feed(bits uint32, length int) {
	for i := length - 1; i >= 0; i-- {
		a.bits = a.bits<<1 | (bits>>uint(i))&1
		a.bitCount++

		if a.bitCount == 8 {
			a.pending.AppendByte(byte(a.bits))
			a.bits = 0
			a.bitCount = 0
			a.seedBytes++
		}
	}
}

// takePending returns the accrued seed bytes and empties the pending buffer.
func (a *seedAccumulator) takePending() []byte {
	if a.pending.Length() == 0 {
		return nil
	}
	data := a.pending.CompileData()
	a.pending = container.New()
	return data
}
