package harvester

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tickseed/tickseed/container"
)

func TestVonNeumannPairs(t *testing.T) {
	tests := []struct {
		name      string
		bits      uint32
		length    int
		emitted   int
		discarded uint64
	}{
		{"equal zero pair", 0b00, 2, 0, 2},
		{"equal one pair", 0b11, 2, 0, 2},
		{"rising pair", 0b01, 2, 1, 1},
		{"falling pair", 0b10, 2, 1, 1},
		{"mixed round", 0b01_11_10_00, 8, 2, 6},
		{"all equal", 0b00_11_00_11, 8, 0, 8},
		{"all unequal", 0b01_10_01_10, 8, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &vonNeumann{}
			out := container.New()
			emitted := d.feed(tt.bits, tt.length, out)

			assert.Equal(t, tt.emitted, emitted, "emitted bits")
			assert.Equal(t, tt.discarded, d.discarded, "discarded bits")
			// bit accounting: every raw bit is either emitted or discarded
			assert.Equal(t, tt.length, emitted+int(d.discarded))
		})
	}
}

func TestVonNeumannBitAccounting(t *testing.T) {
	// for every round length, emitted + discarded == length and
	// emitted <= length/2, regardless of bit pattern
	patterns := []uint32{0x00000000, 0xffffffff, 0xaaaaaaaa, 0x55555555, 0xdeadbeef, 0x12345678}

	for length := firstRoundLength; length <= maxRoundLength; length += roundLengthStep {
		for _, pattern := range patterns {
			d := &vonNeumann{}
			out := container.New()
			emitted := d.feed(pattern, length, out)

			if emitted > length/2 {
				t.Errorf("length %d pattern %x: emitted %d > %d", length, pattern, emitted, length/2)
			}
			if emitted+int(d.discarded) != length {
				t.Errorf("length %d pattern %x: %d emitted + %d discarded != %d",
					length, pattern, emitted, d.discarded, length)
			}
		}
	}
}

func TestVonNeumannBitOrder(t *testing.T) {
	// 16 unequal pairs, alternating 01/10: emits 0,1,0,1,... packed MSB-first
	d := &vonNeumann{}
	out := container.New()

	d.feed(0b01_10_01_10_01_10_01_10, 16, out)
	d.feed(0b01_10_01_10_01_10_01_10, 16, out)

	data := out.CompileData()
	assert.Equal(t, []byte{0b01010101, 0b01010101}, data)
	assert.Equal(t, uint(0), d.outBitCount)
}

func TestVonNeumannStateAcrossRounds(t *testing.T) {
	// partial bytes carry over between rounds
	d := &vonNeumann{}
	out := container.New()

	d.feed(0b01_10, 4, out) // 2 bits: 01
	assert.Equal(t, 0, out.Length())
	assert.Equal(t, uint(2), d.outBitCount)

	d.feed(0b01_10_01_10_01_10, 12, out) // 6 more bits: 010101
	assert.Equal(t, 1, out.Length())
	assert.Equal(t, []byte{0b01010101}, out.CompileData())
}

func TestRawPacker(t *testing.T) {
	p := &rawPacker{}
	out := container.New()

	// 3 rounds of 8 raw bits each pack into exactly 3 bytes
	p.feed(0b10110010, 8, out)
	p.feed(0b00000001, 8, out)
	p.feed(0b11111111, 8, out)
	assert.Equal(t, []byte{0b10110010, 0b00000001, 0b11111111}, out.CompileData())

	// odd amounts of raw bits leave a partial byte behind
	p.feed(0b1011, 4, out)
	assert.Equal(t, 3, out.Length())
	assert.Equal(t, uint(4), p.bitCount)
}

func TestRawPackerByteCount(t *testing.T) {
	// total raw bits over N rounds of length L yield floor(total/8) bytes
	for _, roundLength := range []int{2, 6, 10, 32} {
		p := &rawPacker{}
		out := container.New()
		rounds := 13
		for i := 0; i < rounds; i++ {
			p.feed(0xa5a5a5a5, roundLength, out)
		}
		expected := rounds * roundLength / 8
		assert.Equal(t, expected, out.Length(), "round length %d", roundLength)
	}
}

func TestSeedAccumulator(t *testing.T) {
	a := newSeedAccumulator()

	a.feed(0b10110010, 8)
	a.feed(0b0110, 4)

	assert.Equal(t, uint64(1), a.seedBytes)
	assert.Equal(t, []byte{0b10110010}, a.takePending())
	assert.Nil(t, a.takePending())

	// pending partial bits complete with the next feed
	a.feed(0b0111, 4)
	assert.Equal(t, []byte{0b01100111}, a.takePending())
	assert.Equal(t, uint64(2), a.seedBytes)
}
