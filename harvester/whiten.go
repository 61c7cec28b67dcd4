package harvester

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/aead/serpent"

	"github.com/tickseed/tickseed/log"
)

// whitener transforms a full output buffer into the bytes actually emitted.
// The policy is selected once at startup and held for the entire run.
type whitener interface {
	Name() string
	BufferLimit() int
	NeedsRawSeed() bool
	Flush(buf []byte, seed []byte) ([]byte, error)
}

// keyedStreamBufferLimit amortizes the per-flush hash and cipher setup cost.
const keyedStreamBufferLimit = 1024

func newHash(name string) (newH func() hash.Hash, size int, ok bool) {
	switch name {
	case "sha256":
		return sha256.New, sha256.Size, true
	case "sha1":
		return sha1.New, sha1.Size, true
	default:
		return nil, 0, false
	}
}

func newCipher(name string, key []byte) (cipher.Block, error) {
	switch name {
	case "aes":
		return aes.NewCipher(key)
	case "serpent":
		return serpent.NewCipher(key)
	default:
		return nil, fmt.Errorf("unknown or unsupported cipher: %s", name)
	}
}

// keyedStream is the strongest whitening policy: all raw bits of the run are
// folded into a running hash, whose current digest keys a counter-mode stream
// cipher over the debiased buffer. The hash state lives for the entire run
// and is never rewound, so every flush strengthens the next key.
type keyedStream struct {
	running    hash.Hash
	newH       func() hash.Hash
	cipherName string
}

func newKeyedStream(newH func() hash.Hash, cipherName string) *keyedStream {
	return &keyedStream{
		running:    newH(),
		newH:       newH,
		cipherName: cipherName,
	}
}

func (w *keyedStream) Name() string       { return "keyed-stream (" + w.cipherName + ")" }
func (w *keyedStream) BufferLimit() int   { return keyedStreamBufferLimit }
func (w *keyedStream) NeedsRawSeed() bool { return true }

func (w *keyedStream) Flush(buf []byte, seed []byte) ([]byte, error) {
	if len(buf) == 0 {
		return nil, nil
	}

	// fold pending seed bytes into the running hash, then derive the key
	// from a finalized snapshot - Sum does not disturb the running state
	if _, err := w.running.Write(seed); err != nil {
		return nil, err
	}
	key := expandDigest(w.newH, w.running.Sum(nil), 32)

	block, err := newCipher(w.cipherName, key)
	if err != nil {
		return nil, err
	}

	// counter mode handles the trailing partial block, equivalent to
	// zero-padding, encrypting and truncating to the buffer length
	iv := make([]byte, block.BlockSize())
	out := make([]byte, len(buf))
	cipher.NewCTR(block, iv).XORKeyStream(out, buf)

	return out, nil
}

// digestWhitener replaces the buffer with its digest, truncated or
// chain-extended to the buffer length. Inherited behavior: this is not a
// proper key-derivation construction and must not be treated as one.
type digestWhitener struct {
	newH     func() hash.Hash
	hashName string
	size     int
}

func (w *digestWhitener) Name() string       { return "digest (" + w.hashName + ")" }
func (w *digestWhitener) BufferLimit() int   { return w.size }
func (w *digestWhitener) NeedsRawSeed() bool { return false }

func (w *digestWhitener) Flush(buf []byte, _ []byte) ([]byte, error) {
	if len(buf) == 0 {
		return nil, nil
	}

	h := w.newH()
	if _, err := h.Write(buf); err != nil {
		return nil, err
	}

	return expandDigest(w.newH, h.Sum(nil), len(buf)), nil
}

// passthrough emits the debiased buffer unchanged.
type passthrough struct{}

func (passthrough) Name() string       { return "passthrough" }
func (passthrough) BufferLimit() int   { return 1 }
func (passthrough) NeedsRawSeed() bool { return false }

func (passthrough) Flush(buf []byte, _ []byte) ([]byte, error) {
	return buf, nil
}

// expandDigest truncates sum to n bytes, or extends it by chained re-hashing
// when n exceeds the digest size.
func expandDigest(newH func() hash.Hash, sum []byte, n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, sum...)
		if len(out) < n {
			h := newH()
			h.Write(sum)
			sum = h.Sum(nil)
		}
	}
	return out[:n]
}

// selectWhitener picks the strongest whitening policy the configuration
// allows, degrading gracefully when a stage is disabled or unusable.
func selectWhitener(debias bool, hashName, cipherName string) whitener {
	if !debias {
		// raw packed bytes must not pretend to be conditioned
		return passthrough{}
	}

	newH, size, ok := newHash(hashName)
	if !ok {
		if hashName != "off" {
			log.Warningf("harvester: unknown hash %q, falling back to passthrough", hashName)
		}
		return passthrough{}
	}

	if cipherName != "off" {
		// probe the cipher with a throwaway key before committing
		if _, err := newCipher(cipherName, make([]byte, 32)); err == nil {
			return newKeyedStream(newH, cipherName)
		}
		log.Warningf("harvester: cipher %q unusable, falling back to digest whitening", cipherName)
	}

	return &digestWhitener{
		newH:     newH,
		hashName: hashName,
		size:     size,
	}
}
