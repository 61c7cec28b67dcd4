package harvester

import (
	"bytes"
	"crypto/cipher"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectWhitener(t *testing.T) {
	tests := []struct {
		debias bool
		hash   string
		cipher string
		name   string
		limit  int
	}{
		{true, "sha256", "aes", "keyed-stream (aes)", keyedStreamBufferLimit},
		{true, "sha256", "serpent", "keyed-stream (serpent)", keyedStreamBufferLimit},
		{true, "sha256", "off", "digest (sha256)", 32},
		{true, "sha1", "off", "digest (sha1)", 20},
		{true, "sha1", "aes", "keyed-stream (aes)", keyedStreamBufferLimit},
		{true, "off", "aes", "passthrough", 1},
		{true, "off", "off", "passthrough", 1},
		{false, "sha256", "aes", "passthrough", 1},
	}

	for _, tt := range tests {
		w := selectWhitener(tt.debias, tt.hash, tt.cipher)
		assert.Equal(t, tt.name, w.Name())
		assert.Equal(t, tt.limit, w.BufferLimit())
	}
}

func TestKeyedStreamRoundTrip(t *testing.T) {
	// encrypting a flush buffer and decrypting with the same derived key
	// recovers the original buffer bit for bit
	for _, cipherName := range []string{"aes", "serpent"} {
		w := newKeyedStream(sha256.New, cipherName)

		buf := make([]byte, keyedStreamBufferLimit)
		for i := range buf {
			buf[i] = byte(i * 7)
		}
		seed := []byte("timing jitter from the first rounds")

		out, err := w.Flush(buf, seed)
		require.NoError(t, err)
		require.Len(t, out, len(buf))
		assert.False(t, bytes.Equal(out, buf), "cipher output equals input")

		// rebuild the same key independently and decrypt
		running := sha256.New()
		running.Write(seed)
		key := expandDigest(sha256.New, running.Sum(nil), 32)
		block, err := newCipher(cipherName, key)
		require.NoError(t, err)

		recovered := make([]byte, len(out))
		cipher.NewCTR(block, make([]byte, block.BlockSize())).XORKeyStream(recovered, out)
		assert.Equal(t, buf, recovered, "%s round trip", cipherName)
	}
}

func TestKeyedStreamAccumulatesSeed(t *testing.T) {
	// two whiteners fed different seed histories derive different keys
	w1 := newKeyedStream(sha256.New, "aes")
	w2 := newKeyedStream(sha256.New, "aes")

	buf := []byte("identical buffer contents................")

	out1a, err := w1.Flush(buf, []byte("round one"))
	require.NoError(t, err)
	out2, err := w2.Flush(buf, []byte("other history"))
	require.NoError(t, err)
	assert.NotEqual(t, out1a, out2)

	// the running hash is never rewound: a second flush with no new seed
	// bytes still reuses the accumulated state consistently
	out1b, err := w1.Flush(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, out1a, out1b, "same accumulated state derives the same key")
}

func TestKeyedStreamPartialBlock(t *testing.T) {
	// final flushes are shorter than the cipher block size
	w := newKeyedStream(sha256.New, "aes")
	buf := []byte{0x01, 0x02, 0x03}

	out, err := w.Flush(buf, nil)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestDigestWhitenerLength(t *testing.T) {
	// output length always equals input length, regardless of the hash's
	// native output size
	for _, hashName := range []string{"sha256", "sha1"} {
		newH, size, ok := newHash(hashName)
		require.True(t, ok)
		w := &digestWhitener{newH: newH, hashName: hashName, size: size}

		for _, n := range []int{1, size - 1, size, size + 1, 3 * size, 100} {
			buf := bytes.Repeat([]byte{0x42}, n)
			out, err := w.Flush(buf, nil)
			require.NoError(t, err)
			assert.Len(t, out, n, "%s with %d input bytes", hashName, n)
		}
	}
}

func TestDigestWhitenerDeterminism(t *testing.T) {
	newH, size, _ := newHash("sha256")
	w := &digestWhitener{newH: newH, hashName: "sha256", size: size}

	a, err := w.Flush([]byte("same input"), nil)
	require.NoError(t, err)
	b, err := w.Flush([]byte("same input"), nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := w.Flush([]byte("other input"), nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestPassthrough(t *testing.T) {
	w := passthrough{}
	buf := []byte{1, 2, 3, 4}

	out, err := w.Flush(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestEmptyFlushes(t *testing.T) {
	for _, w := range []whitener{
		newKeyedStream(sha256.New, "aes"),
		&digestWhitener{newH: sha256.New, hashName: "sha256", size: 32},
		passthrough{},
	} {
		out, err := w.Flush(nil, nil)
		require.NoError(t, err)
		assert.Empty(t, out, "%s", w.Name())
	}
}

func TestExpandDigest(t *testing.T) {
	sum := []byte{1, 2, 3, 4}

	assert.Equal(t, []byte{1, 2}, expandDigest(sha256.New, sum, 2))
	assert.Equal(t, []byte{1, 2, 3, 4}, expandDigest(sha256.New, sum, 4))

	extended := expandDigest(sha256.New, sum, 10)
	assert.Len(t, extended, 10)
	assert.Equal(t, []byte{1, 2, 3, 4}, extended[:4])
}
