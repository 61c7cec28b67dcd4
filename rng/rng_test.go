package rng

import (
	"testing"

	"github.com/seehuhn/fortuna"

	"github.com/tickseed/tickseed/config"
)

func init() {
	err := prep()
	if err != nil {
		panic(err)
	}
}

func TestRNG(t *testing.T) {
	key := make([]byte, 16)

	err := config.SetConfigOption("rng.cipher", "aes")
	if err != nil {
		t.Errorf("failed to set rng.cipher config: %s", err)
	}
	_, err = newCipher(key)
	if err != nil {
		t.Errorf("failed to create aes cipher: %s", err)
	}

	err = config.SetConfigOption("rng.cipher", "serpent")
	if err != nil {
		t.Errorf("failed to set rng.cipher config: %s", err)
	}
	_, err = newCipher(key)
	if err != nil {
		t.Errorf("failed to create serpent cipher: %s", err)
	}

	// reads fail before the generator is up
	b := make([]byte, 32)
	if _, err := Read(b); err == nil {
		t.Error("Read should fail before the generator is ready")
	}

	// feeding before ready is a silent no-op
	Feed([]byte{1, 2, 3})

	// bring the generator up directly
	rngLock.Lock()
	rng = fortuna.NewGenerator(newCipher)
	rngReady = true
	rngLock.Unlock()

	Feed([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	if _, err := Read(b); err != nil {
		t.Errorf("Read failed: %s", err)
	}
	if _, err := Reader.Read(b); err != nil {
		t.Errorf("Reader.Read failed: %s", err)
	}
	if _, err := Bytes(32); err != nil {
		t.Errorf("Bytes failed: %s", err)
	}
}
