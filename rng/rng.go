package rng

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"sync"

	"github.com/aead/serpent"
	"github.com/seehuhn/fortuna"

	"github.com/tickseed/tickseed/config"
	"github.com/tickseed/tickseed/harvester"
	"github.com/tickseed/tickseed/log"
	"github.com/tickseed/tickseed/modules"
)

// The rng module keeps an in-process Fortuna generator that is reseeded with
// every whitened chunk the harvester emits. It is meant for consumers inside
// the same process; the primary output stream does not depend on it.

var (
	rng      *fortuna.Generator
	rngLock  sync.Mutex
	rngReady = false

	rngEnabledOption config.BoolOption
	rngCipherOption  config.StringOption
)

func init() {
	modules.Register("rng", prep, start, nil, "config", "harvester")
}

func prep() error {
	err := config.Register(&config.Option{
		Name:         "In-Process RNG",
		Key:          "rng.enabled",
		Description:  "Keep a Fortuna generator reseeded from the harvested bytes.",
		OptType:      config.OptTypeBool,
		DefaultValue: false,
	})
	if err != nil {
		return err
	}
	rngEnabledOption = config.GetAsBool("rng.enabled", false)

	err = config.Register(&config.Option{
		Name:            "RNG Cipher",
		Key:             "rng.cipher",
		Description:     "Cipher to use for the Fortuna RNG.",
		OptType:         config.OptTypeString,
		DefaultValue:    "aes",
		ValidationRegex: "^(aes|serpent)$",
	})
	if err != nil {
		return err
	}
	rngCipherOption = config.GetAsString("rng.cipher", "aes")

	// sinks must be registered before the harvester starts; Feed is a no-op
	// until the generator is ready
	harvester.RegisterSink(Feed)

	return nil
}

func newCipher(key []byte) (cipher.Block, error) {
	cipherName := rngCipherOption()
	switch cipherName {
	case "aes":
		return aes.NewCipher(key)
	case "serpent":
		return serpent.NewCipher(key)
	default:
		return nil, fmt.Errorf("unknown or unsupported cipher: %s", cipherName)
	}
}

func start() error {
	if !rngEnabledOption() {
		log.Debug("rng: disabled, not starting the generator")
		return nil
	}

	rngLock.Lock()
	defer rngLock.Unlock()

	rng = fortuna.NewGenerator(newCipher)
	rngReady = true

	return nil
}

// Feed reseeds the generator with harvested bytes. It is safe to call before
// the generator is ready, the data is dropped in that case.
func Feed(data []byte) {
	rngLock.Lock()
	defer rngLock.Unlock()

	if !rngReady || len(data) == 0 {
		return
	}
	rng.Reseed(data)
}
