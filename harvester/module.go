package harvester

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/tickseed/tickseed/config"
	"github.com/tickseed/tickseed/modules"
)

var (
	module *modules.Module

	byteCountOption  config.IntOption
	timeBudgetOption config.IntOption
	intervalOption   config.IntOption
	debiasOption     config.BoolOption
	hashOption       config.StringOption
	cipherOption     config.StringOption

	sinksLock sync.Mutex
	sinks     []func([]byte)
)

func init() {
	module = modules.Register("harvester", prep, start, nil, "config")
}

func prep() error {
	err := config.Register(&config.Option{
		Name:            "Byte Count",
		Key:             "harvester.bytes",
		Description:     "Number of random bytes to produce before exiting. 0 means unbounded.",
		OptType:         config.OptTypeInt,
		DefaultValue:    0,
		ValidationRegex: "^[0-9]+$",
	})
	if err != nil {
		return err
	}
	byteCountOption = config.GetAsInt("harvester.bytes", 0)

	err = config.Register(&config.Option{
		Name:            "Time Budget",
		Key:             "harvester.seconds",
		Description:     "Number of seconds to harvest for before exiting. 0 means unbounded.",
		OptType:         config.OptTypeInt,
		DefaultValue:    0,
		ValidationRegex: "^[0-9]+$",
	})
	if err != nil {
		return err
	}
	timeBudgetOption = config.GetAsInt("harvester.seconds", 0)

	err = config.Register(&config.Option{
		Name:            "Fixed Timer Interval",
		Key:             "harvester.interval_usec",
		Description:     "Pin the timer interval to this many microseconds instead of adapting it. 0 means adaptive.",
		OptType:         config.OptTypeInt,
		DefaultValue:    0,
		ValidationRegex: "^[0-9]+$",
	})
	if err != nil {
		return err
	}
	intervalOption = config.GetAsInt("harvester.interval_usec", 0)

	err = config.Register(&config.Option{
		Name:         "Von Neumann Debiasing",
		Key:          "harvester.debias",
		Description:  "Discard equal raw bit pairs and emit one bit per unequal pair. Disabling this also disables whitening.",
		OptType:      config.OptTypeBool,
		DefaultValue: true,
	})
	if err != nil {
		return err
	}
	debiasOption = config.GetAsBool("harvester.debias", true)

	err = config.Register(&config.Option{
		Name:            "Whitening Hash",
		Key:             "harvester.hash",
		Description:     "Cryptographic hash used for whitening. Disabling it degrades whitening to passthrough.",
		OptType:         config.OptTypeString,
		DefaultValue:    "sha256",
		ValidationRegex: "^(sha256|sha1|off)$",
	})
	if err != nil {
		return err
	}
	hashOption = config.GetAsString("harvester.hash", "sha256")

	err = config.Register(&config.Option{
		Name:            "Whitening Cipher",
		Key:             "harvester.cipher",
		Description:     "Block cipher for the keyed-stream whitening stage. Disabling it degrades whitening to the plain digest.",
		OptType:         config.OptTypeString,
		DefaultValue:    "aes",
		ValidationRegex: "^(aes|serpent|off)$",
	})
	if err != nil {
		return err
	}
	cipherOption = config.GetAsString("harvester.cipher", "aes")

	return nil
}

func start() error {
	// the CLI layer overrides config file values
	if err := applyFlags(); err != nil {
		return err
	}

	settings := Settings{
		ByteCount:     int(byteCountOption()),
		TimeBudget:    time.Duration(timeBudgetOption()) * time.Second,
		FixedInterval: time.Duration(intervalOption()) * time.Microsecond,
		Debias:        debiasOption(),
		HashName:      hashOption(),
		CipherName:    cipherOption(),
	}

	c, err := newCollector(settings, os.Stdout)
	if err != nil {
		return err
	}
	c.sinks = collectSinks()

	module.StartWorker("entropy collection", func(ctx context.Context) error {
		// let remaining modules come up before timing gets hot
		select {
		case <-modules.WaitForStartCompletion():
		case <-ctx.Done():
		}

		err := c.run(ctx)
		if err != nil {
			modules.SetExitStatusCode(1)
		}

		// the run is over, take the whole program down
		go func() {
			_ = modules.Shutdown()
		}()
		return err
	})

	return nil
}

// RegisterSink registers a consumer that receives a copy of every whitened
// output chunk in addition to the primary output stream. Must be called
// before the harvester module starts.
func RegisterSink(fn func([]byte)) {
	sinksLock.Lock()
	defer sinksLock.Unlock()
	sinks = append(sinks, fn)
}

func collectSinks() []func([]byte) {
	sinksLock.Lock()
	defer sinksLock.Unlock()
	return sinks
}
