package config

import (
	"sync"

	"github.com/tidwall/sjson"

	"github.com/tevino/abool"
)

var (
	validityFlag     = abool.NewBool(true)
	validityFlagLock sync.RWMutex
)

// getValidityFlag returns a flag that signifies if the configuration has been changed. This flag must not be changed, only read.
func getValidityFlag() *abool.AtomicBool {
	validityFlagLock.RLock()
	defer validityFlagLock.RUnlock()
	return validityFlag
}

// resetValidityFlag marks all issued getter closures as stale.
// Must only be called while configLock is held.
func resetValidityFlag() {
	validityFlagLock.Lock()
	validityFlag.SetTo(false)
	validityFlag = abool.NewBool(true)
	validityFlagLock.Unlock()
}

// SetConfigOption sets a single value in the (prioritized) user defined config.
func SetConfigOption(key string, value interface{}) error {
	option, err := GetOption(key)
	if err != nil {
		return err
	}
	if err := validateValue(option, value); err != nil {
		return err
	}

	configLock.Lock()
	defer configLock.Unlock()

	newConfig, err := sjson.Set(userConfig, key, value)
	if err != nil {
		return err
	}
	userConfig = newConfig
	resetValidityFlag()

	return nil
}

// SetDefaultConfigOption sets a single value in the (fallback) default config.
func SetDefaultConfigOption(key string, value interface{}) error {
	option, err := GetOption(key)
	if err != nil {
		return err
	}
	if err := validateValue(option, value); err != nil {
		return err
	}

	configLock.Lock()
	defer configLock.Unlock()

	newConfig, err := sjson.Set(defaultConfig, key, value)
	if err != nil {
		return err
	}
	defaultConfig = newConfig
	resetValidityFlag()

	return nil
}
