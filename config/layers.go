package config

import (
	"errors"
	"sync"

	"github.com/tidwall/gjson"
)

var (
	configLock sync.RWMutex

	userConfig    = ""
	defaultConfig = ""

	// ErrInvalidJSON is returned by SetConfig and SetDefaultConfig if they receive invalid json.
	ErrInvalidJSON = errors.New("config: invalid json")
)

// SetConfig sets the (prioritized) user defined config.
func SetConfig(json string) error {
	if !gjson.Valid(json) {
		return ErrInvalidJSON
	}

	configLock.Lock()
	defer configLock.Unlock()
	userConfig = json
	resetValidityFlag()

	return nil
}

// SetDefaultConfig sets the (fallback) default config.
func SetDefaultConfig(json string) error {
	if !gjson.Valid(json) {
		return ErrInvalidJSON
	}

	configLock.Lock()
	defer configLock.Unlock()
	defaultConfig = json
	resetValidityFlag()

	return nil
}

// findValue finds the correct value in the user or default config layer.
func findValue(key string) (result gjson.Result) {
	configLock.RLock()
	defer configLock.RUnlock()

	result = gjson.Get(userConfig, key)
	if !result.Exists() {
		result = gjson.Get(defaultConfig, key)
	}
	return result
}
