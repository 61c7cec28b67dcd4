package config

import (
	"github.com/tidwall/gjson"

	"github.com/tickseed/tickseed/log"
)

type (
	// StringOption defines the returned function by GetAsString.
	StringOption func() string
	// IntOption defines the returned function by GetAsInt.
	IntOption func() int64
	// BoolOption defines the returned function by GetAsBool.
	BoolOption func() bool
)

// GetAsString returns a function that returns the wanted string with high performance.
func GetAsString(key string, fallback string) StringOption {
	valid := getValidityFlag()
	value := findStringValue(key, fallback)
	return func() string {
		if !valid.IsSet() {
			valid = getValidityFlag()
			value = findStringValue(key, fallback)
		}
		return value
	}
}

// GetAsInt returns a function that returns the wanted int with high performance.
func GetAsInt(key string, fallback int64) IntOption {
	valid := getValidityFlag()
	value := findIntValue(key, fallback)
	return func() int64 {
		if !valid.IsSet() {
			valid = getValidityFlag()
			value = findIntValue(key, fallback)
		}
		return value
	}
}

// GetAsBool returns a function that returns the wanted bool with high performance.
func GetAsBool(key string, fallback bool) BoolOption {
	valid := getValidityFlag()
	value := findBoolValue(key, fallback)
	return func() bool {
		if !valid.IsSet() {
			valid = getValidityFlag()
			value = findBoolValue(key, fallback)
		}
		return value
	}
}

// lookupValue returns the layered value, falling back to the registered
// default value when the layers do not hold the key.
func lookupValue(key string) (result gjson.Result, registeredDefault interface{}) {
	result = findValue(key)

	option, err := GetOption(key)
	if err != nil {
		log.Errorf("config: request for unregistered option: %s", key)
		return result, nil
	}
	return result, option.DefaultValue
}

func findStringValue(key string, fallback string) (value string) {
	result, registeredDefault := lookupValue(key)
	if result.Exists() && result.Type == gjson.String {
		return result.String()
	}
	if v, ok := registeredDefault.(string); ok {
		return v
	}
	return fallback
}

func findIntValue(key string, fallback int64) (value int64) {
	result, registeredDefault := lookupValue(key)
	if result.Exists() && result.Type == gjson.Number {
		return result.Int()
	}
	switch v := registeredDefault.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	}
	return fallback
}

func findBoolValue(key string, fallback bool) (value bool) {
	result, registeredDefault := lookupValue(key)
	if result.Exists() && (result.Type == gjson.True || result.Type == gjson.False) {
		return result.Bool()
	}
	if v, ok := registeredDefault.(bool); ok {
		return v
	}
	return fallback
}
