package config

import (
	"errors"
	"fmt"
	"math"
)

var errInvalidValue = errors.New("config: invalid option value")

// validateValue ensures that the value is of the option's type and matches
// the option's validation regex, if set.
func validateValue(option *Option, value interface{}) error {
	var stringified string

	switch v := value.(type) {
	case string:
		if option.OptType != OptTypeString {
			return fmt.Errorf("%w: expected type %d for option %s, got string", errInvalidValue, option.OptType, option.Key)
		}
		stringified = v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		if option.OptType != OptTypeInt {
			return fmt.Errorf("%w: expected type %d for option %s, got int", errInvalidValue, option.OptType, option.Key)
		}
		stringified = fmt.Sprintf("%d", v)
	case uint64:
		if option.OptType != OptTypeInt {
			return fmt.Errorf("%w: expected type %d for option %s, got int", errInvalidValue, option.OptType, option.Key)
		}
		if v > math.MaxInt64 {
			return fmt.Errorf("%w: option %s out of int64 range", errInvalidValue, option.Key)
		}
		stringified = fmt.Sprintf("%d", v)
	case float64:
		// json numbers decode as float64
		if option.OptType != OptTypeInt {
			return fmt.Errorf("%w: expected type %d for option %s, got number", errInvalidValue, option.OptType, option.Key)
		}
		if v != math.Trunc(v) {
			return fmt.Errorf("%w: option %s must be a whole number", errInvalidValue, option.Key)
		}
		stringified = fmt.Sprintf("%d", int64(v))
	case bool:
		if option.OptType != OptTypeBool {
			return fmt.Errorf("%w: expected type %d for option %s, got bool", errInvalidValue, option.OptType, option.Key)
		}
		if v {
			stringified = "true"
		} else {
			stringified = "false"
		}
	default:
		return fmt.Errorf("%w: unsupported value type for option %s", errInvalidValue, option.Key)
	}

	if option.compiledRegex != nil && !option.compiledRegex.MatchString(stringified) {
		return fmt.Errorf("%w: %q does not match validation regex of option %s", errInvalidValue, stringified, option.Key)
	}

	return nil
}
