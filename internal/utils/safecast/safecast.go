// Package safecast implements functions to safely cast loosely typed values to avoid panics
package safecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Float64ToUint64 safely converts a float64 to uint64 using cast and checks for overflow
func Float64ToUint64(value float64) (uint64, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %g is negative, cannot convert to uint64", value)
	}

	if value > math.MaxUint64 {
		return 0, fmt.Errorf("value %g exceeds uint64 range", value)
	}

	if value != math.Trunc(value) {
		return 0, fmt.Errorf("value %g has fractional part, cannot convert to uint64", value)
	}

	return cast.ToUint64E(value)
}

// AnyToUint64 converts a decoded JSON value that may be a number or a numeric string.
func AnyToUint64(value any) (uint64, error) {
	switch v := value.(type) {
	case nil:
		return 0, errors.New("value is missing")
	case float64:
		return Float64ToUint64(v)
	case json.Number:
		return AnyToUint64(v.String())
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, errors.New("value is empty")
		}
		if strings.HasPrefix(s, "-") {
			return 0, fmt.Errorf("value %s is negative, cannot convert to uint64", s)
		}

		// cast reads a leading 0 as octal; relayer nonces are always base 10.
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not a decimal integer: %w", s, err)
		}

		return n, nil
	default:
		return cast.ToUint64E(v)
	}
}
