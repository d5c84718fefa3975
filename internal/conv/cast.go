package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow reports a value that does not fit its destination type.
var ErrOverflow = errors.New("integer overflow")

func overflow(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrOverflow}, args...)...)
}

// IntToUint32 narrows a non-negative int to uint32.
func IntToUint32(v int) (uint32, error) {
	switch {
	case v < 0:
		return 0, overflow("%d is negative", v)
	case uint64(v) > math.MaxUint32:
		return 0, overflow("%d does not fit in uint32", v)
	}
	return uint32(v), nil
}

// Int64ToInt narrows v to the platform int.
func Int64ToInt(v int64) (int, error) {
	if v > math.MaxInt || v < math.MinInt {
		return 0, overflow("%d does not fit in int", v)
	}
	return int(v), nil
}

// MulInt64 returns a*b for non-negative operands.
func MulInt64(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, overflow("%d * %d has a negative operand", a, b)
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, overflow("%d * %d exceeds int64", a, b)
	}
	return a * b, nil
}
