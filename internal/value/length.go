package value

import "math"

// MaxLen is the longest list the format can encode: counts are int32.
const MaxLen = math.MaxInt32

// Len32 converts a collection length to its wire count.
func Len32(n int) (int32, bool) {
	if n < 0 || n > MaxLen {
		return 0, false
	}
	return int32(n), true
}

// LenFrom32 converts a wire count to a collection length.
func LenFrom32(n int32) (int, bool) {
	if n < 0 {
		return 0, false
	}
	return int(n), true
}
