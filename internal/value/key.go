// Package value holds the pxtone quantity types carried by ptvoice units.
//
// Each type is a plain 32-bit scalar on the wire; the methods here only
// convert between units.
package value

import "math"

// Key expresses pitch in 1/256 semitone steps above A(-4) (~1.72 Hz).
type Key int32

const (
	// KeyA4 is the 440 Hz tone, 96 semitones above A(-4).
	KeyA4 Key = 96 * 256
	// KeyC4 is middle C.
	KeyC4 Key = 87 * 256
	// KeyA6 is two octaves above A4.
	KeyA6 Key = 120 * 256

	stepsPerSemitone = 256
	hertzA4          = 440.0
)

// KeyFromA4Offset converts from a key relative to A4.
func KeyFromA4Offset(offset int32) Key {
	return KeyA4 + Key(offset)
}

// KeyFromSemis approximates a key from semitones above A(-4).
func KeyFromSemis(semis float32) Key {
	return Key(int32(semis * stepsPerSemitone))
}

// KeyFromA4Semis approximates a key from semitones relative to A4.
func KeyFromA4Semis(semis float32) Key {
	return KeyFromSemis(KeyA4.Semis() + semis)
}

// KeyFromHertz approximates a key from a frequency.
func KeyFromHertz(hz float32) Key {
	return KeyFromA4Semis(float32(math.Log2(float64(hz)/hertzA4) * 12))
}

// A4Offset returns the key relative to A4.
func (k Key) A4Offset() int32 {
	return int32(k - KeyA4)
}

// Semis returns semitones above A(-4).
func (k Key) Semis() float32 {
	return float32(k) / stepsPerSemitone
}

// A4Semis returns semitones relative to A4.
func (k Key) A4Semis() float32 {
	return float32(k.A4Offset()) / stepsPerSemitone
}

// Hertz returns the key's frequency.
func (k Key) Hertz() float32 {
	return float32(math.Exp2(float64(k.A4Semis())/12) * hertzA4)
}
