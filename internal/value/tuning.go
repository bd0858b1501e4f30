package value

// Tuning multiplies a unit's pitch. Negative values crash pxtone.
type Tuning float32

const TuningNone Tuning = 1
