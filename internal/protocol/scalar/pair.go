package scalar

import "io"

// Reader decodes one value of type T from a stream.
type Reader[T any] func(io.Reader) (T, error)

// Writer encodes one value of type T and returns the offset where writing
// began.
type Writer[T any] func(io.WriteSeeker, T) (int64, error)

// ReadPair decodes x fully, then y.
func ReadPair[X, Y any](r io.Reader, readX Reader[X], readY Reader[Y]) (X, Y, error) {
	var y Y
	x, err := readX(r)
	if err != nil {
		return x, y, err
	}
	y, err = readY(r)
	if err != nil {
		return x, y, err
	}
	return x, y, nil
}

// WritePair encodes x fully, then y. The returned offset is where x began.
func WritePair[X, Y any](w io.WriteSeeker, x X, y Y, writeX Writer[X], writeY Writer[Y]) (int64, error) {
	start, err := writeX(w, x)
	if err != nil {
		return 0, err
	}
	if _, err := writeY(w, y); err != nil {
		return 0, err
	}
	return start, nil
}

// ReadFixedPair decodes two fixed-width values in order.
func ReadFixedPair[X, Y Fixed](r io.Reader) (X, Y, error) {
	return ReadPair[X, Y](r, Read[X], Read[Y])
}

// WriteFixedPair encodes two fixed-width values in order.
func WriteFixedPair[X, Y Fixed](w io.WriteSeeker, x X, y Y) (int64, error) {
	return WritePair[X, Y](w, x, y, Write[X], Write[Y])
}
