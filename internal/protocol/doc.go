// Package protocol owns the ptvoice wire contract and its in-memory model.
//
// Ownership boundary:
// - voice container: signature/version gate, length backpatch, unit list
// - unit, waveform, and envelope sub-blocks
// - error taxonomy and semantic lint
//
// Primitive encodings live in the scalar (fixed-width little-endian) and
// varint (32-bit unsigned LEB128) subpackages.
//
// Decoding needs only an io.Reader. Encoding needs an io.WriteSeeker because
// the data length field precedes the data it measures; EncodeBuffered covers
// append-only sinks. Callers should buffer file streams themselves.
package protocol
