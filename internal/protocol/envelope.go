package protocol

import (
	"io"

	"github.com/danmuck/ptvoice/internal/protocol/varint"
	"github.com/danmuck/ptvoice/internal/value"
)

// The envelope once planned separate sustain and release lists. Only the
// counts survive on the wire and they are always (0, 1).
const (
	envelopeSustainCount int32 = 0
	envelopeReleaseCount int32 = 1
)

// DecodeEnvelope reads one envelope block, integrating point deltas into
// absolute positions.
func DecodeEnvelope(r io.Reader) (*Envelope, error) {
	tps, err := varint.Read[int32](r)
	if err != nil {
		return nil, ioFailure("read envelope tick rate", err)
	}
	n, err := readCount(r, "envelope point")
	if err != nil {
		return nil, err
	}
	sustain, release, err := varint.ReadPair[int32, int32](r)
	if err != nil {
		return nil, ioFailure("read envelope legacy counts", err)
	}
	if sustain != envelopeSustainCount || release != envelopeReleaseCount {
		return nil, invalid("envelope legacy counts (%d, %d)", sustain, release)
	}

	var points []EnvelopePoint
	var x int32
	for i := 0; i < n; i++ {
		dx, y, err := varint.ReadPair[int32, int32](r)
		if err != nil {
			return nil, ioFailure("read envelope point", err)
		}
		x += dx
		points = append(points, EnvelopePoint{X: x, Y: y})
	}

	// pxtone hardcodes the release y to 0; whatever is stored is ignored.
	releaseTicks, _, err := varint.ReadPair[int32, int32](r)
	if err != nil {
		return nil, ioFailure("read envelope release", err)
	}

	return &Envelope{
		Points:         points,
		Release:        releaseTicks,
		TicksPerSecond: tps,
	}, nil
}

// EncodeEnvelope writes env with x positions as deltas and returns the
// offset where writing began.
func EncodeEnvelope(w io.WriteSeeker, env *Envelope) (int64, error) {
	if env == nil {
		return 0, invalid("nil envelope")
	}
	count, ok := value.Len32(len(env.Points))
	if !ok {
		return 0, overMax("envelope point", len(env.Points))
	}
	start, err := varint.WritePair(w, env.TicksPerSecond, count)
	if err != nil {
		return 0, ioFailure("write envelope header", err)
	}
	if _, err := varint.WritePair(w, envelopeSustainCount, envelopeReleaseCount); err != nil {
		return 0, ioFailure("write envelope legacy counts", err)
	}
	var prev int32
	for _, p := range env.Points {
		if _, err := varint.WritePair(w, p.X-prev, p.Y); err != nil {
			return 0, ioFailure("write envelope point", err)
		}
		prev = p.X
	}
	if _, err := varint.WritePair(w, env.Release, int32(0)); err != nil {
		return 0, ioFailure("write envelope release", err)
	}
	return start, nil
}

// Duration returns the time from note-on to the last point in seconds, or 0
// when the tick rate is not positive.
func (e *Envelope) Duration() float64 {
	if e.TicksPerSecond <= 0 || len(e.Points) == 0 {
		return 0
	}
	return float64(e.Points[len(e.Points)-1].X) / float64(e.TicksPerSecond)
}
