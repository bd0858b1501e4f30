// Package voicefile loads and saves ptvoice files on disk.
//
// Loads are buffered; saves are encoded in memory and replace the target
// atomically so a failed encode never leaves a truncated file behind. Every
// load and save is logged and recorded in the codec metrics.
package voicefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/youtube/vitess/go/ioutil2"

	"github.com/danmuck/ptvoice/internal/observability"
	"github.com/danmuck/ptvoice/internal/protocol"
	"github.com/danmuck/ptvoice/internal/voicetext"
)

const filePerm = 0o644

// Loaded is a decoded voice file.
type Loaded struct {
	Voice  *protocol.Voice
	Header protocol.Header
	// Size is the number of bytes the decoder consumed.
	Size int64
}

// BodyLen is the actual length of the data following the header, for
// comparison with Header.DataLen.
func (l Loaded) BodyLen() int64 {
	return l.Size - headerSize
}

const headerSize = 16

// Load decodes the ptvoice block at the start of path.
func Load(path string) (Loaded, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("voicefile: open %s: %w", path, err)
	}
	defer f.Close()

	cr := &countingReader{r: bufio.NewReader(f)}
	voice, head, err := protocol.DecodeWithHeader(cr)
	kind := protocol.Kind(err)
	units := 0
	if voice != nil {
		units = len(voice.Units)
	}
	observability.RecordCodec(observability.OpDecode, kind, cr.n, units, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("path", path).Str("kind", kind).Msg("voice load failed")
		return Loaded{}, fmt.Errorf("voicefile: decode %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int32("version", head.Version).
		Int32("data_len", head.DataLen).
		Int64("bytes", cr.n).
		Int("units", units).
		Dur("duration", time.Since(start)).
		Msg("voice loaded")
	return Loaded{Voice: voice, Header: head, Size: cr.n}, nil
}

// Save encodes v and atomically replaces path with it.
func Save(path string, v *protocol.Voice) (int64, error) {
	start := time.Now()
	data, err := protocol.Marshal(v)
	kind := protocol.Kind(err)
	units := 0
	if v != nil {
		units = len(v.Units)
	}
	observability.RecordCodec(observability.OpEncode, kind, int64(len(data)), units, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("path", path).Str("kind", kind).Msg("voice encode failed")
		return 0, fmt.Errorf("voicefile: encode %s: %w", path, err)
	}
	if err := ioutil2.WriteFileAtomic(path, data, filePerm); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("voice write failed")
		return 0, fmt.Errorf("voicefile: write %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Int("units", units).
		Dur("duration", time.Since(start)).
		Msg("voice saved")
	return int64(len(data)), nil
}

// LoadText parses a TOML voice document.
func LoadText(path string) (*protocol.Voice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("voicefile: open %s: %w", path, err)
	}
	defer f.Close()

	v, err := voicetext.Decode(bufio.NewReader(f))
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("voice text load failed")
		return nil, fmt.Errorf("voicefile: parse %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("units", len(v.Units)).Msg("voice text loaded")
	return v, nil
}

// SaveText writes v as a TOML voice document, replacing path atomically.
func SaveText(path string, v *protocol.Voice) error {
	data, err := voicetext.Marshal(v)
	if err != nil {
		return fmt.Errorf("voicefile: render %s: %w", path, err)
	}
	if err := ioutil2.WriteFileAtomic(path, data, filePerm); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("voice text write failed")
		return fmt.Errorf("voicefile: write %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("voice text saved")
	return nil
}

// countingReader tracks consumed bytes while keeping the byte-at-a-time path
// of the wrapped reader available to the var-int decoder.
type countingReader struct {
	r *bufio.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}

var _ io.ByteReader = (*countingReader)(nil)
