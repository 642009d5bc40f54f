// pkg/replay/recorder.go
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-sweep/pkg/collision"
	"github.com/opd-ai/go-sweep/pkg/config"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
)

// ErrUnsupportedVersion is returned for streams written by a different
// frame layout
var ErrUnsupportedVersion = errors.New("unsupported replay version")

// Recorder appends frames to a stream
type Recorder struct {
	buf    *bufio.Writer
	enc    *msgpack.Encoder
	closer io.Closer
	frames int
}

// NewRecorder writes the header for cfg and returns a recorder on w
func NewRecorder(w io.Writer, cfg *config.Config) (*Recorder, error) {
	buf := bufio.NewWriter(w)
	r := &Recorder{
		buf: buf,
		enc: msgpack.NewEncoder(buf),
	}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}

	header := Header{
		Version:      FormatVersion,
		ChunkSize:    cfg.ChunkSize,
		FilterLayers: cfg.FilterLayers,
	}
	if err := r.enc.Encode(&header); err != nil {
		return nil, fmt.Errorf("failed to write replay header: %w", err)
	}
	return r, nil
}

// Create opens path for writing and returns a recorder on it
func Create(path string, cfg *config.Config) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay file: %w", err)
	}
	r, err := NewRecorder(file, cfg)
	if err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

// Record appends one step
func (r *Recorder) Record(tick uint64, stepID string, bodies []kinematics.Body, resolutions []collision.Resolution) error {
	frame := NewFrame(tick, stepID, bodies, resolutions)
	if err := r.enc.Encode(&frame); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", tick, err)
	}
	r.frames++
	return nil
}

// Frames returns how many frames were recorded
func (r *Recorder) Frames() int {
	return r.frames
}

// Flush writes buffered frames to the underlying writer
func (r *Recorder) Flush() error {
	return r.buf.Flush()
}

// Close flushes and closes the underlying writer when it is closable
func (r *Recorder) Close() error {
	if err := r.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Reader decodes frames from a stream
type Reader struct {
	dec    *msgpack.Decoder
	header Header
	closer io.Closer
}

// NewReader reads and checks the header
func NewReader(rd io.Reader) (*Reader, error) {
	r := &Reader{dec: msgpack.NewDecoder(bufio.NewReader(rd))}
	if c, ok := rd.(io.Closer); ok {
		r.closer = c
	}

	if err := r.dec.Decode(&r.header); err != nil {
		return nil, fmt.Errorf("failed to read replay header: %w", err)
	}
	if r.header.Version != FormatVersion {
		return nil, fmt.Errorf("version %d: %w", r.header.Version, ErrUnsupportedVersion)
	}
	return r, nil
}

// Open opens a replay file
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file: %w", err)
	}
	r, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

// Header returns the stream header
func (r *Reader) Header() Header {
	return r.header
}

// Config returns a configuration matching the recorded detection settings
func (r *Reader) Config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ChunkSize = r.header.ChunkSize
	cfg.FilterLayers = r.header.FilterLayers
	return cfg
}

// Next returns the next frame, or io.EOF after the last one
func (r *Reader) Next() (Frame, error) {
	var frame Frame
	if err := r.dec.Decode(&frame); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("failed to read frame: %w", err)
	}
	return frame, nil
}

// Close closes the underlying reader when it is closable
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
