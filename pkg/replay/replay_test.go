package replay

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-sweep/pkg/collision"
	"github.com/opd-ai/go-sweep/pkg/config"
	"github.com/opd-ai/go-sweep/pkg/kinematics"
	"github.com/opd-ai/go-sweep/pkg/physics"
)

func testWorld() []kinematics.Body {
	wall := kinematics.NewBox(10, physics.Vector2D{X: 4, Y: 40}, physics.Vector2D{X: 30, Y: 0}, physics.Zero)
	wall.Layer = kinematics.FlagA | kinematics.FlagC
	return []kinematics.Body{
		kinematics.NewPoint(1, physics.Vector2D{X: 0, Y: 0}, physics.Vector2D{X: 6, Y: 1}),
		kinematics.NewPoint(2, physics.Vector2D{X: 0, Y: 5}, physics.Vector2D{X: 7, Y: -1}),
		kinematics.NewBox(3, physics.Vector2D{X: 4, Y: 4}, physics.Vector2D{X: 5, Y: -10}, physics.Vector2D{X: 5, Y: 0}),
		wall,
	}
}

// record runs a few steps of testWorld and returns the encoded stream
func record(t *testing.T, cfg *config.Config, steps int) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	rec, err := NewRecorder(&buf, cfg)
	require.NoError(t, err)

	detector := collision.NewDetector(cfg)
	store := collision.SliceStore(testWorld())
	requested := make(map[kinematics.ID]physics.Vector2D)
	for _, b := range store {
		requested[b.ID] = b.Motion
	}

	for tick := 0; tick < steps; tick++ {
		for i := range store {
			store[i].Motion = requested[store[i].ID]
		}
		snapshot := append([]kinematics.Body(nil), store...)
		res, err := detector.Detect(context.Background(), snapshot)
		require.NoError(t, err)
		require.NoError(t, rec.Record(uint64(tick), "step", snapshot, res))
		collision.ApplyMotion(store, res)
	}

	require.Equal(t, steps, rec.Frames())
	require.NoError(t, rec.Close())
	return &buf
}

func TestBodyStateRestoresBody(t *testing.T) {
	for _, b := range testWorld() {
		require.Equal(t, b, NewBodyState(b).Body())
	}
}

func TestRecordAndRead(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ChunkSize = 32
	cfg.FilterLayers = true

	buf := record(t, cfg, 5)

	r, err := NewReader(buf)
	require.NoError(t, err)
	require.Equal(t, Header{Version: FormatVersion, ChunkSize: 32, FilterLayers: true}, r.Header())
	require.Equal(t, 32.0, r.Config().ChunkSize)
	require.True(t, r.Config().FilterLayers)

	first, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, uint64(0), first.Tick)
	require.Equal(t, "step", first.StepID)
	require.Equal(t, testWorld(), first.Snapshot())
	require.Len(t, first.Resolutions, 3)

	frames := 1
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		frames++
	}
	require.Equal(t, 5, frames)
}

func TestVerifyRecordedRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ChunkSize = 32

	r, err := NewReader(record(t, cfg, 8))
	require.NoError(t, err)

	checked, err := Verify(context.Background(), r, nil)
	require.NoError(t, err)
	require.Equal(t, 8, checked)
}

func TestVerifyDetectsTamperedFrame(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ChunkSize = 32

	var buf bytes.Buffer
	rec, err := NewRecorder(&buf, cfg)
	require.NoError(t, err)

	bodies := testWorld()
	res, err := collision.NewDetector(cfg).Detect(context.Background(), bodies)
	require.NoError(t, err)
	require.NoError(t, rec.Record(0, "ok", bodies, res))

	res[0].Motion = res[0].Motion.Scale(2)
	require.NoError(t, rec.Record(1, "bad", bodies, res))
	require.NoError(t, rec.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)

	checked, err := Verify(context.Background(), r, nil)
	require.ErrorIs(t, err, ErrMismatch)
	require.Equal(t, 1, checked)
}

func TestReaderRejectsUnknownVersion(t *testing.T) {
	data, err := msgpack.Marshal(&Header{Version: FormatVersion + 1, ChunkSize: 1})
	require.NoError(t, err)

	_, err = NewReader(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestCreateAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.replay")
	cfg := config.DefaultConfig()
	cfg.ChunkSize = 16

	rec, err := Create(path, cfg)
	require.NoError(t, err)
	bodies := testWorld()
	res, err := collision.NewDetector(cfg).Detect(context.Background(), bodies)
	require.NoError(t, err)
	require.NoError(t, rec.Record(3, "file", bodies, res))
	require.NoError(t, rec.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	frame, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, uint64(3), frame.Tick)

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}
