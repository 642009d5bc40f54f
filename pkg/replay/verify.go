// pkg/replay/verify.go
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/opd-ai/go-sweep/pkg/collision"
	"github.com/opd-ai/go-sweep/pkg/logging"
)

// ErrMismatch is returned when re-running detection on a recorded snapshot
// does not reproduce the recorded resolutions
var ErrMismatch = errors.New("replay mismatch")

// Verify re-runs detection on every frame of r and compares the results
// with what was recorded. It returns the number of frames checked.
func Verify(ctx context.Context, r *Reader, logger *logging.Logger) (int, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	detector := collision.NewDetector(r.Config(), collision.WithLogger(logger))

	checked := 0
	for {
		if err := ctx.Err(); err != nil {
			return checked, err
		}

		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			return checked, nil
		}
		if err != nil {
			return checked, err
		}

		stepCtx := logging.WithStepID(ctx, frame.StepID)
		got, err := detector.Detect(stepCtx, frame.Snapshot())
		if err != nil {
			return checked, fmt.Errorf("frame %d: %w", frame.Tick, err)
		}
		if err := compare(frame, got); err != nil {
			logger.Error(stepCtx, "replay diverged", err, "tick", frame.Tick)
			return checked, err
		}
		checked++
	}
}

func compare(frame Frame, got []collision.Resolution) error {
	if len(got) != len(frame.Resolutions) {
		return fmt.Errorf("frame %d: %d resolutions, recorded %d: %w",
			frame.Tick, len(got), len(frame.Resolutions), ErrMismatch)
	}
	for i, r := range got {
		if want := frame.Resolutions[i]; NewResolutionState(r) != want {
			return fmt.Errorf("frame %d body %d: got %+v, recorded %+v: %w",
				frame.Tick, r.ID, NewResolutionState(r), want, ErrMismatch)
		}
	}
	return nil
}
