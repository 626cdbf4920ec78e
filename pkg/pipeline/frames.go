package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/series"
)

// Frames drives a fresh controller for ds through modes in order and
// returns one frame per mode change. Repeating the current mode yields
// no frame.
func Frames(ctx context.Context, ds *series.Dataset, copts chart.Options, modes []chart.Mode, logger *log.Logger) ([]chart.Frame, error) {
	ctrl, err := chart.NewController(ds, copts, chart.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	frames := make([]chart.Frame, 0, len(modes))
	for _, m := range modes {
		f, changed, err := ctrl.TransitionTo(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("transition to %s: %w", m, err)
		}
		if changed {
			frames = append(frames, f)
		}
	}
	return frames, nil
}
