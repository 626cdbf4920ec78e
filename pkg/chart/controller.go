package chart

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/observability"
	"github.com/matzehuels/streamstack/pkg/series"
)

// Controller holds the chart state for one dataset and applies mode
// transitions one at a time. It is safe for concurrent use; readers get
// snapshots and never observe a transition in progress.
type Controller struct {
	mu     sync.Mutex
	ds     *series.Dataset
	state  State
	logger *log.Logger
}

// ControllerOption configures a [Controller].
type ControllerOption func(*Controller)

// WithLogger sets the logger used for transition debug output.
func WithLogger(l *log.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController sets up ds for charting. No mode is drawn until the first
// transition; call [Controller.Start] to draw the default streamgraph.
func NewController(ds *series.Dataset, opts Options, copts ...ControllerOption) (*Controller, error) {
	st, err := Setup(ds, opts)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		ds:     ds,
		state:  st,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range copts {
		opt(c)
	}
	return c, nil
}

// Start transitions to the initial streamgraph.
func (c *Controller) Start(ctx context.Context) (Frame, error) {
	f, _, err := c.TransitionTo(ctx, Streamgraph)
	return f, err
}

// TransitionTo switches to mode m. It reports changed=false, with an empty
// frame, when m is already shown. A mode outside [Modes] is UNKNOWN_MODE
// and leaves the state unchanged.
func (c *Controller) TransitionTo(ctx context.Context, m Mode) (Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, false, err
	}
	if !m.Valid() {
		return Frame{}, false, errors.New(errors.ErrCodeUnknownMode, "unknown chart mode %v", m)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.state.Mode
	if from == m {
		observability.Chart().OnTransitionSkipped(ctx, m.String())
		c.logger.Debug("transition skipped", "mode", m)
		return Frame{}, false, nil
	}

	hooks := observability.Chart()
	hooks.OnTransitionStart(ctx, from.String(), m.String())
	start := time.Now()

	frame, next, changed, err := Transition(c.ds, c.state, m)
	hooks.OnTransitionComplete(ctx, from.String(), m.String(), len(frame.Series), time.Since(start), err)
	if err != nil {
		return Frame{}, false, err
	}

	c.state = next
	c.logger.Debug("transition",
		"from", from,
		"to", m,
		"id", frame.ID,
		"domain", next.Scale.Max)
	return frame, changed, nil
}

// Trigger parses name as a mode trigger and transitions to it.
func (c *Controller) Trigger(ctx context.Context, name string) (Frame, bool, error) {
	m, err := ParseMode(name)
	if err != nil {
		return Frame{}, false, err
	}
	return c.TransitionTo(ctx, m)
}

// Mode returns the mode currently shown.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Mode
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Dataset returns the dataset being charted.
func (c *Controller) Dataset() *series.Dataset { return c.ds }
