package lifecycle

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sentiview/pkg/types"
)

// Transport sends text to the classification service.
type Transport interface {
	Predict(ctx context.Context, text string) (types.RawResponse, error)
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Status Status
	Input  string
	Result types.PredictionSet
	Err    error
}

// State converts the snapshot to its JSON view.
func (s Snapshot) State() types.StateResponse {
	out := types.StateResponse{Status: s.Status.String(), Input: s.Input}
	if len(s.Result) > 0 {
		out.Predictions = s.Result.Sorted()
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}

// Controller owns the input text, the request status and the last result.
type Controller struct {
	transport Transport
	labels    LabelTable
	timeout   time.Duration
	pub       EventPublisher
	log       zerolog.Logger

	mu     sync.Mutex
	status Status
	input  string
	result types.PredictionSet
	err    error
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLabels replaces the label table.
func WithLabels(t LabelTable) Option {
	return func(c *Controller) {
		if t != nil {
			c.labels = t
		}
	}
}

// WithTimeout bounds each Submit's transport call. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d < 0 {
			d = 0
		}
		c.timeout = d
	}
}

// WithPublisher installs an event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(c *Controller) {
		if p != nil {
			c.pub = p
		}
	}
}

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New returns an Idle controller using t as transport.
func New(t Transport, opts ...Option) *Controller {
	c := &Controller{
		transport: t,
		labels:    DefaultLabels(),
		pub:       noopPublisher{},
		log:       zerolog.Nop(),
		status:    Idle,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// setStatus must be called with c.mu held.
func (c *Controller) setStatus(to Status) {
	from := c.status
	if from == to {
		return
	}
	c.status = to
	c.pub.Publish(Event{Name: "transition", From: from, To: to})
	c.log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("transition")
}

// SetInput replaces the input text. A stale result is cleared and the
// controller returns to Idle; an error stays until DismissError.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
	if c.status == Succeeded {
		c.result = nil
		c.setStatus(Idle)
	}
}

// Submit classifies the current input and blocks until the request ends.
// It returns false without calling the transport when the input is blank or
// a request is already in flight.
func (c *Controller) Submit(ctx context.Context) bool {
	text, ok := c.begin()
	if !ok {
		return false
	}
	c.run(ctx, text)
	return true
}

// SubmitAsync is Submit without blocking: the controller is already Loading
// when it returns and the returned channel closes once the request ends.
func (c *Controller) SubmitAsync(ctx context.Context) (<-chan struct{}, bool) {
	text, ok := c.begin()
	if !ok {
		return nil, false
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(ctx, text)
	}()
	return done, true
}

// begin checks the preconditions and moves to Loading.
func (c *Controller) begin() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == Loading || strings.TrimSpace(c.input) == "" {
		return "", false
	}
	c.result = nil
	c.err = nil
	c.setStatus(Loading)
	return c.input, true
}

func (c *Controller) run(ctx context.Context, text string) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()
	set, err := c.classify(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = ""
	if err != nil {
		c.err = err
		c.setStatus(Failed)
		c.log.Info().Err(err).Dur("dur", time.Since(start)).Msg("submit failed")
		return
	}
	c.result = set
	c.setStatus(Succeeded)
	c.log.Info().Int("models", len(set)).Dur("dur", time.Since(start)).Msg("submit ok")
}

func (c *Controller) classify(ctx context.Context, text string) (types.PredictionSet, error) {
	raw, err := c.transport.Predict(ctx, text)
	if err != nil {
		return nil, err
	}
	return Transform(raw, c.labels)
}

// DismissError moves Failed back to Idle. It is a no-op from other states.
func (c *Controller) DismissError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != Failed {
		return false
	}
	c.err = nil
	c.setStatus(Idle)
	return true
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{Status: c.status, Input: c.input, Err: c.err}
	if c.result != nil {
		s.Result = make(types.PredictionSet, len(c.result))
		for k, v := range c.result {
			s.Result[k] = v
		}
	}
	return s
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
