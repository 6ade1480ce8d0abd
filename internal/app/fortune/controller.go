// Package fortune owns the fortune retrieval state machine:
//
//	Idle -> Loading -> Revealed -> Idle (via Reset)
//
// A selection always ends in Revealed. Transport and extraction failures are
// absorbed into themed fallback content and never reach the caller.
package fortune

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PabloGalante/pill-oracle/internal/domain"
	"github.com/PabloGalante/pill-oracle/internal/extract"
	"github.com/PabloGalante/pill-oracle/internal/observability"
)

const (
	DefaultRevealDelay    = time.Second
	DefaultRequestTimeout = 15 * time.Second
	DefaultAgentID        = "68d99393eee05a60c7647461"
)

type Option func(*Controller)

func WithAgentID(id string) Option {
	return func(c *Controller) { c.agentID = id }
}

// WithRevealDelay sets the pause between content being final and the reveal.
func WithRevealDelay(d time.Duration) Option {
	return func(c *Controller) { c.revealDelay = d }
}

// WithRequestTimeout bounds the inference call. Hitting it is a transport
// failure.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

func WithIdentityFunc(fn IdentityFunc) Option {
	return func(c *Controller) { c.identities = fn }
}

// WithAfter replaces time.After for the reveal delay.
func WithAfter(fn func(time.Duration) <-chan time.Time) Option {
	return func(c *Controller) { c.after = fn }
}

// WithObserver registers fn to receive a snapshot after every transition.
// fn runs outside the controller lock, on the goroutine that made the
// transition.
func WithObserver(fn func(domain.SessionState)) Option {
	return func(c *Controller) { c.observer = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller drives one fortune session.
type Controller struct {
	client      domain.InferenceClient
	agentID     string
	revealDelay time.Duration
	timeout     time.Duration
	identities  IdentityFunc
	after       func(time.Duration) <-chan time.Time
	observer    func(domain.SessionState)
	log         *slog.Logger

	mu    sync.Mutex
	state domain.SessionState
	// pending is true from an accepted selection until its reveal.
	pending bool
	done    chan struct{}
}

var _ domain.FortuneMachine = (*Controller)(nil)

func New(client domain.InferenceClient, opts ...Option) *Controller {
	c := &Controller{
		client:      client,
		agentID:     DefaultAgentID,
		revealDelay: DefaultRevealDelay,
		timeout:     DefaultRequestTimeout,
		identities:  NewIdentity,
		after:       time.After,
		log:         observability.WithFields("component", "fortune"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectTheme starts a request sequence for theme and reports whether it was
// accepted. Selections are only accepted from Idle: while a request is in
// flight, while the reveal is pending and while a fortune is shown they are
// ignored without touching state.
func (c *Controller) SelectTheme(theme domain.Theme) bool {
	if !theme.Valid() {
		return false
	}

	c.mu.Lock()
	if c.pending || c.state.IsRevealed {
		c.mu.Unlock()
		c.log.Debug("selection ignored", "theme", theme, "phase", c.Phase())
		return false
	}

	c.state = domain.SessionState{
		SelectedTheme: theme,
		IsLoading:     true,
	}
	c.pending = true
	done := make(chan struct{})
	c.done = done
	snap := c.state
	c.mu.Unlock()

	c.log.Debug("theme selected", "theme", theme)
	c.notify(snap)

	go c.run(theme, done)
	return true
}

// Reset returns a revealed session to Idle in a single update. Outside
// Revealed it does nothing and returns false.
func (c *Controller) Reset() bool {
	c.mu.Lock()
	if c.pending || !c.state.IsRevealed {
		c.mu.Unlock()
		return false
	}
	c.state = domain.SessionState{}
	snap := c.state
	c.mu.Unlock()

	c.log.Debug("session reset")
	c.notify(snap)
	return true
}

func (c *Controller) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Phase() domain.Phase {
	return c.State().Phase()
}

// Busy reports whether a request sequence is still running.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Wait blocks until the current request sequence, reveal included, is over.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (c *Controller) run(theme domain.Theme, done chan struct{}) {
	defer close(done)

	start := time.Now()
	outcome := c.fetch(theme)
	if !outcome.IsOk() {
		c.log.Warn("using fallback fortune",
			"theme", theme,
			"reason", outcome.Reason(),
			"elapsed_ms", time.Since(start).Milliseconds())
	}

	c.mu.Lock()
	c.state.FortuneText = outcome.Content(theme)
	c.state.IsLoading = false
	snap := c.state
	c.mu.Unlock()
	c.notify(snap)

	<-c.after(c.revealDelay)

	c.mu.Lock()
	c.state.IsRevealed = true
	c.pending = false
	snap = c.state
	c.mu.Unlock()

	c.log.Debug("fortune revealed", "theme", theme, "elapsed_ms", time.Since(start).Milliseconds())
	c.notify(snap)
}

// fetch performs the network half of the sequence. It never fails: every
// problem becomes an Err outcome.
func (c *Controller) fetch(theme domain.Theme) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Err(fmt.Errorf("%w: inference client panicked: %v", domain.ErrTransport, r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	id := c.identities(c.agentID)
	raw, err := c.client.Chat(ctx, domain.InferenceRequest{
		UserID:    id.UserID,
		AgentID:   c.agentID,
		SessionID: id.SessionID,
		Message:   Prompt(theme),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrTransport) {
			err = fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}
		return Err(err)
	}

	resp, err := extract.Fortune(raw)
	if err != nil {
		return Err(err)
	}
	return Ok(resp.Result.Fortune)
}

func (c *Controller) notify(s domain.SessionState) {
	if c.observer != nil {
		c.observer(s)
	}
}
