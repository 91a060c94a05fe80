package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultRefreshTimeout bounds a single refresh call against the backend.
// The refresh runs detached from its triggering caller, so without this
// bound a hung transport would hold the single-flight slot forever and no
// new refresh could ever start.
const DefaultRefreshTimeout = 30 * time.Second

// RefreshClient exchanges a refresh token for a new token pair. It must
// issue at most one backend call per invocation; the Coordinator guarantees
// at most one invocation is in flight process-wide.
type RefreshClient interface {
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

// Coordinator owns the single-flight refresh operation and the proactive
// refresh timer. All paths that can need a refresh (the proactive timer,
// the 401 interceptor, startup validation) converge here, so concurrent
// triggers join one backend call and observe the same result.
type Coordinator struct {
	store          Store
	client         RefreshClient
	margin         time.Duration
	refreshTimeout time.Duration

	group singleflight.Group

	signals chan func()
	done    chan struct{}

	mu          sync.Mutex
	timer       *time.Timer
	stopped     bool
	listeners   map[int]Listener
	listenerSeq int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMargin overrides the refresh safety margin (default 120s).
func WithMargin(d time.Duration) Option {
	return func(c *Coordinator) { c.margin = d }
}

// WithRefreshTimeout overrides the per-refresh deadline (default 30s).
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.refreshTimeout = d }
}

// NewCoordinator creates a Coordinator around the given store and refresh
// client.
func NewCoordinator(store Store, client RefreshClient, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:          store,
		client:         client,
		margin:         DefaultRefreshMargin,
		refreshTimeout: DefaultRefreshTimeout,
		listeners:      make(map[int]Listener),
		signals:        make(chan func(), 16),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.dispatchSignals()
	return c
}

// Margin returns the refresh safety margin.
func (c *Coordinator) Margin() time.Duration {
	return c.margin
}

// EnsureFresh returns the current access token if it has more than the
// safety margin remaining; otherwise it triggers or joins a refresh and
// returns the new token. A token whose expiry cannot be decoded is treated
// as already expired.
func (c *Coordinator) EnsureFresh(ctx context.Context) (string, error) {
	pair, err := c.store.Pair()
	if err != nil {
		return "", err
	}

	remaining, err := TimeUntilExpiry(pair.AccessToken)
	if err == nil && remaining > c.margin {
		return pair.AccessToken, nil
	}

	return c.ForceRefresh(ctx)
}

// ForceRefresh triggers a refresh, or joins the one in flight, regardless
// of the access token's remaining lifetime. Used by the reactive 401 path:
// a 401 means the token is invalid no matter what the clock predicted.
func (c *Coordinator) ForceRefresh(ctx context.Context) (string, error) {
	// The refresh runs detached from the triggering caller's context,
	// bounded only by its own deadline: joiners must all see the operation
	// complete (and the store updated) even if the first caller goes away,
	// and a stalled transport fails the operation instead of holding the
	// single-flight slot.
	ch := c.group.DoChan("refresh", func() (any, error) {
		opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		return c.refresh(opCtx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// refresh performs the actual token exchange. Runs inside the single-flight
// group, so at most one instance executes at a time.
func (c *Coordinator) refresh(ctx context.Context) (string, error) {
	pair, err := c.store.Pair()
	if err != nil {
		c.teardown()
		return "", err
	}

	// Carry the principal snapshot over to the new pair.
	principal, err := c.store.Principal()
	if err != nil {
		principal = nil
	}

	newPair, err := c.client.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		c.teardown()
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if !newPair.Valid() {
		c.teardown()
		return "", fmt.Errorf("%w: backend returned incomplete token pair", ErrRefreshFailed)
	}

	// Store write happens-before any waiter resolves: nobody can observe a
	// completed refresh with a stale pair still stored.
	if err := c.store.Save(newPair, principal); err != nil {
		c.teardown()
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	log.Debug().Msg("access token refreshed")
	c.notifyRefreshed(newPair.AccessToken)

	if err := c.ScheduleProactive(); err != nil {
		log.Warn().Err(err).Msg("failed to re-arm proactive refresh timer")
	}

	return newPair.AccessToken, nil
}

// teardown fails the session closed: clears the store, cancels the timer
// and fires the session-invalid signal once.
func (c *Coordinator) teardown() {
	if err := c.store.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear token store")
	}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.notifyInvalid()
}

// ScheduleProactive arms the refresh timer at expiry − margin for the
// current access token. Arming always cancels a previously armed timer, so
// at most one is pending.
func (c *Coordinator) ScheduleProactive() error {
	pair, err := c.store.Pair()
	if err != nil {
		return err
	}

	remaining, err := TimeUntilExpiry(pair.AccessToken)
	if err != nil {
		return err
	}

	delay := remaining - c.margin
	if delay < 0 {
		delay = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(delay, c.onTimer)

	log.Debug().Dur("delay", delay).Msg("proactive refresh scheduled")
	return nil
}

func (c *Coordinator) onTimer() {
	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	if stopped {
		return
	}

	// Success re-arms the timer via the refresh epilogue; failure has
	// already torn the session down.
	if _, err := c.ForceRefresh(context.Background()); err != nil {
		log.Warn().Err(err).Msg("proactive token refresh failed")
	}
}

// Stop cancels the proactive timer, shuts down signal dispatch and
// prevents further arming. Safe to call more than once.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	c.stopped = true
	close(c.done)
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
