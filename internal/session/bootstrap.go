package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultStartupTimeout is the wall-clock budget for Bootstrap. A stalled
// decode or a hung refresh call must not block startup forever.
const DefaultStartupTimeout = 5 * time.Second

// Bootstrap validates the stored session once at process start, before
// anything depending on authentication runs.
//
// Outcomes:
//   - ErrNoSession / ErrMalformedToken: store cleared, caller should send
//     the user to login.
//   - ErrRefreshFailed: the token was due and the blocking refresh failed;
//     session is torn down, caller should send the user to login.
//   - ErrStartupTimeout: the budget elapsed; possibly transient, caller
//     should surface a retryable error instead of forcing re-login.
//   - nil: session is fresh (or was refreshed) and the proactive timer is
//     armed.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	return c.bootstrapWithin(ctx, DefaultStartupTimeout)
}

func (c *Coordinator) bootstrapWithin(ctx context.Context, budget time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.bootstrap(ctx)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w after %s", ErrStartupTimeout, budget)
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrStartupTimeout, budget)
		}
		return err
	}
}

func (c *Coordinator) bootstrap(ctx context.Context) error {
	pair, err := c.store.Pair()
	if err != nil {
		// Absent or partial session: make sure nothing is left behind.
		if clearErr := c.store.Clear(); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear token store")
		}
		return err
	}

	remaining, err := TimeUntilExpiry(pair.AccessToken)
	if err != nil {
		if clearErr := c.store.Clear(); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear token store")
		}
		return err
	}

	if remaining <= c.margin {
		log.Info().Dur("remaining", remaining).Msg("access token due at startup, refreshing")
		if _, err := c.ForceRefresh(ctx); err != nil {
			return err
		}
		return nil
	}

	log.Info().Dur("remaining", remaining).Msg("access token fresh at startup")
	return c.ScheduleProactive()
}
