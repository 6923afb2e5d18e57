package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// BreakerConfig controls when the transport is considered down.
type BreakerConfig struct {
	MaxFailures uint32
	Timeout     time.Duration
}

// BreakerSender stops calling a failing transport for Timeout after
// MaxFailures consecutive failures. While open, Send fails fast with
// gobreaker.ErrOpenState.
type BreakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerSender(next Sender, cfg BreakerConfig, logger zerolog.Logger) *BreakerSender {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	st := gobreaker.Settings{
		Name:        "mail",
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state")
		},
	}
	return &BreakerSender{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (s *BreakerSender) Send(ctx context.Context, m Mail) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Send(ctx, m)
	})
	return err
}

// State exposes the breaker state for logs and tests.
func (s *BreakerSender) State() gobreaker.State {
	return s.cb.State()
}
