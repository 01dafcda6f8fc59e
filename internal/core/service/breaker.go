package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerService decorates a Placer with a circuit breaker so that callers
// get a fast degraded response while downstream infrastructure is
// persistently failing. Placement policy is untouched: business rejections
// (unknown SKU, out of stock) never count against the breaker.
type BreakerService struct {
	log  *zap.Logger
	next Placer
	cb   *gobreaker.CircuitBreaker[string]
}

type BreakerConfig struct {
	MaxFailures uint32
	OpenFor     time.Duration
}

func NewBreakerService(log *zap.Logger, next Placer, cfg BreakerConfig) *BreakerService {
	settings := gobreaker.Settings{
		Name:        "order-placement",
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, ErrInventoryUnavailable) && !errors.Is(err, ErrPersistenceFailure)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BreakerService{
		log:  log,
		next: next,
		cb:   gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (b *BreakerService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error) {
	orderNumber, err := b.cb.Execute(func() (string, error) {
		return b.next.PlaceOrder(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: please order after some time", ErrInventoryUnavailable)
	}
	return orderNumber, err
}
