package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/coastwise/gcpkit/pkg/alert"
	"github.com/coastwise/gcpkit/pkg/config"
)

// BreakerProvider wraps a Provider with circuit breaking. When the provider
// fails often enough the breaker opens and calls fail fast without reaching
// the service; an optional alerter is notified on the trip.
type BreakerProvider struct {
	next    Provider
	cb      *gobreaker.CircuitBreaker
	alerter alert.Alerter
	name    string
}

// NewBreakerProvider creates a circuit-breaking provider wrapper.
func NewBreakerProvider(next Provider, cfg config.CircuitBreakerConfig, alerter alert.Alerter, name string) *BreakerProvider {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if to == gobreaker.StateOpen && alerter != nil {
				msg := fmt.Sprintf("Circuit breaker %q changed from %s to %s. Too many embedding failures detected.", name, from, to)
				_ = alerter.Alert(fmt.Sprintf("URGENT: Circuit Breaker Tripped - %s", name), msg)
			}
		},
	}

	return &BreakerProvider{
		next:    next,
		cb:      gobreaker.NewCircuitBreaker(st),
		alerter: alerter,
		name:    name,
	}
}

// EmbedBatch implements Provider.
func (p *BreakerProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	res, err := p.cb.Execute(func() (interface{}, error) {
		return p.next.EmbedBatch(ctx, texts)
	})
	if err != nil {
		return nil, err
	}
	return res.([][]float32), nil
}

// Close implements Provider.
func (p *BreakerProvider) Close() error {
	return p.next.Close()
}
