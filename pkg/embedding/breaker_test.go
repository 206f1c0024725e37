package embedding_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/embedding"
)

// recordingAlerter captures alert subjects for assertions.
type recordingAlerter struct {
	subjects []string
}

func (a *recordingAlerter) Alert(subject, message string) error {
	a.subjects = append(a.subjects, subject)
	return nil
}

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          60,
		ReadyToTripRatio: 0.5,
	}
}

func TestBreakerProvider_PassThrough(t *testing.T) {
	backend := newCountingProvider(3)
	p := embedding.NewBreakerProvider(backend, breakerConfig(), nil, "embedding")

	out, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, out[0], 3)
}

func TestBreakerProvider_OpensAfterFailures(t *testing.T) {
	backend := newCountingProvider(3)
	backend.fail = true
	alerter := &recordingAlerter{}
	p := embedding.NewBreakerProvider(backend, breakerConfig(), alerter, "embedding")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := p.EmbedBatch(ctx, []string{"x"})
		assert.Error(t, err)
	}

	// breaker is open now; the backend must not see this call
	calls := backend.calls
	_, err := p.EmbedBatch(ctx, []string{"x"})
	assert.Error(t, err)
	assert.Equal(t, calls, backend.calls)
	assert.NotEmpty(t, alerter.subjects, "trip should raise an alert")
}
