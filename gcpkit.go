// Package gcpkit is a convenience layer over Google Cloud client libraries:
// BigQuery, Cloud Storage, Secret Manager, Sheets, Natural Language, DLP and
// Cloud Logging wrappers, plus a batched, retrying embedding client.
package gcpkit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coastwise/gcpkit/pkg/alert"
	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/embedding"
)

// NewEmbeddingClient assembles the embedding provider stack from config and
// probes it: the configured backend (Vertex AI or an OpenAI-compatible
// endpoint), an optional Badger read-through cache, and an optional circuit
// breaker with SMTP alerting.
func NewEmbeddingClient(ctx context.Context, cfg *config.Config, log *slog.Logger) (*embedding.Client, error) {
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Embedding.CachePath != "" {
		provider, err = embedding.NewCachedProvider(provider, cfg.Embedding.CachePath, cfg.Embedding.Model)
		if err != nil {
			return nil, err
		}
	}

	if cfg.CircuitBreaker.Enabled {
		var alerter alert.Alerter
		if cfg.Alert.Enabled {
			alerter = alert.NewEmailAlerter(cfg.Alert)
		}
		provider = embedding.NewBreakerProvider(provider, cfg.CircuitBreaker, alerter, "embedding")
	}

	clientCfg := &embedding.Config{
		Model:         cfg.Embedding.Model,
		RequestLimit:  cfg.Embedding.RequestLimit,
		RetryLimit:    cfg.Embedding.RetryLimit,
		RetryDelay:    time.Duration(cfg.Embedding.RetryDelay) * time.Second,
		BackoffFactor: cfg.Embedding.BackoffFactor,
		Verbose:       cfg.Embedding.Verbose,
	}

	client, err := embedding.New(ctx, provider, clientCfg, log)
	if err != nil {
		provider.Close()
		return nil, err
	}
	return client, nil
}

func newProvider(ctx context.Context, cfg *config.Config) (embedding.Provider, error) {
	switch cfg.Embedding.Provider {
	case "vertex", "":
		if cfg.Project.ID == "" {
			return nil, fmt.Errorf("vertex embedding provider requires a project id")
		}
		return embedding.NewVertexProvider(ctx, cfg.Project.ID, cfg.Project.Location, cfg.Embedding.Model)
	case "openai":
		return embedding.NewOpenAIProvider(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Embedding.Model), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}
