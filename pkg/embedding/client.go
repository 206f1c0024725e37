package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

// probeText is the sample input used once at construction to learn the
// model's embedding dimensionality.
const probeText = "dummy data"

// Client converts arbitrarily long sequences of texts into fixed-width
// vectors by calling a Provider in batches of at most RequestLimit texts,
// retrying failed calls with exponential backoff.
//
// The client holds no state between calls beyond its configuration, the
// dimensionality learned at construction, and a request counter kept for
// diagnostics. Batches are processed strictly sequentially.
type Client struct {
	provider Provider
	config   *Config
	log      *slog.Logger
	dim      int
	requests atomic.Int64
}

// New binds a client to the given provider and probes it once with a single
// sample text to establish the embedding dimensionality. Construction fails
// if the probe call fails.
func New(ctx context.Context, provider Provider, config *Config, log *slog.Logger) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.normalize()
	if log == nil {
		log = slog.Default()
	}

	vecs, err := provider.EmbedBatch(ctx, []string{probeText})
	if err != nil {
		return nil, fmt.Errorf("probing embedding dimensionality: %w", err)
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("probe returned %d vectors, want 1 non-empty", len(vecs))
	}

	return &Client{
		provider: provider,
		config:   &cfg,
		log:      log,
		dim:      len(vecs[0]),
	}, nil
}

// Dim returns the embedding dimensionality established at construction.
func (c *Client) Dim() int { return c.dim }

// Close releases the underlying provider.
func (c *Client) Close() error { return c.provider.Close() }

// Requests returns the number of provider calls attempted so far.
func (c *Client) Requests() int64 { return c.requests.Load() }

// EmbedOne embeds a single text. It fails only when every retry attempt for
// the singleton batch is exhausted.
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, ok := c.callWithBackoff(ctx, []string{text})
	if !ok {
		return nil, fmt.Errorf("embedding failed after %d attempts", c.config.RetryLimit)
	}
	return vecs[0], nil
}

// EmbedMany embeds texts into an (N, D) matrix, preserving input order.
//
// Inputs are partitioned into consecutive chunks of at most RequestLimit
// texts and sent through the retry primitive one chunk at a time. When a
// chunk exhausts its retries the whole operation stops: rows already written
// are kept and every remaining row stays zero. Partial failure is signalled
// only by zero rows, never by an error.
func (c *Client) EmbedMany(ctx context.Context, texts []string) (*Matrix, error) {
	n := len(texts)
	m := NewMatrix(n, c.dim)
	if n == 0 {
		return m, nil
	}

	for start := 0; start < n; start += c.config.RequestLimit {
		end := start + c.config.RequestLimit
		if end > n {
			end = n
		}
		vecs, ok := c.callWithBackoff(ctx, texts[start:end])
		if !ok {
			c.log.Warn("aborting batch embedding, retries exhausted",
				"chunk_start", start, "populated_rows", start, "total_rows", n)
			return m, nil
		}
		for i, vec := range vecs {
			m.SetRow(start+i, vec)
		}
	}
	return m, nil
}

// callWithBackoff attempts the batch up to RetryLimit times, sleeping
// RetryDelay * BackoffFactor^r between attempt r and r+1. Provider errors are
// not classified; every failure is retried the same way. Returns ok=false
// once all attempts fail, the sentinel for an unrecoverable batch.
func (c *Client) callWithBackoff(ctx context.Context, batch []string) ([][]float32, bool) {
	for r := 0; r < c.config.RetryLimit; r++ {
		c.requests.Add(1)
		vecs, err := c.provider.EmbedBatch(ctx, batch)
		if err == nil {
			return vecs, true
		}
		if r == c.config.RetryLimit-1 {
			if c.config.Verbose {
				c.log.Error("embedding call failed, retries exhausted",
					"error", err, "attempts", c.config.RetryLimit)
			}
			break
		}
		wait := c.delay(r)
		if c.config.Verbose {
			c.log.Warn("embedding call failed, backing off",
				"error", err, "wait", wait, "attempt", r+1)
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, false
		}
	}
	return nil, false
}

// delay computes the backoff before attempt r+1.
func (c *Client) delay(r int) time.Duration {
	return time.Duration(float64(c.config.RetryDelay) * math.Pow(c.config.BackoffFactor, float64(r)))
}
