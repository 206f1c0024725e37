package embedding

import "context"

// Provider is the boundary to an external embedding service. Given a batch of
// texts it returns one fixed-length vector per text, in input order. All
// provider errors are treated identically by the retrying client.
type Provider interface {
	// EmbedBatch generates embeddings for the given texts. The result has the
	// same length and order as the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Close cleans up any resources.
	Close() error
}
