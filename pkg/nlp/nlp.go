// Package nlp wraps the Cloud Natural Language API with sentiment and entity
// analysis over plain text.
package nlp

import (
	"context"
	"fmt"

	language "cloud.google.com/go/language/apiv1"
	"cloud.google.com/go/language/apiv1/languagepb"
)

// Client wraps the Natural Language service client.
type Client struct {
	c *language.Client
}

// Sentiment is the document-level sentiment of a text.
type Sentiment struct {
	// Score ranges -1.0 (negative) to 1.0 (positive).
	Score float32
	// Magnitude is the overall strength of emotion, 0.0 and up.
	Magnitude float32
}

// Entity is one entity found in a text.
type Entity struct {
	Name     string
	Type     string
	Salience float32
}

// New creates a Natural Language client using Application Default Credentials.
func New(ctx context.Context) (*Client, error) {
	c, err := language.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating language client: %w", err)
	}
	return &Client{c: c}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.c.Close()
}

// AnalyzeSentiment returns the document sentiment of text.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	resp, err := c.c.AnalyzeSentiment(ctx, &languagepb.AnalyzeSentimentRequest{
		Document:     document(text),
		EncodingType: languagepb.EncodingType_UTF8,
	})
	if err != nil {
		return Sentiment{}, fmt.Errorf("analyzing sentiment: %w", err)
	}
	s := resp.DocumentSentiment
	return Sentiment{Score: s.Score, Magnitude: s.Magnitude}, nil
}

// AnalyzeEntities finds and describes entities in text, in decreasing
// salience order as returned by the API.
func (c *Client) AnalyzeEntities(ctx context.Context, text string) ([]Entity, error) {
	resp, err := c.c.AnalyzeEntities(ctx, &languagepb.AnalyzeEntitiesRequest{
		Document:     document(text),
		EncodingType: languagepb.EncodingType_UTF8,
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing entities: %w", err)
	}
	out := make([]Entity, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		out = append(out, Entity{
			Name:     e.Name,
			Type:     e.Type.String(),
			Salience: e.Salience,
		})
	}
	return out, nil
}

func document(text string) *languagepb.Document {
	return &languagepb.Document{
		Type:   languagepb.Document_PLAIN_TEXT,
		Source: &languagepb.Document_Content{Content: text},
	}
}
