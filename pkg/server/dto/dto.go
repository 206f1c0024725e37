package dto

import (
	"errors"
	"strings"
)

// MaxTextLength bounds a single text accepted over the API.
const MaxTextLength = 100_000

// ErrTextTooLong is returned when a text exceeds MaxTextLength.
var ErrTextTooLong = errors.New("text exceeds maximum length")

// EmbedRequest asks for the embedding of a single text.
type EmbedRequest struct {
	Text string `json:"text" binding:"required"`
}

// Validate performs validation on EmbedRequest.
func (r *EmbedRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text cannot be empty")
	}
	if len(r.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// EmbedResponse carries one embedding vector.
type EmbedResponse struct {
	Embedding []float32 `json:"embedding"`
	Dim       int       `json:"dim"`
}

// EmbedBatchRequest asks for embeddings of many texts.
type EmbedBatchRequest struct {
	Texts []string `json:"texts" binding:"required"`
}

// Validate performs validation on EmbedBatchRequest.
func (r *EmbedBatchRequest) Validate() error {
	if len(r.Texts) == 0 {
		return errors.New("texts cannot be empty")
	}
	for _, t := range r.Texts {
		if len(t) > MaxTextLength {
			return ErrTextTooLong
		}
	}
	return nil
}

// EmbedBatchResponse carries the embedding matrix. Rows listed in ZeroRows
// were never embedded because their batch failed after all retries.
type EmbedBatchResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Rows       int         `json:"rows"`
	Dim        int         `json:"dim"`
	ZeroRows   []int       `json:"zero_rows,omitempty"`
}

// SentimentRequest asks for sentiment analysis of a text.
type SentimentRequest struct {
	Text string `json:"text" binding:"required"`
}

// SentimentResponse carries document sentiment.
type SentimentResponse struct {
	Score     float32 `json:"score"`
	Magnitude float32 `json:"magnitude"`
}

// SummaryRequest asks for a summary with about Sentences sentences.
type SummaryRequest struct {
	Text      string `json:"text" binding:"required"`
	Sentences int    `json:"sentences"`
}

// SummaryResponse carries the generated summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
