// Package gen provides generative text helpers, currently a sentence-count
// constrained summarizer backed by an OpenAI-compatible chat endpoint.
package gen

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/coastwise/gcpkit/pkg/config"
)

// Summarizer produces short summaries with an approximate sentence count.
type Summarizer struct {
	client *openai.Client
	cfg    config.SummaryConfig
}

// NewSummarizer creates a summarizer from config. An empty BaseURL uses the
// public OpenAI API; gateways fronting Vertex or local models work the same
// way.
func NewSummarizer(cfg config.SummaryConfig) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &Summarizer{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Summarize asks the model for a summary of about `sentences` sentences.
// Spelling the count out as a word steers models better than a digit.
func (s *Summarizer) Summarize(ctx context.Context, text string, sentences int) (string, error) {
	word := NumberToWord(sentences)
	if word == "" {
		return "", fmt.Errorf("sentence count %d out of range (0-99)", sentences)
	}

	prompt := fmt.Sprintf(`Provide a summary with about %s sentences for the following:
%s
Summary:
`, strings.ToLower(word), text)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
		TopP:        s.cfg.TopP,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var numberWords = map[int]string{
	0: "Zero", 1: "One", 2: "Two", 3: "Three", 4: "Four",
	5: "Five", 6: "Six", 7: "Seven", 8: "Eight", 9: "Nine",
	10: "Ten", 11: "Eleven", 12: "Twelve", 13: "Thirteen", 14: "Fourteen",
	15: "Fifteen", 16: "Sixteen", 17: "Seventeen", 18: "Eighteen", 19: "Nineteen",
	20: "Twenty", 30: "Thirty", 40: "Forty", 50: "Fifty",
	60: "Sixty", 70: "Seventy", 80: "Eighty", 90: "Ninety",
}

// NumberToWord converts a number between 0 and 99 to a word, or "" when out
// of range.
func NumberToWord(n int) string {
	if w, ok := numberWords[n]; ok {
		return w
	}
	tens, ok := numberWords[n-n%10]
	if !ok {
		return ""
	}
	ones, ok := numberWords[n%10]
	if !ok {
		return ""
	}
	return tens + strings.ToLower(ones)
}
