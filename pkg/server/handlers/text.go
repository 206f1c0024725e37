package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coastwise/gcpkit/pkg/gen"
	"github.com/coastwise/gcpkit/pkg/nlp"
	"github.com/coastwise/gcpkit/pkg/server/dto"
)

// TextHandler serves sentiment and summary requests. Either backend may be
// nil when the corresponding service is not configured.
type TextHandler struct {
	language   *nlp.Client
	summarizer *gen.Summarizer
}

// NewTextHandler creates a new text analysis handler.
func NewTextHandler(language *nlp.Client, summarizer *gen.Summarizer) *TextHandler {
	return &TextHandler{language: language, summarizer: summarizer}
}

// Sentiment handles POST /api/v1/sentiment.
func (h *TextHandler) Sentiment(c *gin.Context) {
	if h.language == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "sentiment analysis is not configured"})
		return
	}

	var req dto.SentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	s, err := h.language.AnalyzeSentiment(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.SentimentResponse{Score: s.Score, Magnitude: s.Magnitude})
}

// Summary handles POST /api/v1/summary.
func (h *TextHandler) Summary(c *gin.Context) {
	if h.summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "summarization is not configured"})
		return
	}

	var req dto.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if req.Sentences <= 0 {
		req.Sentences = 2
	}

	summary, err := h.summarizer.Summarize(c.Request.Context(), req.Text, req.Sentences)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.SummaryResponse{Summary: summary})
}
