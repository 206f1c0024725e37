package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coastwise/gcpkit/pkg/embedding"
	"github.com/coastwise/gcpkit/pkg/server/dto"
)

// EmbedHandler serves embedding requests.
type EmbedHandler struct {
	client *embedding.Client
}

// NewEmbedHandler creates a new embedding handler.
func NewEmbedHandler(client *embedding.Client) *EmbedHandler {
	return &EmbedHandler{client: client}
}

// Embed handles POST /api/v1/embed - single text embedding.
func (h *EmbedHandler) Embed(c *gin.Context) {
	var req dto.EmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	vec, err := h.client.EmbedOne(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.EmbedResponse{
		Embedding: vec,
		Dim:       h.client.Dim(),
	})
}

// EmbedBatch handles POST /api/v1/embed/batch - many texts at once. Partial
// failure is reported through zero_rows, not an error status.
func (h *EmbedHandler) EmbedBatch(c *gin.Context) {
	var req dto.EmbedBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.client.EmbedMany(c.Request.Context(), req.Texts)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}

	rows := make([][]float32, m.Rows())
	for i := range rows {
		rows[i] = m.Row(i)
	}
	c.JSON(http.StatusOK, dto.EmbedBatchResponse{
		Embeddings: rows,
		Rows:       m.Rows(),
		Dim:        m.Dim(),
		ZeroRows:   m.ZeroRows(),
	})
}
