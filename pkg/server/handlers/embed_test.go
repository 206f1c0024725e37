package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coastwise/gcpkit/pkg/embedding"
	"github.com/coastwise/gcpkit/pkg/server/dto"
)

// fakeProvider returns deterministic vectors and can be told to fail on
// specific texts.
type fakeProvider struct {
	dim       int
	failTexts map[string]bool
}

func (p *fakeProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if p.failTexts[text] {
			return nil, errors.New("backend unavailable")
		}
		vec := make([]float32, p.dim)
		for d := range vec {
			vec[d] = float32(len(text) + d)
		}
		out[i] = vec
	}
	return out, nil
}

func (p *fakeProvider) Close() error { return nil }

func newTestClient(t *testing.T, provider embedding.Provider) *embedding.Client {
	t.Helper()
	cfg := &embedding.Config{
		RequestLimit:  2,
		RetryLimit:    2,
		RetryDelay:    time.Millisecond,
		BackoffFactor: 2.0,
	}
	client, err := embedding.New(context.Background(), provider, cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("failed to create embedding client: %v", err)
	}
	return client
}

func newTestRouter(client *embedding.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewEmbedHandler(client)
	router.POST("/api/v1/embed", handler.Embed)
	router.POST("/api/v1/embed/batch", handler.EmbedBatch)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEmbed(t *testing.T) {
	client := newTestClient(t, &fakeProvider{dim: 4})
	router := newTestRouter(client)

	w := postJSON(t, router, "/api/v1/embed", dto.EmbedRequest{Text: "hello"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp dto.EmbedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Dim != 4 {
		t.Errorf("expected dim 4, got %d", resp.Dim)
	}
	if len(resp.Embedding) != 4 {
		t.Errorf("expected 4-element embedding, got %d", len(resp.Embedding))
	}
}

func TestEmbedEmptyText(t *testing.T) {
	client := newTestClient(t, &fakeProvider{dim: 4})
	router := newTestRouter(client)

	w := postJSON(t, router, "/api/v1/embed", dto.EmbedRequest{Text: "   "})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestEmbedBackendFailure(t *testing.T) {
	client := newTestClient(t, &fakeProvider{dim: 4, failTexts: map[string]bool{"doomed": true}})
	router := newTestRouter(client)

	w := postJSON(t, router, "/api/v1/embed", dto.EmbedRequest{Text: "doomed"})

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
}

func TestEmbedBatch(t *testing.T) {
	client := newTestClient(t, &fakeProvider{dim: 3})
	router := newTestRouter(client)

	w := postJSON(t, router, "/api/v1/embed/batch", dto.EmbedBatchRequest{Texts: []string{"a", "bb", "ccc"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp dto.EmbedBatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Rows != 3 || resp.Dim != 3 {
		t.Errorf("expected 3x3 matrix, got %dx%d", resp.Rows, resp.Dim)
	}
	if len(resp.ZeroRows) != 0 {
		t.Errorf("expected no zero rows, got %v", resp.ZeroRows)
	}
	if resp.Embeddings[1][0] != 2 {
		t.Errorf("expected first component of row 1 to be 2, got %v", resp.Embeddings[1][0])
	}
}

func TestEmbedBatchPartialFailure(t *testing.T) {
	// Chunk size is 2, so "ccc" lands in the second chunk and sinks it.
	client := newTestClient(t, &fakeProvider{dim: 3, failTexts: map[string]bool{"ccc": true}})
	router := newTestRouter(client)

	w := postJSON(t, router, "/api/v1/embed/batch", dto.EmbedBatchRequest{Texts: []string{"a", "bb", "ccc", "dddd"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp dto.EmbedBatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Rows != 4 {
		t.Errorf("expected 4 rows, got %d", resp.Rows)
	}
	wantZero := []int{2, 3}
	if len(resp.ZeroRows) != len(wantZero) {
		t.Fatalf("expected zero rows %v, got %v", wantZero, resp.ZeroRows)
	}
	for i, row := range wantZero {
		if resp.ZeroRows[i] != row {
			t.Errorf("expected zero rows %v, got %v", wantZero, resp.ZeroRows)
			break
		}
	}
}

func TestEmbedBatchEmptyTexts(t *testing.T) {
	client := newTestClient(t, &fakeProvider{dim: 3})
	router := newTestRouter(client)

	w := postJSON(t, router, "/api/v1/embed/batch", dto.EmbedBatchRequest{Texts: []string{}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
