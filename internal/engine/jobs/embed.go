package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/cyno-agent/cyno/internal/engine"
)

// Embedder turns text into a vector for semantic similarity. A nil Embedder
// is valid everywhere in this package; scoring degrades to a neutral value.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// OllamaEmbedder embeds through a local Ollama instance.
type OllamaEmbedder struct {
	BaseURL string
	Model   string
	client  *http.Client
}

// NewOllamaEmbedder returns an embedder backed by the configured Ollama
// endpoint, or a nil interface when none is configured so matcher scoring
// degrades to neutral instead of dereferencing a typed nil.
func NewOllamaEmbedder() Embedder {
	if engine.Cfg.OllamaURL == "" || engine.Cfg.EmbedModel == "" {
		return nil
	}
	return &OllamaEmbedder{
		BaseURL: engine.Cfg.OllamaURL,
		Model:   engine.Cfg.EmbedModel,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(map[string]string{
		"model":  e.Model,
		"prompt": text,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.BaseURL+"/api/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama embed: status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ollama embed: decode: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embed: empty vector")
	}
	return out.Embedding, nil
}

// cosine computes cosine similarity of two vectors, 0 on mismatch.
func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
