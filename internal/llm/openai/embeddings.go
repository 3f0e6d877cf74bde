package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/orderdesk/order-intake/internal/llm"
)

const defaultEmbeddingModel = "text-embedding-3-small"

// EmbedText returns the embedding vector for one text via /embeddings.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	model := c.cfg.EmbeddingModel
	if model == "" {
		model = defaultEmbeddingModel
	}

	body := map[string]any{
		"model": model,
		"input": text,
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/embeddings"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding in openai response")
	}
	return resp.Data[0].Embedding, nil
}
