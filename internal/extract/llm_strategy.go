package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/orderdesk/order-intake/internal/llm"
)

// llmStrategy sends the document to the extraction service and parses the
// single JSON object the fixed-format prompt demands. Unlike the structural
// strategies, a malformed response here is a hard failure: this is the most
// information-rich strategy, and garbage output means the upstream contract
// is broken, not that the document is odd.
type llmStrategy struct {
	client llm.Completer
	logger *slog.Logger
}

func newLLMStrategy(client llm.Completer, logger *slog.Logger) *llmStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &llmStrategy{client: client, logger: logger}
}

func (s *llmStrategy) Name() string { return "llm" }

func (s *llmStrategy) Attempt(ctx context.Context, text string) (*Fields, error) {
	resp, err := s.client.Complete(ctx, llm.OrderSystemPrompt, llm.BuildOrderPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	doc := llm.FirstJSONObject(resp)
	if doc == "" {
		s.logger.Error("extract.llm.no_json", "response_len", len(resp))
		return nil, &ExtractionError{Reason: "no JSON object in response", Raw: resp}
	}
	if err := llm.ValidateJSONAgainstSchema(llm.BuildOrderJSONSchema(), []byte(doc)); err != nil {
		s.logger.Error("extract.llm.schema_mismatch", "error", err)
		return nil, &ExtractionError{Reason: err.Error(), Raw: resp}
	}

	var out Fields
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, &ExtractionError{Reason: fmt.Sprintf("unmarshal fields: %v", err), Raw: resp}
	}
	if out.Empty() {
		return nil, nil
	}
	return &out, nil
}
