package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/orderdesk/order-intake/internal/llm"
)

const retrievalTopK = 5

// Corrector resolves free-form names to their canonical dictionary form:
// the vector store retrieves candidate entries, the LLM reads them and
// returns the normalized value.
type Corrector struct {
	store  *VectorStore
	client llm.Completer
	logger *slog.Logger
}

func NewCorrector(store *VectorStore, client llm.Completer, logger *slog.Logger) *Corrector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Corrector{store: store, client: client, logger: logger}
}

// CorrectProductName maps a loosely-written product name to its product id.
func (c *Corrector) CorrectProductName(ctx context.Context, input string) (string, error) {
	prompt := "以下の商品マスタ辞書を参考に、ユーザー入力の商品名を正規化してください。\n" +
		"商品リスト:\n%s\n" +
		"ユーザー入力: %s\n" +
		"正規化された商品IDを返してください。"
	return c.correct(ctx, KindProduct, prompt, input)
}

// CorrectCustomerName maps a loosely-written customer name to the master
// spelling.
func (c *Corrector) CorrectCustomerName(ctx context.Context, input string) (string, error) {
	prompt := "以下の顧客マスタ辞書を参考に、ユーザー入力の顧客名を正規化してください。\n" +
		"顧客リスト:\n%s\n" +
		"ユーザー入力: %s\n" +
		"正規化された顧客名を返してください。"
	return c.correct(ctx, KindCustomer, prompt, input)
}

func (c *Corrector) correct(ctx context.Context, kind, template, input string) (string, error) {
	retrieved, err := c.store.Query(ctx, kind, input, retrievalTopK)
	if err != nil {
		return "", fmt.Errorf("retrieve %s candidates: %w", kind, err)
	}

	// The input is already interpolated into the dictionary prompt; it
	// goes out as a single system message with an empty user turn.
	prompt := fmt.Sprintf(template, strings.Join(retrieved, "\n"), input)
	answer, err := c.client.Complete(ctx, prompt, "")
	if err != nil {
		return "", fmt.Errorf("normalize %s name: %w", kind, err)
	}
	normalized := strings.TrimSpace(answer)
	c.logger.Debug("rag.corrected", "kind", kind, "input", input, "output", normalized)
	return normalized, nil
}
