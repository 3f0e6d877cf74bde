package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orderdesk/order-intake/internal/llm"
)

// Cascade runs the extraction strategies in fixed order; the first one
// producing a non-empty mapping wins. The cheap structural scans always run
// before the paid strategies: deterministic matches cost nothing, the
// network-bound LLM call is reserved for genuinely unstructured prose.
type Cascade struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewCascade assembles the strategy list. A nil client disables the LLM
// strategy and puts the regex heuristic in its place; which of the two runs
// is decided here, at construction, never by ambient state.
func NewCascade(client llm.Completer, logger *slog.Logger) *Cascade {
	if logger == nil {
		logger = slog.Default()
	}
	strategies := []Strategy{headingScan{}, twoTokenScan{}}
	if client != nil {
		strategies = append(strategies, newLLMStrategy(client, logger))
	} else {
		strategies = append(strategies, regexFallback{})
	}
	return &Cascade{strategies: strategies, logger: logger}
}

// Extract runs the cascade over normalized text. An exhausted cascade is
// not an error: the empty mapping surfaces as a ValidationError downstream,
// with the field names that are missing.
func (c *Cascade) Extract(ctx context.Context, text string) (Fields, error) {
	for _, s := range c.strategies {
		fields, err := s.Attempt(ctx, text)
		if err != nil {
			return Fields{}, fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
		if !fields.Empty() {
			c.logger.Debug("extract.strategy_hit",
				"strategy", s.Name(),
				"items", len(fields.Items),
				"has_customer", fields.CustomerName != "",
				"has_date", fields.DeliveryDate != "",
			)
			return *fields, nil
		}
	}
	c.logger.Debug("extract.exhausted", "text_len", len(text))
	return Fields{}, nil
}
