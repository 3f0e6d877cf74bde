// Package extract turns normalized order text into a loosely-typed field
// mapping through a fixed cascade of strategies.
package extract

import (
	"context"
	"fmt"
)

// LineItem is one product/quantity pair of a multi-item order.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Fields is the inter-stage contract between extraction and order building.
// Exactly one of the single-item pair (ProductID/Quantity) or Items is
// populated by any given strategy, never both.
type Fields struct {
	CustomerName string     `json:"customer_name,omitempty"`
	DeliveryDate string     `json:"delivery_date,omitempty"`
	ProductID    string     `json:"product_id,omitempty"`
	Quantity     *int       `json:"quantity,omitempty"`
	Items        []LineItem `json:"items,omitempty"`
}

// Empty reports whether no strategy output landed in the mapping.
func (f *Fields) Empty() bool {
	return f == nil || (f.CustomerName == "" && f.DeliveryDate == "" &&
		f.ProductID == "" && f.Quantity == nil && len(f.Items) == 0)
}

// Multi reports whether the mapping is on the multi-item path.
func (f *Fields) Multi() bool { return len(f.Items) > 0 }

// Strategy is one extraction algorithm. Attempt returns nil when the text
// does not match the strategy's shape; a non-nil error is fatal for the
// document (only the LLM strategy fails that way).
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, text string) (*Fields, error)
}

// ExtractionError reports a broken response from the extraction service:
// the reply held no parsable JSON object of the required shape. The raw
// response rides along for diagnosis.
type ExtractionError struct {
	Reason string
	Raw    string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}
