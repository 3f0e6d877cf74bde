package extract

import (
	"context"
	"strconv"
	"strings"
)

// regexFallback extracts labeled fields from prose when the LLM strategy is
// not configured. Multiple product/quantity label pairs become items only
// when their counts line up and exceed one; otherwise the single-item pair
// is filled.
type regexFallback struct{}

func (regexFallback) Name() string { return "regex-fallback" }

func (regexFallback) Attempt(_ context.Context, text string) (*Fields, error) {
	out := &Fields{
		CustomerName: ScanCustomer(text),
		DeliveryDate: ScanDeliveryDate(text),
	}

	products := productPattern.FindAllStringSubmatch(text, -1)
	quantities := quantityPattern.FindAllStringSubmatch(text, -1)

	if len(products) > 1 && len(quantities) == len(products) {
		items := make([]LineItem, 0, len(products))
		for i, p := range products {
			qty, err := strconv.Atoi(quantities[i][1])
			if err != nil {
				continue
			}
			items = append(items, LineItem{ProductID: strings.TrimSpace(p[1]), Quantity: qty})
		}
		if len(items) > 0 {
			out.Items = items
			if out.Empty() {
				return nil, nil
			}
			return out, nil
		}
	}

	if len(products) > 0 {
		out.ProductID = strings.TrimSpace(products[0][1])
	}
	if len(quantities) > 0 {
		if qty, err := strconv.Atoi(quantities[0][1]); err == nil {
			out.Quantity = &qty
		}
	}

	if out.Empty() {
		return nil, nil
	}
	return out, nil
}
