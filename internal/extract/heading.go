package extract

import (
	"context"
	"strconv"
	"strings"
	"unicode"
)

// headingScan parses free text shaped like a tabular listing: a heading
// line with product and quantity labels, followed by "<code> <qty>" rows up
// to a blank or total line.
type headingScan struct{}

func (headingScan) Name() string { return "heading-scan" }

func (headingScan) Attempt(_ context.Context, text string) (*Fields, error) {
	lines := strings.Split(text, "\n")
	for idx, line := range lines {
		if !hasItemHeading(line) {
			continue
		}
		var items []LineItem
		for _, row := range lines[idx+1:] {
			trimmed := strings.TrimSpace(row)
			if trimmed == "" || isTotalLine(trimmed) {
				break
			}
			cols := strings.Fields(trimmed)
			if len(cols) < 2 {
				continue
			}
			qty, ok := parseCount(cols[1])
			if !ok {
				continue
			}
			items = append(items, LineItem{ProductID: cols[0], Quantity: qty})
		}
		if len(items) > 0 {
			return &Fields{
				CustomerName: ScanCustomer(text),
				DeliveryDate: ScanDeliveryDate(text),
				Items:        items,
			}, nil
		}
	}
	return nil, nil
}

// twoTokenScan is the generic table fallback for documents without labeled
// headers: any line of exactly two tokens, an alphanumeric code and a
// digit-only count, becomes an item.
type twoTokenScan struct{}

func (twoTokenScan) Name() string { return "two-token-scan" }

func (twoTokenScan) Attempt(_ context.Context, text string) (*Fields, error) {
	var items []LineItem
	for _, line := range strings.Split(text, "\n") {
		cols := strings.Fields(strings.TrimSpace(line))
		if len(cols) != 2 || !isAlphanumeric(cols[0]) {
			continue
		}
		qty, ok := parseCount(cols[1])
		if !ok {
			continue
		}
		items = append(items, LineItem{ProductID: cols[0], Quantity: qty})
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &Fields{Items: items}, nil
}

func parseCount(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
