package extract

import (
	"regexp"
	"strings"
)

// Label patterns shared by the heading scan, the regex fallback, and the
// table-first pipeline path. Both the Japanese labels of the source
// documents and their English equivalents are accepted; the value follows
// a half- or full-width colon.
var (
	customerPattern = regexp.MustCompile(`(?i)(?:顧客|customer)\s*[:：]\s*(.+)`)
	datePattern     = regexp.MustCompile(`(?i)(?:配送希望日|delivery[ _]?date)\s*[:：]\s*([\d\-]+)`)
	productPattern  = regexp.MustCompile(`(?i)(?:商品|product)\s*[:：]\s*([A-Za-z0-9]+)`)
	quantityPattern = regexp.MustCompile(`(?i)(?:数量|quantity|qty)\s*[:：]\s*(\d+)`)
)

// ScanCustomer pulls a labeled customer name out of the full text.
func ScanCustomer(text string) string {
	if m := customerPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ScanDeliveryDate pulls a labeled, loosely-formatted delivery date.
func ScanDeliveryDate(text string) string {
	if m := datePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// hasItemHeading reports whether a line carries both a product and a
// quantity header token.
func hasItemHeading(line string) bool {
	lower := strings.ToLower(line)
	product := strings.Contains(lower, "商品") || strings.Contains(lower, "product")
	quantity := strings.Contains(lower, "数量") || strings.Contains(lower, "quantity") || strings.Contains(lower, "qty")
	return product && quantity
}

// isTotalLine marks the end of a free-text item table.
func isTotalLine(line string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	return strings.HasPrefix(trimmed, "合計") || strings.HasPrefix(trimmed, "total")
}
