// Package tabular scans PDF attachments for product/quantity item tables,
// independent of the free-text extraction path.
package tabular

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/orderdesk/order-intake/internal/normalize"
)

// Item is one product/quantity row recovered from an attachment.
type Item struct {
	ProductID string
	Quantity  int
}

// Extractor pulls line items out of PDF tabular structures.
type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Items returns the line items of the first candidate table in the
// attachment, or falls back to a free-text line scan when no table matches.
// Extraction failures degrade to an empty result, never an error.
func (e *Extractor) Items(data []byte) []Item {
	if len(data) == 0 {
		return nil
	}
	rows, err := rowsFromPDF(data)
	if err != nil {
		e.logger.Debug("tabular.rows_failed", "error", err, "bytes", len(data))
	}
	if items := itemsFromRows(rows); len(items) > 0 {
		e.logger.Debug("tabular.table_hit", "items", len(items))
		return items
	}

	text, err := normalize.ExtractPDFText(data)
	if err != nil {
		return nil
	}
	items := itemsFromLines(text)
	if len(items) > 0 {
		e.logger.Debug("tabular.line_scan_hit", "items", len(items))
	}
	return items
}

// rowsFromPDF flattens every page into rows of trimmed cell strings.
func rowsFromPDF(data []byte) (_ [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf row extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var out [][]string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				if s := strings.TrimSpace(word.S); s != "" {
					cells = append(cells, s)
				}
			}
			out = append(out, cells)
		}
	}
	return out, nil
}

// itemsFromRows applies the header gate and parses the first candidate
// table's data rows. First table with at least one item wins.
func itemsFromRows(rows [][]string) []Item {
	for i, row := range rows {
		if !isItemHeader(row) {
			continue
		}
		var items []Item
		for _, r := range rows[i+1:] {
			if len(r) == 0 || isTotalRow(r) {
				break
			}
			if len(r) < 2 {
				continue
			}
			pid := strings.TrimSpace(r[0])
			if pid == "" {
				continue
			}
			qty, ok := parseQuantity(r[1])
			if !ok {
				continue
			}
			items = append(items, Item{ProductID: pid, Quantity: qty})
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

// isItemHeader requires both a product label and a quantity label,
// accepting either the Japanese or the English term.
func isItemHeader(row []string) bool {
	joined := strings.ToLower(strings.Join(row, " "))
	product := strings.Contains(joined, "商品") || strings.Contains(joined, "product")
	quantity := strings.Contains(joined, "数量") || strings.Contains(joined, "quantity") || strings.Contains(joined, "qty")
	return product && quantity
}

func isTotalRow(row []string) bool {
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return strings.HasPrefix(first, "合計") || strings.HasPrefix(first, "total")
}

func parseQuantity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
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

// lineItemPattern matches "<name> <unit-price> <quantity> <line-total>" with
// thousands-separated numeric price/total tokens.
var lineItemPattern = regexp.MustCompile(`^(.+?)\s+(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s+(\d+)\s+(\d{1,3}(?:,\d{3})*(?:\.\d+)?)$`)

// itemsFromLines is the free-text fallback over extracted PDF text.
func itemsFromLines(text string) []Item {
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		m := lineItemPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		qty, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		items = append(items, Item{ProductID: strings.TrimSpace(m[1]), Quantity: qty})
	}
	return items
}
