package order

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/orderdesk/order-intake/internal/extract"
)

// ValidationError reports an extracted mapping that cannot become order
// records: required fields missing, or a delivery date that fails repair.
// The offending mapping rides along for diagnosis.
type ValidationError struct {
	Missing []string
	Reason  string
	Fields  extract.Fields
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("order validation failed: missing %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("order validation failed: %s", e.Reason)
}

var (
	yearOnly      = regexp.MustCompile(`^\d{4}$`)
	yearMonthOnly = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// RepairDate completes partial dates and strictly parses the result.
// A bare year becomes Jan 1, a year-month becomes the 1st; anything else
// must already be YYYY-MM-DD. Ambiguous formats are a hard error, never a
// guess.
func RepairDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	switch {
	case yearOnly.MatchString(s):
		s += "-01-01"
	case yearMonthOnly.MatchString(s):
		s += "-01"
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable delivery date %q: %w", raw, err)
	}
	return t, nil
}

// Build expands a validated mapping into records, one per line item. Multi-
// item mappings share customer and delivery date across all records.
func Build(fields extract.Fields) ([]Record, error) {
	if fields.Multi() {
		return buildMulti(fields)
	}
	return buildSingle(fields)
}

func buildMulti(fields extract.Fields) ([]Record, error) {
	var missing []string
	if fields.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if fields.DeliveryDate == "" {
		missing = append(missing, "delivery_date")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing, Fields: fields}
	}

	date, err := RepairDate(fields.DeliveryDate)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error(), Fields: fields}
	}

	records := make([]Record, 0, len(fields.Items))
	for _, item := range fields.Items {
		records = append(records, Record{
			CustomerName: fields.CustomerName,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			DeliveryDate: date,
		})
	}
	return records, nil
}

func buildSingle(fields extract.Fields) ([]Record, error) {
	var missing []string
	if fields.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if fields.ProductID == "" {
		missing = append(missing, "product_id")
	}
	if fields.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if fields.DeliveryDate == "" {
		missing = append(missing, "delivery_date")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing, Fields: fields}
	}

	date, err := RepairDate(fields.DeliveryDate)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error(), Fields: fields}
	}

	return []Record{{
		CustomerName: fields.CustomerName,
		ProductID:    fields.ProductID,
		Quantity:     *fields.Quantity,
		DeliveryDate: date,
	}}, nil
}
