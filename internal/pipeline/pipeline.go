package pipeline

import (
	"context"
	"log/slog"

	"github.com/orderdesk/order-intake/internal/extract"
	"github.com/orderdesk/order-intake/internal/normalize"
	"github.com/orderdesk/order-intake/internal/order"
	"github.com/orderdesk/order-intake/internal/tabular"
)

// Extractor produces a field mapping from normalized text. Satisfied by
// *extract.Cascade; narrowed to an interface so tests can substitute
// deterministic mappings.
type Extractor interface {
	Extract(ctx context.Context, text string) (extract.Fields, error)
}

// TableScanner pulls line items straight out of a PDF's table structures,
// bypassing text extraction. Satisfied by *tabular.Extractor.
type TableScanner interface {
	Items(data []byte) []tabular.Item
}

// Pipeline wires normalization, table scanning, the extraction cascade and
// record building into a single document-in, records-out operation.
type Pipeline struct {
	normalizer *normalize.Normalizer
	tables     TableScanner
	extractor  Extractor
	logger     *slog.Logger
}

func New(normalizer *normalize.Normalizer, tables TableScanner, extractor Extractor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		normalizer: normalizer,
		tables:     tables,
		extractor:  extractor,
		logger:     logger,
	}
}

// Process turns one raw document into validated order records.
//
// PDF inputs get a structural pass first: if the attachment's own table
// layout yields items, those are authoritative and the text cascade only
// supplies customer and date. Otherwise the normalized text runs through
// the full cascade. Either way the mapping must survive record building;
// a *order.ValidationError reports what was missing.
func (p *Pipeline) Process(ctx context.Context, in normalize.RawInput) ([]order.Record, error) {
	text := p.normalizer.Normalize(ctx, in)

	if data := in.PDFBytes(); len(data) > 0 && p.tables != nil {
		if items := p.tables.Items(data); len(items) > 0 {
			fields := extract.Fields{
				CustomerName: extract.ScanCustomer(text),
				DeliveryDate: extract.ScanDeliveryDate(text),
				Items:        toLineItems(items),
			}
			p.logger.Debug("pipeline.table_hit", "items", len(items))
			return order.Build(fields)
		}
	}

	fields, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	return order.Build(fields)
}

func toLineItems(items []tabular.Item) []extract.LineItem {
	out := make([]extract.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, extract.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
