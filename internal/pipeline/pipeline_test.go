package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-intake/internal/extract"
	"github.com/orderdesk/order-intake/internal/normalize"
	"github.com/orderdesk/order-intake/internal/order"
	"github.com/orderdesk/order-intake/internal/tabular"
)

type stubExtractor struct {
	fields extract.Fields
	err    error
	calls  int
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (extract.Fields, error) {
	s.calls++
	return s.fields, s.err
}

type stubTables struct {
	items []tabular.Item
}

func (s stubTables) Items(_ []byte) []tabular.Item { return s.items }

func qty(n int) *int { return &n }

func TestProcessTextRunsCascade(t *testing.T) {
	ext := &stubExtractor{fields: extract.Fields{
		CustomerName: "テスト商店",
		ProductID:    "A001",
		Quantity:     qty(5),
		DeliveryDate: "2025-07-20",
	}}
	p := New(normalize.New(nil, nil), nil, ext, nil)

	records, err := p.Process(context.Background(), normalize.TextInput("顧客: テスト商店"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A001", records[0].ProductID)
	assert.Equal(t, 1, ext.calls)
}

func TestProcessTableHitSkipsCascade(t *testing.T) {
	ext := &stubExtractor{}
	tables := stubTables{items: []tabular.Item{
		{ProductID: "A001", Quantity: 2},
		{ProductID: "B002", Quantity: 3},
	}}
	p := New(normalize.New(nil, nil), tables, ext, nil)

	pdf := []byte("%PDF-1.4 stub")
	in := normalize.DocumentInput("顧客: テスト商店\n配送希望日: 2025-08-01", pdf)

	records, err := p.Process(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "テスト商店", records[0].CustomerName)
	assert.Equal(t, "2025-08-01", records[0].DeliveryDateString())
	assert.Equal(t, "B002", records[1].ProductID)
	assert.Zero(t, ext.calls, "structural items make the cascade unnecessary")
}

func TestProcessTableMissFallsThrough(t *testing.T) {
	ext := &stubExtractor{fields: extract.Fields{
		CustomerName: "テスト商店",
		ProductID:    "A001",
		Quantity:     qty(1),
		DeliveryDate: "2025-08-01",
	}}
	p := New(normalize.New(nil, nil), stubTables{}, ext, nil)

	in := normalize.DocumentInput("body", []byte("%PDF-1.4 stub"))
	records, err := p.Process(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, ext.calls)
}

func TestProcessEmptyMappingIsValidationError(t *testing.T) {
	p := New(normalize.New(nil, nil), nil, &stubExtractor{}, nil)

	_, err := p.Process(context.Background(), normalize.TextInput("nothing useful"))
	var verr *order.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Missing, "customer_name")
}

func TestProcessIsIdempotent(t *testing.T) {
	ext := &stubExtractor{fields: extract.Fields{
		CustomerName: "テスト商店",
		ProductID:    "A001",
		Quantity:     qty(5),
		DeliveryDate: "2025-07-20",
	}}
	p := New(normalize.New(nil, nil), nil, ext, nil)

	in := normalize.TextInput("顧客: テスト商店")
	first, err := p.Process(context.Background(), in)
	require.NoError(t, err)
	second, err := p.Process(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
