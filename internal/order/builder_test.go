package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-intake/internal/extract"
)

func intPtr(n int) *int { return &n }

func TestRepairDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2025", want: "2025-01-01"},
		{in: "2025-08", want: "2025-08-01"},
		{in: "2025-08-01", want: "2025-08-01"},
		{in: "2025/08/01", wantErr: true},
		{in: "August 1st", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := RepairDate(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Format("2006-01-02"))
		})
	}
}

func TestBuildSingleItem(t *testing.T) {
	records, err := Build(extract.Fields{
		CustomerName: "テスト商店",
		ProductID:    "A001",
		Quantity:     intPtr(5),
		DeliveryDate: "2025-07-20",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "テスト商店", records[0].CustomerName)
	assert.Equal(t, "A001", records[0].ProductID)
	assert.Equal(t, 5, records[0].Quantity)
	assert.Equal(t, time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC), records[0].DeliveryDate)
}

func TestBuildMultiItemSharesCustomerAndDate(t *testing.T) {
	records, err := Build(extract.Fields{
		CustomerName: "テスト商店",
		DeliveryDate: "2025-08-01",
		Items: []extract.LineItem{
			{ProductID: "A001", Quantity: 2},
			{ProductID: "B002", Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "テスト商店", r.CustomerName)
		assert.Equal(t, "2025-08-01", r.DeliveryDateString())
	}
	assert.Equal(t, "A001", records[0].ProductID)
	assert.Equal(t, 2, records[0].Quantity)
	assert.Equal(t, "B002", records[1].ProductID)
	assert.Equal(t, 3, records[1].Quantity)
}

func TestBuildMissingFields(t *testing.T) {
	_, err := Build(extract.Fields{
		CustomerName: "テスト商店",
		ProductID:    "A001",
		DeliveryDate: "2025-07-20",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Missing, "quantity")

	_, err = Build(extract.Fields{})
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"customer_name", "product_id", "quantity", "delivery_date"}, verr.Missing)
}

func TestBuildMultiItemMissingCustomer(t *testing.T) {
	_, err := Build(extract.Fields{
		DeliveryDate: "2025-08-01",
		Items:        []extract.LineItem{{ProductID: "A001", Quantity: 1}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"customer_name"}, verr.Missing)
}

func TestBuildBadDateCarriesFields(t *testing.T) {
	fields := extract.Fields{
		CustomerName: "テスト商店",
		ProductID:    "A001",
		Quantity:     intPtr(1),
		DeliveryDate: "2025/08/01",
	}
	_, err := Build(fields)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, verr.Missing)
	assert.Equal(t, fields, verr.Fields)
}
