package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orderdesk/order-intake/internal/order"
)

func TestOrdersXLSX(t *testing.T) {
	svc := NewService(nil)
	records := []order.Record{
		{CustomerName: "テスト商店", ProductID: "A001", Quantity: 2, DeliveryDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{CustomerName: "テスト商店", ProductID: "B002", Quantity: 3, DeliveryDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
	}

	data, err := svc.OrdersXLSX(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Customer", "Product ID", "Quantity", "Delivery Date"}, rows[0])
	assert.Equal(t, []string{"テスト商店", "A001", "2", "2025-08-01"}, rows[1])
	assert.Equal(t, "B002", rows[2][1])
}

func TestOrdersXLSXEmpty(t *testing.T) {
	svc := NewService(nil)
	data, err := svc.OrdersXLSX(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
