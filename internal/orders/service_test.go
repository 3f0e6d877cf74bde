package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-intake/internal/common"
	"github.com/orderdesk/order-intake/internal/notion"
	"github.com/orderdesk/order-intake/internal/order"
)

type fakeStore struct {
	stock            map[string]int
	customers        map[string]*notion.Page
	createdOrders    []notion.OrderPage
	createdCustomers []notion.CustomerPage
	stockWrites      map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stock:       map[string]int{"A001": 10},
		customers:   map[string]*notion.Page{},
		stockWrites: map[string]int{},
	}
}

func (f *fakeStore) GetProduct(_ context.Context, productID string) (*notion.Page, error) {
	if _, ok := f.stock[productID]; !ok {
		return nil, common.NewAppError("PRODUCT_NOT_FOUND", productID, common.ErrNotFound)
	}
	return &notion.Page{ID: "page-" + productID}, nil
}

func (f *fakeStore) GetCustomer(_ context.Context, name string) (*notion.Page, error) {
	if page, ok := f.customers[name]; ok {
		return page, nil
	}
	return nil, common.NewAppError("CUSTOMER_NOT_FOUND", name, common.ErrNotFound)
}

func (f *fakeStore) CreateCustomer(_ context.Context, customer notion.CustomerPage) (*notion.Page, error) {
	f.createdCustomers = append(f.createdCustomers, customer)
	page := &notion.Page{ID: "cust-" + customer.CustomerName, Properties: map[string]notion.Property{}}
	f.customers[customer.CustomerName] = page
	return page, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, page notion.OrderPage) (*notion.Page, error) {
	f.createdOrders = append(f.createdOrders, page)
	return &notion.Page{ID: "order-" + page.OrderID}, nil
}

func (f *fakeStore) GetProductStock(_ context.Context, productID string) (int, error) {
	stock, ok := f.stock[productID]
	if !ok {
		return 0, common.NewAppError("PRODUCT_NOT_FOUND", productID, common.ErrNotFound)
	}
	return stock, nil
}

func (f *fakeStore) UpdateProductStock(_ context.Context, pageID string, newStock int) error {
	f.stockWrites[pageID] = newStock
	return nil
}

type recordingMailer struct {
	to, subject, body string
	sent              int
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	m.sent++
	return nil
}

func testRecord() order.Record {
	return order.Record{
		CustomerName: "テスト商店",
		ProductID:    "A001",
		Quantity:     3,
		DeliveryDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestProcessOrderRegistersAndDecrementsStock(t *testing.T) {
	store := newFakeStore()
	store.customers["テスト商店"] = &notion.Page{ID: "cust-1", Properties: map[string]notion.Property{}}
	svc := NewService(store, nil, nil)

	created, err := svc.ProcessOrder(context.Background(), testRecord(), "ORD1", "approved", "U123")
	require.NoError(t, err)
	assert.Equal(t, "order-ORD1", created.ID)

	require.Len(t, store.createdOrders, 1)
	got := store.createdOrders[0]
	assert.Equal(t, "ORD1", got.OrderID)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, "2025-08-01", got.DeliveryDate)
	assert.Equal(t, "approved", got.Status)
	assert.Equal(t, "U123", got.ApprovedBy)
	assert.Equal(t, "cust-1", got.CustomerPageID)
	assert.Equal(t, "page-A001", got.ProductPageID)

	assert.Equal(t, 7, store.stockWrites["page-A001"])
}

func TestProcessOrderAutoRegistersCustomer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, nil)

	_, err := svc.ProcessOrder(context.Background(), testRecord(), "ORD2", "approved", "U123")
	require.NoError(t, err)
	require.Len(t, store.createdCustomers, 1)
	assert.Equal(t, "テスト商店", store.createdCustomers[0].CustomerName)
	assert.False(t, store.createdCustomers[0].IsExisting)
}

func TestProcessOrderInsufficientStock(t *testing.T) {
	store := newFakeStore()
	store.stock["A001"] = 2
	svc := NewService(store, nil, nil)

	_, err := svc.ProcessOrder(context.Background(), testRecord(), "ORD3", "approved", "U123")
	assert.ErrorIs(t, err, common.ErrStock)
	assert.Empty(t, store.createdOrders, "no order page on stock failure")
	assert.Empty(t, store.stockWrites)
}

func TestProcessOrderUnknownProduct(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, nil)

	rec := testRecord()
	rec.ProductID = "ZZZ"
	_, err := svc.ProcessOrder(context.Background(), rec, "ORD4", "approved", "U123")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProcessOrderMailsCustomerWithEmailOnFile(t *testing.T) {
	store := newFakeStore()
	email := "shop@example.jp"
	store.customers["テスト商店"] = &notion.Page{
		ID:         "cust-1",
		Properties: map[string]notion.Property{"email": {Email: &email}},
	}
	mailer := &recordingMailer{}
	svc := NewService(store, mailer, nil)

	_, err := svc.ProcessOrder(context.Background(), testRecord(), "ORD5", "approved", "U123")
	require.NoError(t, err)
	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "shop@example.jp", mailer.to)
	assert.Contains(t, mailer.subject, "ORD5")
	assert.Contains(t, mailer.body, "A001")
}

func TestCheckStock(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, nil)

	ok, err := svc.CheckStock(context.Background(), "A001", 10)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckStock(context.Background(), "A001", 11)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewOrderIDUsesTimestamp(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 8, 1, 12, 30, 45, 0, time.UTC) }
	assert.Equal(t, "ORD20250801123045", svc.NewOrderID())
}
