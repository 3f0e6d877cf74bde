package orders

import (
	"context"

	"github.com/orderdesk/order-intake/internal/notion"
)

// RecordStore is the slice of the record store the order service needs.
// Satisfied by *notion.Client.
type RecordStore interface {
	GetProduct(ctx context.Context, productID string) (*notion.Page, error)
	GetCustomer(ctx context.Context, customerName string) (*notion.Page, error)
	CreateCustomer(ctx context.Context, customer notion.CustomerPage) (*notion.Page, error)
	CreateOrder(ctx context.Context, page notion.OrderPage) (*notion.Page, error)
	GetProductStock(ctx context.Context, productID string) (int, error)
	UpdateProductStock(ctx context.Context, pageID string, newStock int) error
}

// Mailer sends the customer-facing confirmation mail. The zero-config
// deployment uses NoopMailer.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NoopMailer satisfies Mailer without sending anything.
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, string, string, string) error { return nil }
