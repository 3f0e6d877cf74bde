package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/orderdesk/order-intake/internal/common"
	"github.com/orderdesk/order-intake/internal/notion"
	"github.com/orderdesk/order-intake/internal/order"
)

// Service registers approved orders in the record store and keeps stock in
// step. Registration is create-order-then-decrement; the store has no
// transactions, so the order page is the source of truth and stock repair is
// a manual follow-up if the decrement write fails.
type Service struct {
	store  RecordStore
	mailer Mailer
	now    func() time.Time
	logger *slog.Logger
}

func NewService(store RecordStore, mailer Mailer, logger *slog.Logger) *Service {
	if mailer == nil {
		mailer = NoopMailer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		mailer: mailer,
		now:    time.Now,
		logger: logger,
	}
}

// NewOrderID mints an order id from the current timestamp.
func (s *Service) NewOrderID() string {
	return "ORD" + s.now().UTC().Format("20060102150405")
}

// CheckStock reports whether the product has at least quantity units left.
func (s *Service) CheckStock(ctx context.Context, productID string, quantity int) (bool, error) {
	stock, err := s.store.GetProductStock(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("check stock for %s: %w", productID, err)
	}
	return stock >= quantity, nil
}

// ProcessOrder registers one approved record: resolves the product, verifies
// stock, resolves or auto-registers the customer, creates the order page,
// decrements stock, and optionally mails the customer a confirmation.
func (s *Service) ProcessOrder(ctx context.Context, rec order.Record, orderID, status, approvedBy string) (*notion.Page, error) {
	product, err := s.store.GetProduct(ctx, rec.ProductID)
	if err != nil {
		return nil, fmt.Errorf("resolve product %s: %w", rec.ProductID, err)
	}

	ok, err := s.CheckStock(ctx, rec.ProductID, rec.Quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NewAppError("INSUFFICIENT_STOCK",
			fmt.Sprintf("product %s has fewer than %d units", rec.ProductID, rec.Quantity),
			common.ErrStock)
	}

	customer, err := s.resolveCustomer(ctx, rec.CustomerName)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateOrder(ctx, notion.OrderPage{
		OrderID:        orderID,
		Quantity:       rec.Quantity,
		DeliveryDate:   rec.DeliveryDateString(),
		Status:         status,
		ApprovedBy:     approvedBy,
		CustomerPageID: customer.ID,
		ProductPageID:  product.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create order %s: %w", orderID, err)
	}

	stock, err := s.store.GetProductStock(ctx, rec.ProductID)
	if err != nil {
		return nil, fmt.Errorf("reread stock for %s: %w", rec.ProductID, err)
	}
	if err := s.store.UpdateProductStock(ctx, product.ID, stock-rec.Quantity); err != nil {
		return nil, fmt.Errorf("decrement stock for %s: %w", rec.ProductID, err)
	}
	s.logger.Info("orders.registered",
		"order_id", orderID,
		"product_id", rec.ProductID,
		"quantity", rec.Quantity,
		"stock_after", stock-rec.Quantity,
	)

	s.sendConfirmation(ctx, rec, orderID, customer)
	return created, nil
}

// resolveCustomer finds the customer page, registering a new one when the
// name is unknown. First orders from new customers are expected in this
// flow, so not-found is a registration trigger rather than an error.
func (s *Service) resolveCustomer(ctx context.Context, customerName string) (*notion.Page, error) {
	customer, err := s.store.GetCustomer(ctx, customerName)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("resolve customer %s: %w", customerName, err)
	}

	s.logger.Info("orders.customer.auto_register", "customer_name", customerName)
	created, err := s.store.CreateCustomer(ctx, notion.CustomerPage{
		CustomerName:   customerName,
		FirstOrderDate: s.now().UTC().Format("2006-01-02"),
		IsExisting:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("register customer %s: %w", customerName, err)
	}
	return created, nil
}

// sendConfirmation mails the customer if an email property is on file.
// Best effort: the order is already registered, so a mail failure is logged
// and swallowed.
func (s *Service) sendConfirmation(ctx context.Context, rec order.Record, orderID string, customer *notion.Page) {
	emailProp, ok := customer.Properties["email"]
	if !ok || emailProp.Email == nil || *emailProp.Email == "" {
		return
	}
	subject := fmt.Sprintf("ご注文ありがとうございます（%s）", orderID)
	body := fmt.Sprintf("%s 様\nご注文 %s を承りました。\n商品ID: %s\n数量: %d\n配送予定日: %s\n",
		rec.CustomerName, orderID, rec.ProductID, rec.Quantity, rec.DeliveryDateString())
	if err := s.mailer.Send(ctx, *emailProp.Email, subject, body); err != nil {
		s.logger.Warn("orders.confirmation_mail.failed", "order_id", orderID, "error", err)
	}
}
