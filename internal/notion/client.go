package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/orderdesk/order-intake/internal/common"
)

// do sends one JSON request to the Notion API and decodes the response into
// out. Non-2xx responses surface as errors carrying the response body, which
// Notion fills with the reason a payload was rejected.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal notion request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build notion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("notion.request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read notion response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("notion.request.failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return common.NewAppError("NOTION_API",
			fmt.Sprintf("%s %s returned %d", method, path, resp.StatusCode),
			common.ErrStore)
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode notion response: %w", err)
		}
	}
	return nil
}

// QueryDatabase runs a filtered query against one database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter any) ([]Page, error) {
	var resp queryResponse
	err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", queryRequest{Filter: filter}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetProduct looks a product page up by its id title property, falling back
// to a name match when the id filter finds nothing. Catalog data sometimes
// arrives keyed by display name instead of code, so both are tried.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Page, error) {
	for _, property := range []string{"id", "name"} {
		pages, err := c.QueryDatabase(ctx, c.cfg.ProductsDB, richTextFilter{
			Property: property,
			RichText: equalsValue{Equals: productID},
		})
		if err != nil {
			c.logger.Warn("notion.get_product.filter_failed", "property", property, "error", err)
			continue
		}
		if len(pages) > 0 {
			return &pages[0], nil
		}
	}
	return nil, common.NewAppError("PRODUCT_NOT_FOUND", "product "+productID+" not found", common.ErrNotFound)
}

// GetCustomer returns the customer page whose customer_name matches, or
// common.ErrNotFound.
func (c *Client) GetCustomer(ctx context.Context, customerName string) (*Page, error) {
	pages, err := c.QueryDatabase(ctx, c.cfg.CustomersDB, richTextFilter{
		Property: "customer_name",
		RichText: equalsValue{Equals: customerName},
	})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, common.NewAppError("CUSTOMER_NOT_FOUND", "customer "+customerName+" not found", common.ErrNotFound)
	}
	return &pages[0], nil
}

// GetProductStock reads the stock number off the product page.
func (c *Client) GetProductStock(ctx context.Context, productID string) (int, error) {
	page, err := c.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	prop, ok := page.Properties["stock"]
	if !ok || prop.Number == nil {
		return 0, common.NewAppError("STOCK_MISSING", "product "+productID+" has no stock property", common.ErrStore)
	}
	return int(*prop.Number), nil
}

// UpdateProductStock writes the new stock level and stamps last_updated.
func (c *Client) UpdateProductStock(ctx context.Context, pageID string, newStock int) error {
	props := map[string]Property{
		"stock":        numberProp(float64(newStock)),
		"last_updated": dateProp(time.Now().UTC().Format(time.RFC3339)),
	}
	return c.do(ctx, http.MethodPatch, "/pages/"+pageID, updatePageRequest{Properties: props}, nil)
}

// OrderPage is the write shape for the orders databases. Which database and
// property layout it lands as depends on which optional fields are set:
// SubTotal selects the order-detail shape, TotalPrice the order-header
// shape, neither the flat single-product shape.
type OrderPage struct {
	OrderID        string
	Quantity       int
	DeliveryDate   string
	Status         string
	ApprovedBy     string
	CustomerPageID string
	ProductPageID  string
	OrderPageID    string
	SubTotal       *float64
	TotalPrice     *float64
}

// CreateOrder writes one order page in whichever of the three shapes the
// payload selects.
func (c *Client) CreateOrder(ctx context.Context, page OrderPage) (*Page, error) {
	var req createPageRequest
	switch {
	case page.SubTotal != nil:
		props := map[string]Property{
			"id":        titleProp(page.OrderID),
			"quantity":  numberProp(float64(page.Quantity)),
			"sub_total": numberProp(*page.SubTotal),
		}
		if page.OrderPageID != "" {
			props["orders"] = relationProp(page.OrderPageID)
		}
		if page.ProductPageID != "" {
			props["products"] = relationProp(page.ProductPageID)
		}
		req = createPageRequest{
			Parent:     parentRef{DatabaseID: c.cfg.OrderDetailsDB},
			Properties: props,
		}
	case page.TotalPrice != nil:
		props := map[string]Property{
			"order_id":      titleProp(page.OrderID),
			"total_price":   numberProp(*page.TotalPrice),
			"delivery_date": dateProp(page.DeliveryDate),
			"status":        selectProp(page.Status),
			"approved_by":   textProp(page.ApprovedBy),
		}
		if page.CustomerPageID != "" {
			props["customers"] = relationProp(page.CustomerPageID)
		}
		req = createPageRequest{
			Parent:     parentRef{DatabaseID: c.cfg.OrdersDB},
			Properties: props,
		}
	default:
		props := map[string]Property{
			"order_id":      titleProp(page.OrderID),
			"quantity":      numberProp(float64(page.Quantity)),
			"delivery_date": dateProp(page.DeliveryDate),
			"status":        selectProp(page.Status),
			"approved_by":   textProp(page.ApprovedBy),
			"created_at":    dateProp(time.Now().UTC().Format(time.RFC3339)),
		}
		if page.CustomerPageID != "" {
			props["customers"] = relationProp(page.CustomerPageID)
		}
		if page.ProductPageID != "" {
			props["products"] = relationProp(page.ProductPageID)
		}
		req = createPageRequest{
			Parent:     parentRef{DatabaseID: c.cfg.OrdersDB},
			Properties: props,
		}
	}

	var created Page
	if err := c.do(ctx, http.MethodPost, "/pages", req, &created); err != nil {
		return nil, err
	}
	c.logger.Info("notion.order.created", "order_id", page.OrderID, "page_id", created.ID)
	return &created, nil
}

// ProductPage is the write shape for the products database.
type ProductPage struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Stock       int
}

// CreateProduct writes one product page; used by the catalog seeder.
func (c *Client) CreateProduct(ctx context.Context, product ProductPage) (*Page, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	props := map[string]Property{
		"id":           titleProp(product.ID),
		"name":         textProp(product.Name),
		"description":  textProp(product.Description),
		"price":        numberProp(product.Price),
		"stock":        numberProp(float64(product.Stock)),
		"created_at":   dateProp(now),
		"last_updated": dateProp(now),
	}
	var created Page
	err := c.do(ctx, http.MethodPost, "/pages", createPageRequest{
		Parent:     parentRef{DatabaseID: c.cfg.ProductsDB},
		Properties: props,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CustomerPage is the write shape for the customers database.
type CustomerPage struct {
	ID             string
	CustomerName   string
	Email          string
	FirstOrderDate string
	IsExisting     bool
}

// CreateCustomer registers a customer page. The id title falls back to the
// customer name when no explicit id is given, matching how auto-registered
// customers are keyed.
func (c *Client) CreateCustomer(ctx context.Context, customer CustomerPage) (*Page, error) {
	id := customer.ID
	if id == "" {
		id = customer.CustomerName
	}
	props := map[string]Property{
		"id":            titleProp(id),
		"customer_name": textProp(customer.CustomerName),
		"is_existing":   checkboxProp(customer.IsExisting),
		"created_at":    dateProp(time.Now().UTC().Format(time.RFC3339)),
	}
	if customer.Email != "" {
		email := customer.Email
		props["email"] = Property{Email: &email}
	}
	if customer.FirstOrderDate != "" {
		props["first_order_date"] = dateProp(customer.FirstOrderDate)
	}
	var created Page
	err := c.do(ctx, http.MethodPost, "/pages", createPageRequest{
		Parent:     parentRef{DatabaseID: c.cfg.CustomersDB},
		Properties: props,
	}, &created)
	if err != nil {
		return nil, err
	}
	c.logger.Info("notion.customer.created", "customer_name", customer.CustomerName)
	return &created, nil
}
