// Package order validates extracted field mappings into canonical order
// records.
package order

import "time"

// Record is the validated, canonical output of the pipeline: one line item
// with its customer and delivery date. Immutable once built; downstream
// collaborators project it into their own payloads and never mutate it.
type Record struct {
	CustomerName string    `json:"customer_name"`
	ProductID    string    `json:"product_id"`
	Quantity     int       `json:"quantity"`
	DeliveryDate time.Time `json:"delivery_date"`
}

// DeliveryDateString renders the date in the ISO form used by every
// downstream payload.
func (r Record) DeliveryDateString() string {
	return r.DeliveryDate.Format("2006-01-02")
}
