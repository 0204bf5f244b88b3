package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TotalTolerance is the largest accepted gap between a declared order total
// and the sum of its line items.
var TotalTolerance = decimal.RequireFromString("0.01")

var ErrTotalMismatch = errors.New("order total does not match the sum of its items")

type OrderItem struct {
	ProductID int64   `json:"product_id" validate:"gte=0"`
	Title     string  `json:"title" validate:"required"`
	Price     float64 `json:"price" validate:"gt=0"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
}

type Order struct {
	ID                int64       `json:"id"`
	Items             []OrderItem `json:"items"`
	Total             float64     `json:"total"`
	CustomerEmail     string      `json:"customer_email"`
	Status            OrderStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	CustomerName      string      `json:"customer_name,omitempty"`
	ShippingAddress   string      `json:"shipping_address,omitempty"`
	BillingAddress    string      `json:"billing_address,omitempty"`
	PaymentMethod     string      `json:"payment_method,omitempty"`
	TrackingNumber    string      `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time  `json:"estimated_delivery,omitempty"`
}

// OrderDraft is the client-supplied content of an order, used both for
// checkout and for full replacement.
type OrderDraft struct {
	Items             []OrderItem `json:"items" validate:"required,min=1,dive"`
	Total             float64     `json:"total" validate:"gt=0"`
	CustomerEmail     string      `json:"customer_email" validate:"required,customer_email"`
	Status            string      `json:"status"`
	CustomerName      string      `json:"customer_name" validate:"max=255"`
	ShippingAddress   string      `json:"shipping_address"`
	BillingAddress    string      `json:"billing_address"`
	PaymentMethod     string      `json:"payment_method" validate:"max=50"`
	TrackingNumber    string      `json:"tracking_number" validate:"max=100"`
	EstimatedDelivery *time.Time  `json:"estimated_delivery"`
}

// ItemsTotal sums price x quantity in decimal arithmetic.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Reconcile checks the declared total against the items.
func (d OrderDraft) Reconcile() error {
	sum := ItemsTotal(d.Items)
	declared := decimal.NewFromFloat(d.Total)
	if sum.Sub(declared).Abs().GreaterThanOrEqual(TotalTolerance) {
		return fmt.Errorf("%w: items sum to %s, declared %s",
			ErrTotalMismatch, sum.StringFixed(2), declared.StringFixed(2))
	}
	return nil
}

// Apply overwrites every client-owned field of o with the draft. The status
// must already be parsed.
func (d OrderDraft) Apply(o *Order, status OrderStatus) {
	items := make([]OrderItem, len(d.Items))
	copy(items, d.Items)

	o.Items = items
	o.Total = d.Total
	o.CustomerEmail = d.CustomerEmail
	o.Status = status
	o.CustomerName = d.CustomerName
	o.ShippingAddress = d.ShippingAddress
	o.BillingAddress = d.BillingAddress
	o.PaymentMethod = d.PaymentMethod
	o.TrackingNumber = d.TrackingNumber
	o.EstimatedDelivery = d.EstimatedDelivery
}
