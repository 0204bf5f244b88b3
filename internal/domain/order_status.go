package domain

import (
	"errors"
	"strings"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var ErrUnknownStatus = errors.New("unknown order status")

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Portuguese labels kept by older clients, mapped by meaning.
var legacyStatusLabels = map[string]OrderStatus{
	"PENDENTE":    OrderStatusPending,
	"PROCESSANDO": OrderStatusProcessing,
	"ENVIADO":     OrderStatusShipped,
	"ENTREGUE":    OrderStatusDelivered,
	"CANCELADO":   OrderStatusCancelled,
}

// ParseOrderStatus is case-insensitive and always returns the canonical
// uppercase form. An empty input yields PENDING.
func ParseOrderStatus(s string) (OrderStatus, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if norm == "" {
		return OrderStatusPending, nil
	}
	for _, st := range OrderStatuses {
		if string(st) == norm {
			return st, nil
		}
	}
	if st, ok := legacyStatusLabels[norm]; ok {
		return st, nil
	}
	return "", ErrUnknownStatus
}

// Valid reports whether s is one of the canonical statuses.
func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
