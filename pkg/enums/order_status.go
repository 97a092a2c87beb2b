package enums

import "fmt"

// OrderStatus is the lifecycle state of a placed order. Values keep
// the storefront's Turkish wording.
type OrderStatus string

const (
	OrderStatusPreparing OrderStatus = "Hazırlanıyor"
	OrderStatusShipped   OrderStatus = "Kargoda"
	OrderStatusDelivered OrderStatus = "Teslim Edildi"
	OrderStatusCanceled  OrderStatus = "İptal Edildi"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPreparing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered || o == OrderStatusCanceled
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
