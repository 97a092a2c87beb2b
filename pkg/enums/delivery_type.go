package enums

import "fmt"

// DeliveryType selects how a checked-out order reaches the customer.
// Values keep the storefront's Turkish wording: courier shipping or
// pickup at the store.
type DeliveryType string

const (
	DeliveryTypeCourier DeliveryType = "Kargo"
	DeliveryTypePickup  DeliveryType = "Mağaza Teslim"
)

var validDeliveryTypes = []DeliveryType{
	DeliveryTypeCourier,
	DeliveryTypePickup,
}

// String implements fmt.Stringer.
func (d DeliveryType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryType.
func (d DeliveryType) IsValid() bool {
	for _, candidate := range validDeliveryTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// RequiresAddress reports whether checkout must resolve a saved address.
func (d DeliveryType) RequiresAddress() bool {
	return d == DeliveryTypeCourier
}

// ParseDeliveryType converts raw input into a DeliveryType.
func ParseDeliveryType(value string) (DeliveryType, error) {
	for _, candidate := range validDeliveryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery type %q", value)
}
