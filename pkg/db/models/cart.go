package models

import (
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart holds a user's open basket. A partial unique index on
// (user_id) WHERE status = 'active' guarantees at most one active
// cart per user; completed carts stay behind as immutable history.
// TotalCount and TotalPrice are maintained on every mutation, never
// recomputed by readers.
type Cart struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	Status     enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	TotalCount int              `gorm:"column:total_count;not null;default:0"`
	TotalPrice decimal.Decimal  `gorm:"column:total_price;type:numeric(12,2);not null;default:0"`
	Items      []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one product line inside a cart. UnitPrice snapshots the
// product price at add time.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Discount  decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
