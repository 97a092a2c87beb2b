package models

import (
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is written exactly once, at checkout. Its items are a deep
// snapshot of the cart at that moment and are never re-derived from
// live product rows.
type Order struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	AddressID       uuid.UUID          `gorm:"column:address_id;type:uuid;not null"`
	OrderDate       time.Time          `gorm:"column:order_date;not null"`
	TotalCount      int                `gorm:"column:total_count;not null"`
	TotalPrice      decimal.Decimal    `gorm:"column:total_price;type:numeric(12,2);not null"`
	TotalFinalPrice decimal.Decimal    `gorm:"column:total_final_price;type:numeric(12,2);not null"`
	DeliveryType    enums.DeliveryType `gorm:"column:delivery_type;type:text;not null"`
	DeliveryCost    decimal.Decimal    `gorm:"column:delivery_cost;type:numeric(12,2);not null;default:0"`
	DiscountCost    decimal.Decimal    `gorm:"column:discount_cost;type:numeric(12,2);not null;default:0"`
	OrderStatus     enums.OrderStatus  `gorm:"column:order_status;type:text;not null"`
	CancelFlag      bool               `gorm:"column:cancel_flag;not null;default:false"`
	CancelDate      *time.Time         `gorm:"column:cancel_date"`
	Items           []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is the immutable per-product snapshot taken at checkout.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductTitle string          `gorm:"column:product_title;not null"`
	ProductImage string          `gorm:"column:product_image;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	Discount     decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
