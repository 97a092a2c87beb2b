package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Brand is stored as a plain normalized
// string; the owning subcategory's brand index is the queryable side
// of the relationship.
type Product struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title             string           `gorm:"column:title;not null"`
	Description       string           `gorm:"column:description;not null"`
	Image             string           `gorm:"column:image;not null"`
	OtherImages       pq.StringArray   `gorm:"column:other_images;type:text[];not null;default:ARRAY[]::text[]"`
	SKU               string           `gorm:"column:sku;type:text;not null;uniqueIndex"`
	CategoryID        uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	SubcategoryID     uuid.UUID        `gorm:"column:subcategory_id;type:uuid;not null"`
	Brand             string           `gorm:"column:brand;not null"`
	PriceTL           decimal.Decimal  `gorm:"column:price_tl;type:numeric(12,2);not null"`
	DiscountedPriceTL *decimal.Decimal `gorm:"column:discounted_price_tl;type:numeric(12,2)"`
	MeasureUnit       string           `gorm:"column:measure_unit;not null"`
	MeasureValue      float64          `gorm:"column:measure_value;type:numeric(10,3);not null"`
	StockCount        int              `gorm:"column:stock_count;not null;default:0"`
	RecentlyAddedFlag bool             `gorm:"column:recently_added_flag;not null;default:false"`
	ViewCount         int              `gorm:"column:view_count;not null;default:0"`
	FavouriteCount    int              `gorm:"column:favourite_count;not null;default:0"`
	AddedToCartCount  int              `gorm:"column:added_to_cart_count;not null;default:0"`
	OrderCount        int              `gorm:"column:order_count;not null;default:0"`
	CreatedBy         uuid.UUID        `gorm:"column:created_by;type:uuid;not null"`
	UpdatedBy         uuid.UUID        `gorm:"column:updated_by;type:uuid;not null"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
