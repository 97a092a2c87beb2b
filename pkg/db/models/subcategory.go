package models

import (
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/types"
	"github.com/google/uuid"
)

// Subcategory groups products under a category and owns the
// denormalized brand index. A brand key exists in Brands iff at least
// one live product under this subcategory carries that brand; every
// product mutation keeps the map in step.
type Subcategory struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"column:name;type:text;not null;uniqueIndex:idx_subcategories_name_category"`
	CategoryID  uuid.UUID        `gorm:"column:category_id;type:uuid;not null;uniqueIndex:idx_subcategories_name_category"`
	Description *string          `gorm:"column:description"`
	Brands      types.BrandIndex `gorm:"column:brands;type:jsonb;not null;default:'{}'"`
	CreatedBy   uuid.UUID        `gorm:"column:created_by;type:uuid;not null"`
	UpdatedBy   uuid.UUID        `gorm:"column:updated_by;type:uuid;not null"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
