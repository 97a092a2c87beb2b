package products

import (
	"context"
	"fmt"
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to product operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// CreateWithTx persists a new product row inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, product *models.Product) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(product).Error
}

// FindByID loads a product by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDWithTx loads a product using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var product models.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU loads the product carrying the given SKU.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads all products matching the provided ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// List returns products, optionally filtered by category.
func (r *Repository) List(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("title")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListBySubcategory returns every product under the given subcategory.
func (r *Repository) ListBySubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("subcategory_id = ?", subcategoryID).
		Order("title").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// CountBySubcategory counts live products under a subcategory.
func (r *Repository) CountBySubcategory(ctx context.Context, subcategoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("subcategory_id = ?", subcategoryID).
		Count(&count).Error
	return count, err
}

// SaveWithTx persists the product using the provided transaction.
func (r *Repository) SaveWithTx(tx *gorm.DB, product *models.Product) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if product == nil {
		return gorm.ErrInvalidValue
	}
	return tx.Save(product).Error
}

// DeleteWithTx removes a product row inside the provided transaction.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Delete(&models.Product{}, "id = ?", id).Error
}

// AdjustCounter applies a field-level delta to one of the per-metric
// counters so no other column is overwritten.
func (r *Repository) AdjustCounter(ctx context.Context, id uuid.UUID, column string, delta int) error {
	return adjustCounter(r.db.WithContext(ctx), id, column, delta)
}

// AdjustCounterWithTx is AdjustCounter bound to a transaction.
func (r *Repository) AdjustCounterWithTx(tx *gorm.DB, id uuid.UUID, column string, delta int) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return adjustCounter(tx, id, column, delta)
}

// ClearRecentlyAddedBefore drops the recently-added flag from products
// created before the cutoff. Only the flag column is written.
func (r *Repository) ClearRecentlyAddedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("recently_added_flag = ? AND created_at < ?", true, cutoff).
		UpdateColumn("recently_added_flag", false)
	return result.RowsAffected, result.Error
}

var counterColumns = map[string]bool{
	"view_count":          true,
	"favourite_count":     true,
	"added_to_cart_count": true,
	"order_count":         true,
}

func adjustCounter(tx *gorm.DB, id uuid.UUID, column string, delta int) error {
	if !counterColumns[column] {
		return fmt.Errorf("unknown counter column %q", column)
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
