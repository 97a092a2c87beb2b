package subcategories

import (
	"context"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles subcategory persistence, including the brand
// index column.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to subcategory operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new subcategory row.
func (r *Repository) Create(ctx context.Context, subcategory *models.Subcategory) error {
	return r.db.WithContext(ctx).Create(subcategory).Error
}

// FindByID loads a subcategory by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	if err := r.db.WithContext(ctx).First(&subcategory, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// FindByIDWithTx loads a subcategory using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Subcategory, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var subcategory models.Subcategory
	if err := tx.First(&subcategory, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// FindByNameInCategory loads the subcategory with the given name under a category.
func (r *Repository) FindByNameInCategory(ctx context.Context, name string, categoryID uuid.UUID) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	err := r.db.WithContext(ctx).
		Where("name = ? AND category_id = ?", name, categoryID).
		First(&subcategory).Error
	if err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// List returns subcategories, optionally filtered by category.
func (r *Repository) List(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error) {
	query := r.db.WithContext(ctx).Order("name")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var subcategories []models.Subcategory
	if err := query.Find(&subcategories).Error; err != nil {
		return nil, err
	}
	return subcategories, nil
}

// ListByCategory returns every subcategory under the given category.
func (r *Repository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Subcategory, error) {
	return r.List(ctx, &categoryID)
}

// Save persists the provided subcategory.
func (r *Repository) Save(ctx context.Context, subcategory *models.Subcategory) error {
	if subcategory == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(subcategory).Error
}

// UpdateBrandsWithTx writes only the brands column inside the provided
// transaction. Field-level so concurrent catalog edits to other
// columns are never clobbered.
func (r *Repository) UpdateBrandsWithTx(tx *gorm.DB, subcategory *models.Subcategory) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if subcategory == nil {
		return gorm.ErrInvalidValue
	}
	return tx.Model(&models.Subcategory{}).
		Where("id = ?", subcategory.ID).
		UpdateColumn("brands", subcategory.Brands).Error
}

// Delete removes a subcategory row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Subcategory{}, "id = ?", id).Error
}

// DeleteWithTx removes a subcategory row inside the provided transaction.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Delete(&models.Subcategory{}, "id = ?", id).Error
}
