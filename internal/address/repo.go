package address

import (
	"context"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles address persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to address operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads an address by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// ListByUser returns every address the user owns.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// FindDuplicate looks for an address of the user matching the fields
// that identify the same physical location.
func (r *Repository) FindDuplicate(ctx context.Context, candidate *models.Address) (*models.Address, error) {
	var address models.Address
	query := r.db.WithContext(ctx).Where(
		"user_id = ? AND country = ? AND city = ? AND district = ? AND neighborhood = ? AND street = ? AND door_no = ? AND postal_code = ?",
		candidate.UserID, candidate.Country, candidate.City, candidate.District,
		candidate.Neighborhood, candidate.Street, candidate.DoorNo, candidate.PostalCode,
	)
	if candidate.ID != uuid.Nil {
		query = query.Where("id <> ?", candidate.ID)
	}
	if err := query.First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// CreateWithTx inserts an address inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, address *models.Address) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(address).Error
}

// SaveWithTx persists the address inside the provided transaction.
func (r *Repository) SaveWithTx(tx *gorm.DB, address *models.Address) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Save(address).Error
}

// ClearDefaultsWithTx drops the default flag from every address of the
// user except the one being promoted.
func (r *Repository) ClearDefaultsWithTx(tx *gorm.DB, userID, exceptID uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	query := tx.Model(&models.Address{}).Where("user_id = ? AND is_default_flag = ?", userID, true)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}
	return query.UpdateColumn("is_default_flag", false).Error
}

// Delete removes an address row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id).Error
}
