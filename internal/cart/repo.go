package cart

import (
	"context"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository handles cart and cart item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to cart operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveByUser loads the user's active cart with its items.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindActiveByUserWithTx is FindActiveByUser bound to a transaction.
func (r *Repository) FindActiveByUserWithTx(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var cart models.Cart
	err := tx.Preload("Items").
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts a fresh cart row. The partial unique index on active
// carts rejects a concurrent create for the same user.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

// AddItemWithTx inserts one cart line.
func (r *Repository) AddItemWithTx(tx *gorm.DB, item *models.CartItem) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(item).Error
}

// UpdateItemQuantityWithTx sets the quantity of one cart line.
func (r *Repository) UpdateItemQuantityWithTx(tx *gorm.DB, itemID uuid.UUID, quantity int) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", quantity).Error
}

// DeleteItemWithTx removes one cart line by (cart, product).
func (r *Repository) DeleteItemWithTx(tx *gorm.DB, cartID, productID uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

// ClearItemsWithTx removes every line of the cart.
func (r *Repository) ClearItemsWithTx(tx *gorm.DB, cartID uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// UpdateTotalsWithTx writes the maintained totals, field-level only.
func (r *Repository) UpdateTotalsWithTx(tx *gorm.DB, cartID uuid.UUID, totalCount int, totalPrice decimal.Decimal) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumns(map[string]any{
			"total_count": totalCount,
			"total_price": totalPrice,
		}).Error
}

// UpdateStatusWithTx transitions the cart status.
func (r *Repository) UpdateStatusWithTx(tx *gorm.DB, cartID uuid.UUID, status enums.CartStatus) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("status", status).Error
}
