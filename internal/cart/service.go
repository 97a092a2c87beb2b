package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the cart engine: one active cart per user, line
// mutations, and totals maintained on every change.
type Service interface {
	GetOrCreateActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

// CartRepository defines the persistence surface required by the cart
// service.
type CartRepository interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindActiveByUserWithTx(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	AddItemWithTx(tx *gorm.DB, item *models.CartItem) error
	UpdateItemQuantityWithTx(tx *gorm.DB, itemID uuid.UUID, quantity int) error
	DeleteItemWithTx(tx *gorm.DB, cartID, productID uuid.UUID) error
	ClearItemsWithTx(tx *gorm.DB, cartID uuid.UUID) error
	UpdateTotalsWithTx(tx *gorm.DB, cartID uuid.UUID, totalCount int, totalPrice decimal.Decimal) error
}

// TxRunner runs a function inside a store transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Product, error)
	AdjustCounterWithTx(tx *gorm.DB, id uuid.UUID, column string, delta int) error
}

type service struct {
	repo     CartRepository
	txRunner TxRunner
	products productLoader
}

// NewService constructs a cart service instance.
func NewService(repo CartRepository, txRunner TxRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, txRunner: txRunner, products: products}, nil
}

// GetOrCreateActiveCart returns the user's active cart, lazily
// creating an empty one. The partial unique index on active carts
// makes the create race safe: the loser re-reads the winner's row.
func (s *service) GetOrCreateActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active cart")
	}

	fresh := &models.Cart{
		UserID:     userID,
		Status:     enums.CartStatusActive,
		TotalCount: 0,
		TotalPrice: decimal.Zero,
	}
	if err := s.repo.Create(ctx, fresh); err != nil {
		if db.IsUniqueViolation(err, "idx_carts_one_active_per_user") {
			cart, err := s.repo.FindActiveByUser(ctx, userID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload active cart")
			}
			return cart, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert cart")
	}
	return fresh, nil
}

func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.GetOrCreateActiveCart(ctx, userID); err != nil {
		return nil, err
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		// The cart can complete under us if a checkout lands between the
		// lazy create above and this read; that miss is a not-found, not
		// an infrastructure failure.
		cart, err := s.activeCart(tx, userID)
		if err != nil {
			return err
		}
		for _, item := range cart.Items {
			if item.ProductID == productID {
				return pkgerrors.New(pkgerrors.CodeConflict, "product is already in the cart")
			}
		}

		product, err := s.loadProduct(tx, productID)
		if err != nil {
			return err
		}
		// Validated before any cart state changes; a failed add leaves
		// the cart exactly as it was.
		if err := checkStock(product, quantity); err != nil {
			return err
		}

		unitPrice, discount := priceSnapshot(product)
		line := &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Discount:  discount,
		}
		if err := s.repo.AddItemWithTx(tx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert cart item")
		}

		totalCount, totalPrice := computeTotals(append(cart.Items, *line))
		if err := s.repo.UpdateTotalsWithTx(tx, cart.ID, totalCount, totalPrice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart totals")
		}
		if err := s.products.AdjustCounterWithTx(tx, productID, "added_to_cart_count", 1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: bump added to cart count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.activeCart(tx, userID)
		if err != nil {
			return err
		}
		line := findLine(cart, productID)
		if line == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
		}

		product, err := s.loadProduct(tx, productID)
		if err != nil {
			return err
		}
		if err := checkStock(product, quantity); err != nil {
			return err
		}

		if err := s.repo.UpdateItemQuantityWithTx(tx, line.ID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart item")
		}
		line.Quantity = quantity

		totalCount, totalPrice := computeTotals(cart.Items)
		if err := s.repo.UpdateTotalsWithTx(tx, cart.ID, totalCount, totalPrice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart totals")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.activeCart(tx, userID)
		if err != nil {
			return err
		}
		if findLine(cart, productID) == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
		}

		if err := s.repo.DeleteItemWithTx(tx, cart.ID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart item")
		}

		remaining := make([]models.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.ProductID != productID {
				remaining = append(remaining, item)
			}
		}
		totalCount, totalPrice := computeTotals(remaining)
		if err := s.repo.UpdateTotalsWithTx(tx, cart.ID, totalCount, totalPrice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart totals")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

// Clear empties the cart. Clearing an already empty cart is a no-op.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.activeCart(tx, userID)
		if err != nil {
			return err
		}
		if err := s.repo.ClearItemsWithTx(tx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart items")
		}
		if err := s.repo.UpdateTotalsWithTx(tx, cart.ID, 0, decimal.Zero); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart totals")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

func (s *service) activeCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindActiveByUserWithTx(tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active cart")
	}
	return cart, nil
}

func (s *service) loadProduct(tx *gorm.DB, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByIDWithTx(tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload cart")
	}
	return cart, nil
}

func findLine(cart *models.Cart, productID uuid.UUID) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}

func checkStock(product *models.Product, quantity int) error {
	if quantity > product.StockCount {
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
			WithDetails(map[string]any{
				"available": product.StockCount,
				"requested": quantity,
			})
	}
	return nil
}

// priceSnapshot freezes the product pricing onto the cart line. The
// price the customer actually pays becomes the unit price, so totals
// are always the sum of quantity times unit price; the per-unit
// discount rides along for display and is never subtracted again.
func priceSnapshot(product *models.Product) (unitPrice, discount decimal.Decimal) {
	unitPrice = product.PriceTL
	discount = decimal.Zero
	if product.DiscountedPriceTL != nil {
		unitPrice = *product.DiscountedPriceTL
		discount = product.PriceTL.Sub(*product.DiscountedPriceTL)
	}
	return unitPrice, discount
}

func computeTotals(items []models.CartItem) (totalCount int, totalPrice decimal.Decimal) {
	totalPrice = decimal.Zero
	for _, item := range items {
		totalCount += item.Quantity
		totalPrice = totalPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return totalCount, totalPrice
}
