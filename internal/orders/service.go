package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/config"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service converts carts into orders and serves order history. An
// order is only ever born through Checkout; there is no direct create.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

// CheckoutInput carries the checkout choices.
type CheckoutInput struct {
	AddressID    uuid.UUID
	DeliveryType enums.DeliveryType
}

// OrderRepository defines the persistence surface required by the
// order service.
type OrderRepository interface {
	CreateWithTx(tx *gorm.DB, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	MarkCanceled(ctx context.Context, id uuid.UUID, at time.Time) error
}

// TxRunner runs a function inside a store transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	FindActiveByUserWithTx(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error)
	UpdateStatusWithTx(tx *gorm.DB, cartID uuid.UUID, status enums.CartStatus) error
}

type productLoader interface {
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Product, error)
	AdjustCounterWithTx(tx *gorm.DB, id uuid.UUID, column string, delta int) error
}

type addressLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

type service struct {
	repo      OrderRepository
	txRunner  TxRunner
	carts     cartStore
	products  productLoader
	addresses addressLoader
	cfg       config.CheckoutConfig
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Repo      OrderRepository
	TxRunner  TxRunner
	Carts     cartStore
	Products  productLoader
	Addresses addressLoader
	Config    config.CheckoutConfig
	Logger    *logger.Logger
	Now       func() time.Time
}

// NewService constructs an order service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:      params.Repo,
		txRunner:  params.TxRunner,
		carts:     params.Carts,
		products:  params.Products,
		addresses: params.Addresses,
		cfg:       params.Config,
		logg:      params.Logger,
		now:       params.Now,
	}, nil
}

// Checkout snapshots the active cart into an immutable order and
// completes the cart, all inside one transaction. A failed checkout
// leaves the cart active and untouched.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error) {
	if input.AddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	deliveryType := input.DeliveryType
	if deliveryType == "" {
		deliveryType = enums.DeliveryTypeCourier
	}
	if !deliveryType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery type")
	}

	address, err := s.addresses.FindByID(ctx, input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another user")
	}

	var order *models.Order
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.carts.FindActiveByUserWithTx(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active cart")
		}
		if len(cart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		discountCost := decimal.Zero
		for _, line := range cart.Items {
			product, err := s.products.FindByIDWithTx(tx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "a cart product no longer exists").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
			}
			items = append(items, models.OrderItem{
				ProductTitle: product.Title,
				ProductImage: product.Image,
				UnitPrice:    line.UnitPrice,
				Quantity:     line.Quantity,
				Discount:     line.Discount,
			})
			discountCost = discountCost.Add(line.Discount.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		deliveryCost := decimal.Zero
		if deliveryType.RequiresAddress() {
			deliveryCost = s.cfg.DeliveryCostTL
		}

		order = &models.Order{
			UserID:          userID,
			AddressID:       address.ID,
			OrderDate:       s.now(),
			TotalCount:      cart.TotalCount,
			TotalPrice:      cart.TotalPrice,
			TotalFinalPrice: cart.TotalPrice.Add(deliveryCost),
			DeliveryType:    deliveryType,
			DeliveryCost:    deliveryCost,
			DiscountCost:    discountCost,
			OrderStatus:     enums.OrderStatusPreparing,
			Items:           items,
		}
		if err := s.repo.CreateWithTx(tx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		if err := s.carts.UpdateStatusWithTx(tx, cart.ID, enums.CartStatusCompleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: complete cart")
		}
		for _, line := range cart.Items {
			if err := s.products.AdjustCounterWithTx(tx, line.ProductID, "order_count", 1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: bump order count")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	octx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(octx, "order placed")
	return order, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return orders, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return s.loadOwned(ctx, userID, orderID)
}

// Cancel is only allowed while the order is still being prepared.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus != enums.OrderStatusPreparing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be canceled").
			WithDetails(map[string]any{"order_status": order.OrderStatus.String()})
	}

	canceledAt := s.now()
	if err := s.repo.MarkCanceled(ctx, order.ID, canceledAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cancel order")
	}
	order.OrderStatus = enums.OrderStatusCanceled
	order.CancelFlag = true
	order.CancelDate = &canceledAt

	octx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(octx, "order canceled")
	return order, nil
}

func (s *service) loadOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return order, nil
}
