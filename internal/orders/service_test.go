package orders

import (
	"context"
	"io"
	"testing"
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

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestCheckoutMissingAddress(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	userID := uuid.New()
	fix.seedCart(userID, "89.70", 3)
	svc := fix.service(t)

	_, err := svc.Checkout(context.Background(), userID, CheckoutInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if fix.carts.cart.Status != enums.CartStatusActive {
		t.Fatal("failed checkout must leave the cart active")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	userID := uuid.New()
	addressID := fix.seedAddress(userID)
	fix.carts.cart = &models.Cart{ID: uuid.New(), UserID: userID, Status: enums.CartStatusActive}
	svc := fix.service(t)

	_, err := svc.Checkout(context.Background(), userID, CheckoutInput{AddressID: addressID})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutForeignAddress(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	userID := uuid.New()
	fix.seedCart(userID, "10.00", 1)
	addressID := fix.seedAddress(uuid.New()) // other user's address
	svc := fix.service(t)

	_, err := svc.Checkout(context.Background(), userID, CheckoutInput{AddressID: addressID})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCheckoutSnapshotsCartIntoOrder(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	userID := uuid.New()
	productID := fix.seedCart(userID, "89.70", 3)
	addressID := fix.seedAddress(userID)
	svc := fix.service(t)

	order, err := svc.Checkout(context.Background(), userID, CheckoutInput{
		AddressID:    addressID,
		DeliveryType: enums.DeliveryTypeCourier,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.OrderStatus != enums.OrderStatusPreparing {
		t.Fatalf("new order must be preparing, got %s", order.OrderStatus)
	}
	if order.TotalCount != 3 || !order.TotalPrice.Equal(decimal.RequireFromString("89.70")) {
		t.Fatalf("totals not carried from cart: %d / %s", order.TotalCount, order.TotalPrice)
	}
	if !order.DeliveryCost.Equal(decimal.RequireFromString("49.90")) {
		t.Fatalf("delivery cost = %s, want 49.90", order.DeliveryCost)
	}
	if !order.TotalFinalPrice.Equal(decimal.RequireFromString("139.60")) {
		t.Fatalf("final price = %s, want 139.60", order.TotalFinalPrice)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected one snapshot item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.ProductTitle != "Salkım Domates" || item.Quantity != 3 {
		t.Fatalf("bad snapshot: %+v", item)
	}
	if !order.OrderDate.Equal(fixedNow) {
		t.Fatalf("order date = %s", order.OrderDate)
	}

	if fix.carts.cart.Status != enums.CartStatusCompleted {
		t.Fatal("cart must be completed after checkout")
	}
	if fix.products.counters[productID]["order_count"] != 1 {
		t.Fatal("order count not bumped")
	}
}

func TestCheckoutPickupIsFree(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	userID := uuid.New()
	fix.seedCart(userID, "50.00", 2)
	addressID := fix.seedAddress(userID)
	svc := fix.service(t)

	order, err := svc.Checkout(context.Background(), userID, CheckoutInput{
		AddressID:    addressID,
		DeliveryType: enums.DeliveryTypePickup,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !order.DeliveryCost.IsZero() {
		t.Fatalf("pickup delivery cost = %s, want 0", order.DeliveryCost)
	}
	if !order.TotalFinalPrice.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("final price = %s, want 50.00", order.TotalFinalPrice)
	}
}

func TestCheckoutVanishedProductLeavesCartActive(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	userID := uuid.New()
	fix.seedCart(userID, "10.00", 1)
	fix.products.byID = map[uuid.UUID]*models.Product{} // product gone
	addressID := fix.seedAddress(userID)
	svc := fix.service(t)

	_, err := svc.Checkout(context.Background(), userID, CheckoutInput{AddressID: addressID})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if fix.carts.cart.Status != enums.CartStatusActive {
		t.Fatal("failed checkout must leave the cart active")
	}
}

func TestCancelOnlyWhilePreparing(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	userID := uuid.New()
	preparing := &models.Order{ID: uuid.New(), UserID: userID, OrderStatus: enums.OrderStatusPreparing}
	shipped := &models.Order{ID: uuid.New(), UserID: userID, OrderStatus: enums.OrderStatusShipped}
	fix.repo.orders[preparing.ID] = preparing
	fix.repo.orders[shipped.ID] = shipped
	svc := fix.service(t)

	canceled, err := svc.Cancel(context.Background(), userID, preparing.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if canceled.OrderStatus != enums.OrderStatusCanceled || !canceled.CancelFlag {
		t.Fatalf("cancel not applied: %+v", canceled)
	}
	if canceled.CancelDate == nil || !canceled.CancelDate.Equal(fixedNow) {
		t.Fatalf("cancel date = %v", canceled.CancelDate)
	}

	_, err = svc.Cancel(context.Background(), userID, shipped.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestGetRejectsForeignOrder(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), OrderStatus: enums.OrderStatusPreparing}
	fix.repo.orders[order.ID] = order
	svc := fix.service(t)

	_, err := svc.Get(context.Background(), uuid.New(), order.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

type orderFixture struct {
	repo      *stubOrderRepo
	carts     *stubCartStore
	products  *stubProductLoader
	addresses *stubAddressLoader
}

func newOrderFixture() *orderFixture {
	return &orderFixture{
		repo:      &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}},
		carts:     &stubCartStore{},
		products:  &stubProductLoader{byID: map[uuid.UUID]*models.Product{}, counters: map[uuid.UUID]map[string]int{}},
		addresses: &stubAddressLoader{byID: map[uuid.UUID]*models.Address{}},
	}
}

// seedCart builds a one-line active cart whose totals are already
// maintained, returning the product id.
func (f *orderFixture) seedCart(userID uuid.UUID, totalPrice string, quantity int) uuid.UUID {
	productID := uuid.New()
	total := decimal.RequireFromString(totalPrice)
	unit := total.Div(decimal.NewFromInt(int64(quantity)))
	f.products.byID[productID] = &models.Product{
		ID:    productID,
		Title: "Salkım Domates",
		Image: "https://cdn.example.com/domates.jpg",
	}
	f.carts.cart = &models.Cart{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     enums.CartStatusActive,
		TotalCount: quantity,
		TotalPrice: total,
		Items: []models.CartItem{{
			ID:        uuid.New(),
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: unit,
			Discount:  decimal.Zero,
		}},
	}
	return productID
}

func (f *orderFixture) seedAddress(userID uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.addresses.byID[id] = &models.Address{ID: id, UserID: userID}
	return id
}

func (f *orderFixture) service(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      f.repo,
		TxRunner:  stubTxRunner{},
		Carts:     f.carts,
		Products:  f.products,
		Addresses: f.addresses,
		Config:    config.CheckoutConfig{DeliveryCostTL: decimal.RequireFromString("49.90")},
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Now:       func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func (s *stubOrderRepo) CreateWithTx(tx *gorm.DB, order *models.Order) error {
	order.ID = uuid.New()
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) MarkCanceled(ctx context.Context, id uuid.UUID, at time.Time) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.OrderStatus = enums.OrderStatusCanceled
	order.CancelFlag = true
	order.CancelDate = &at
	return nil
}

type stubCartStore struct {
	cart *models.Cart
}

func (s *stubCartStore) FindActiveByUserWithTx(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	if s.cart != nil && s.cart.UserID == userID && s.cart.Status == enums.CartStatusActive {
		return s.cart, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartStore) UpdateStatusWithTx(tx *gorm.DB, cartID uuid.UUID, status enums.CartStatus) error {
	if s.cart == nil || s.cart.ID != cartID {
		return gorm.ErrRecordNotFound
	}
	s.cart.Status = status
	return nil
}

type stubProductLoader struct {
	byID     map[uuid.UUID]*models.Product
	counters map[uuid.UUID]map[string]int
}

func (s *stubProductLoader) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductLoader) AdjustCounterWithTx(tx *gorm.DB, id uuid.UUID, column string, delta int) error {
	if s.counters[id] == nil {
		s.counters[id] = map[string]int{}
	}
	s.counters[id][column] += delta
	return nil
}

type stubAddressLoader struct {
	byID map[uuid.UUID]*models.Address
}

func (s *stubAddressLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	if address, ok := s.byID[id]; ok {
		return address, nil
	}
	return nil, gorm.ErrRecordNotFound
}
