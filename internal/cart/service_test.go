package cart

import (
	"context"
	"testing"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestGetOrCreateActiveCartIsIdempotent(t *testing.T) {
	t.Parallel()

	fix := newCartFixture()
	svc := fix.service(t)
	userID := uuid.New()

	first, err := svc.GetOrCreateActiveCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetOrCreateActiveCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same cart, got %s and %s", first.ID, second.ID)
	}
	if first.TotalCount != 0 || !first.TotalPrice.IsZero() {
		t.Fatalf("fresh cart must have zero totals, got %d / %s", first.TotalCount, first.TotalPrice)
	}
}

func TestCartTotalsAcrossMutationSequence(t *testing.T) {
	t.Parallel()

	fix := newCartFixture()
	domates := fix.addProduct("34.90", strPtr("29.90"), 100) // effective 29.90
	biber := fix.addProduct("19.90", nil, 100)               // effective 19.90
	svc := fix.service(t)
	userID := uuid.New()

	cart, err := svc.AddItem(context.Background(), userID, domates, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	assertTotals(t, cart, 2, "59.80")

	cart, err = svc.AddItem(context.Background(), userID, biber, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	assertTotals(t, cart, 3, "79.70")

	cart, err = svc.UpdateItem(context.Background(), userID, domates, 3)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	assertTotals(t, cart, 4, "109.60")

	cart, err = svc.RemoveItem(context.Background(), userID, biber)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	assertTotals(t, cart, 3, "89.70")

	cart, err = svc.Clear(context.Background(), userID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	assertTotals(t, cart, 0, "0")
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
}

func TestDiscountedItemKeepsTotalPriceIdentity(t *testing.T) {
	t.Parallel()

	fix := newCartFixture()
	domates := fix.addProduct("34.90", strPtr("29.90"), 100)
	svc := fix.service(t)
	userID := uuid.New()

	cart, err := svc.AddItem(context.Background(), userID, domates, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	line := cart.Items[0]
	if !line.UnitPrice.Equal(decimal.RequireFromString("29.90")) {
		t.Fatalf("unit price must snapshot the effective price, got %s", line.UnitPrice)
	}
	if !line.Discount.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("per-unit discount = %s, want 5.00", line.Discount)
	}

	// total_price is always Σ quantity×unit_price over the stored lines.
	sum := decimal.Zero
	for _, item := range cart.Items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !cart.TotalPrice.Equal(sum) {
		t.Fatalf("total price = %s, want %s", cart.TotalPrice, sum)
	}
	assertTotals(t, cart, 2, "59.80")
}

func TestAddItemDuplicateRejected(t *testing.T) {
	t.Parallel()

	fix := newCartFixture()
	productID := fix.addProduct("10.00", nil, 10)
	svc := fix.service(t)
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, productID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := svc.AddItem(context.Background(), userID, productID, 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict on duplicate add, got %v", err)
	}
}

func TestAddItemInsufficientStockLeavesCartUntouched(t *testing.T) {
	t.Parallel()

	fix := newCartFixture()
	scarce := fix.addProduct("10.00", nil, 5)
	plenty := fix.addProduct("8.00", nil, 50)
	svc := fix.service(t)
	userID := uuid.New()

	cart, err := svc.AddItem(context.Background(), userID, plenty, 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	assertTotals(t, cart, 3, "24")

	_, err = svc.AddItem(context.Background(), userID, scarce, 10)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for insufficient stock, got %v", err)
	}

	cart, err = svc.GetOrCreateActiveCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	assertTotals(t, cart, 3, "24")
	if len(cart.Items) != 1 {
		t.Fatalf("failed add must not leave a line behind, got %d items", len(cart.Items))
	}
}

func TestUpdateItemInsufficientStock(t *testing.T) {
	t.Parallel()

	fix := newCartFixture()
	productID := fix.addProduct("10.00", nil, 5)
	svc := fix.service(t)
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, productID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := svc.UpdateItem(context.Background(), userID, productID, 10)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	cart, err := svc.GetOrCreateActiveCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	assertTotals(t, cart, 3, "30")
}

// completedMidFlightRepo simulates a checkout completing the cart
// between the lazy create and the mutation transaction.
type completedMidFlightRepo struct {
	*memoryCartRepo
}

func (r *completedMidFlightRepo) FindActiveByUserWithTx(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestAddItemCartCompletedConcurrently(t *testing.T) {
	t.Parallel()

	fix := newCartFixture()
	productID := fix.addProduct("10.00", nil, 10)
	svc, err := NewService(&completedMidFlightRepo{memoryCartRepo: fix.repo}, stubTxRunner{}, fix.products)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.AddItem(context.Background(), uuid.New(), productID, 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found when the cart vanished, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	fix := newCartFixture()
	svc := fix.service(t)

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemBumpsAddedToCartCount(t *testing.T) {
	t.Parallel()

	fix := newCartFixture()
	productID := fix.addProduct("10.00", nil, 10)
	svc := fix.service(t)

	if _, err := svc.AddItem(context.Background(), uuid.New(), productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := fix.products.counters[productID]["added_to_cart_count"]; got != 1 {
		t.Fatalf("expected one counter bump, got %d", got)
	}
}

func assertTotals(t *testing.T, cart *models.Cart, wantCount int, wantPrice string) {
	t.Helper()
	if cart.TotalCount != wantCount {
		t.Fatalf("total count = %d, want %d", cart.TotalCount, wantCount)
	}
	if !cart.TotalPrice.Equal(decimal.RequireFromString(wantPrice)) {
		t.Fatalf("total price = %s, want %s", cart.TotalPrice, wantPrice)
	}
}

func strPtr(value string) *string { return &value }

type cartFixture struct {
	repo     *memoryCartRepo
	products *stubProductLoader
}

func newCartFixture() *cartFixture {
	return &cartFixture{
		repo: &memoryCartRepo{
			carts: map[uuid.UUID]*models.Cart{},
		},
		products: &stubProductLoader{
			byID:     map[uuid.UUID]*models.Product{},
			counters: map[uuid.UUID]map[string]int{},
		},
	}
}

func (f *cartFixture) addProduct(price string, discounted *string, stock int) uuid.UUID {
	id := uuid.New()
	product := &models.Product{
		ID:         id,
		PriceTL:    decimal.RequireFromString(price),
		StockCount: stock,
	}
	if discounted != nil {
		value := decimal.RequireFromString(*discounted)
		product.DiscountedPriceTL = &value
	}
	f.products.byID[id] = product
	return id
}

func (f *cartFixture) service(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(f.repo, stubTxRunner{}, f.products)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
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

// memoryCartRepo keeps cart state in memory so every totals write the
// service performs is observable.
type memoryCartRepo struct {
	carts map[uuid.UUID]*models.Cart // by cart id
}

func (m *memoryCartRepo) activeByUser(userID uuid.UUID) *models.Cart {
	for _, cart := range m.carts {
		if cart.UserID == userID && cart.Status == enums.CartStatusActive {
			return cart
		}
	}
	return nil
}

func (m *memoryCartRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if cart := m.activeByUser(userID); cart != nil {
		copied := *cart
		copied.Items = append([]models.CartItem(nil), cart.Items...)
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryCartRepo) FindActiveByUserWithTx(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	return m.FindActiveByUser(context.Background(), userID)
}

func (m *memoryCartRepo) Create(ctx context.Context, cart *models.Cart) error {
	cart.ID = uuid.New()
	m.carts[cart.ID] = cart
	return nil
}

func (m *memoryCartRepo) AddItemWithTx(tx *gorm.DB, item *models.CartItem) error {
	item.ID = uuid.New()
	cart := m.carts[item.CartID]
	cart.Items = append(cart.Items, *item)
	return nil
}

func (m *memoryCartRepo) UpdateItemQuantityWithTx(tx *gorm.DB, itemID uuid.UUID, quantity int) error {
	for _, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity = quantity
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryCartRepo) DeleteItemWithTx(tx *gorm.DB, cartID, productID uuid.UUID) error {
	cart := m.carts[cartID]
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	return nil
}

func (m *memoryCartRepo) ClearItemsWithTx(tx *gorm.DB, cartID uuid.UUID) error {
	m.carts[cartID].Items = nil
	return nil
}

func (m *memoryCartRepo) UpdateTotalsWithTx(tx *gorm.DB, cartID uuid.UUID, totalCount int, totalPrice decimal.Decimal) error {
	cart := m.carts[cartID]
	cart.TotalCount = totalCount
	cart.TotalPrice = totalPrice
	return nil
}
