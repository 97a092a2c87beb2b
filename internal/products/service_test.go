package products

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestServiceCreateNormalizesBrandAndIndexes(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	svc := fix.service(t)

	product, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Title:         "Salkım Domates",
		Description:   "Taze salkım domates",
		Image:         "https://cdn.example.com/domates.jpg",
		SKU:           "DOM123",
		CategoryID:    fix.category.ID,
		SubcategoryID: fix.subcategory.ID,
		Brand:         "domates çiftliği",
		PriceTL:       decimal.RequireFromString("34.90"),
		MeasureUnit:   "kg",
		MeasureValue:  1,
		StockCount:    50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if product.Brand != "Domates çiftliği" {
		t.Fatalf("brand not normalized: %q", product.Brand)
	}
	if !product.RecentlyAddedFlag {
		t.Fatal("expected recently added flag set on create")
	}
	if !fix.subcategory.Brands.Contains("Domates çiftliği", product.ID) {
		t.Fatalf("brand index missing product: %+v", fix.subcategory.Brands)
	}
}

func TestServiceCreateDuplicateSKU(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.repo.products["DOM123"] = &models.Product{ID: uuid.New(), SKU: "DOM123"}
	svc := fix.service(t)

	_, err := svc.Create(context.Background(), uuid.New(), validCreateInput(fix))
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

// racingSKURepo fails the insert the way Postgres does when another
// request claims the SKU between the pre-check and the write.
type racingSKURepo struct {
	*stubProductRepo
}

func (r *racingSKURepo) CreateWithTx(tx *gorm.DB, product *models.Product) error {
	return errors.New(`duplicate key value violates unique constraint "idx_products_sku"`)
}

func TestServiceCreateDuplicateSKURace(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(&racingSKURepo{stubProductRepo: fix.repo}, stubTxRunner{}, fix.categories, fix.subs, logg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), validCreateInput(fix))
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict on racing insert, got %v", err)
	}
}

func TestServiceCreateUnknownCategory(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	svc := fix.service(t)

	input := validCreateInput(fix)
	input.CategoryID = uuid.New()
	_, err := svc.Create(context.Background(), uuid.New(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceCreateSubcategoryOutsideCategory(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	other := &models.Category{ID: uuid.New(), Name: "Meyve"}
	fix.categories.byID[other.ID] = other
	svc := fix.service(t)

	input := validCreateInput(fix)
	input.CategoryID = other.ID
	_, err := svc.Create(context.Background(), uuid.New(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateRejectsNegativeStock(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	svc := fix.service(t)

	input := validCreateInput(fix)
	input.StockCount = -1
	_, err := svc.Create(context.Background(), uuid.New(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceUpdateBrandMovesIndexEntry(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	productID := uuid.New()
	fix.repo.byID[productID] = &models.Product{
		ID:            productID,
		Title:         "Salkım Domates",
		SKU:           "DOM123",
		CategoryID:    fix.category.ID,
		SubcategoryID: fix.subcategory.ID,
		Brand:         "Domates çiftliği",
		PriceTL:       decimal.RequireFromString("34.90"),
	}
	fix.subcategory.Brands.Add("Domates çiftliği", productID)
	svc := fix.service(t)

	newBrand := "istanbul"
	updated, err := svc.Update(context.Background(), uuid.New(), productID, UpdateInput{Brand: &newBrand})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Brand != "İstanbul" {
		t.Fatalf("brand not normalized: %q", updated.Brand)
	}
	if fix.subcategory.Brands.Contains("Domates çiftliği", productID) {
		t.Fatal("old brand key still holds the product")
	}
	if _, exists := fix.subcategory.Brands["Domates çiftliği"]; exists {
		t.Fatal("empty brand key not deleted")
	}
	if !fix.subcategory.Brands.Contains("İstanbul", productID) {
		t.Fatalf("new brand key missing product: %+v", fix.subcategory.Brands)
	}
}

func TestServiceDeletePrunesIndex(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	productID := uuid.New()
	fix.repo.byID[productID] = &models.Product{
		ID:            productID,
		SubcategoryID: fix.subcategory.ID,
		Brand:         "Domates çiftliği",
	}
	fix.subcategory.Brands.Add("Domates çiftliği", productID)
	svc := fix.service(t)

	if err := svc.Delete(context.Background(), productID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, exists := fix.repo.byID[productID]; exists {
		t.Fatal("product not deleted")
	}
	if _, exists := fix.subcategory.Brands["Domates çiftliği"]; exists {
		t.Fatal("brand index entry not pruned")
	}
}

func TestServiceDeleteSurvivesMissingSubcategory(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	productID := uuid.New()
	fix.repo.byID[productID] = &models.Product{
		ID:            productID,
		SubcategoryID: uuid.New(), // no longer exists
		Brand:         "Domates çiftliği",
	}
	svc := fix.service(t)

	if err := svc.Delete(context.Background(), productID); err != nil {
		t.Fatalf("delete must succeed even with a stale subcategory: %v", err)
	}
	if _, exists := fix.repo.byID[productID]; exists {
		t.Fatal("product not deleted")
	}
}

func validCreateInput(fix *fixture) CreateInput {
	return CreateInput{
		Title:         "Salkım Domates",
		Image:         "https://cdn.example.com/domates.jpg",
		SKU:           "DOM123",
		CategoryID:    fix.category.ID,
		SubcategoryID: fix.subcategory.ID,
		Brand:         "Domates Çiftliği",
		PriceTL:       decimal.RequireFromString("34.90"),
		MeasureUnit:   "kg",
		MeasureValue:  1,
		StockCount:    10,
	}
}

type fixture struct {
	category    *models.Category
	subcategory *models.Subcategory
	categories  *stubCategoryLoader
	subs        *stubSubcategoryIndex
	repo        *stubProductRepo
}

func newFixture() *fixture {
	category := &models.Category{ID: uuid.New(), Name: "Sebze"}
	subcategory := &models.Subcategory{
		ID:         uuid.New(),
		Name:       "Taze Sebze",
		CategoryID: category.ID,
		Brands:     types.BrandIndex{},
	}
	return &fixture{
		category:    category,
		subcategory: subcategory,
		categories:  &stubCategoryLoader{byID: map[uuid.UUID]*models.Category{category.ID: category}},
		subs:        &stubSubcategoryIndex{byID: map[uuid.UUID]*models.Subcategory{subcategory.ID: subcategory}},
		repo:        newStubProductRepo(),
	}
}

func (f *fixture) service(t *testing.T) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(f.repo, stubTxRunner{}, f.categories, f.subs, logg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCategoryLoader struct {
	byID map[uuid.UUID]*models.Category
}

func (s *stubCategoryLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if category, ok := s.byID[id]; ok {
		return category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSubcategoryIndex struct {
	byID map[uuid.UUID]*models.Subcategory
}

func (s *stubSubcategoryIndex) FindByID(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	if subcategory, ok := s.byID[id]; ok {
		return subcategory, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubSubcategoryIndex) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Subcategory, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubSubcategoryIndex) UpdateBrandsWithTx(tx *gorm.DB, subcategory *models.Subcategory) error {
	s.byID[subcategory.ID] = subcategory
	return nil
}

type stubProductRepo struct {
	byID     map[uuid.UUID]*models.Product
	products map[string]*models.Product // by SKU
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		byID:     map[uuid.UUID]*models.Product{},
		products: map[string]*models.Product{},
	}
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	if product, ok := s.products[sku]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) List(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, product := range s.byID {
		if categoryID == nil || product.CategoryID == *categoryID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (s *stubProductRepo) ListBySubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, product := range s.byID {
		if product.SubcategoryID == subcategoryID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (s *stubProductRepo) CreateWithTx(tx *gorm.DB, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.byID[product.ID] = product
	s.products[product.SKU] = product
	return nil
}

func (s *stubProductRepo) SaveWithTx(tx *gorm.DB, product *models.Product) error {
	s.byID[product.ID] = product
	s.products[product.SKU] = product
	return nil
}

func (s *stubProductRepo) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if product, ok := s.byID[id]; ok {
		delete(s.products, product.SKU)
		delete(s.byID, id)
	}
	return nil
}
