package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes admin product management and the public listings.
// Every mutation also maintains the owning subcategory's brand index
// inside the same transaction as the product write.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, actorID, productID uuid.UUID, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, productID uuid.UUID) error
	List(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	ListBySubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]models.Product, error)
}

// CreateInput is the validated product creation payload.
type CreateInput struct {
	Title             string
	Description       string
	Image             string
	OtherImages       []string
	SKU               string
	CategoryID        uuid.UUID
	SubcategoryID     uuid.UUID
	Brand             string
	PriceTL           decimal.Decimal
	DiscountedPriceTL *decimal.Decimal
	MeasureUnit       string
	MeasureValue      float64
	StockCount        int
}

// UpdateInput holds the optional product fields for a merge-patch.
type UpdateInput struct {
	Title             *string
	Description       *string
	Image             *string
	OtherImages       *[]string
	SKU               *string
	CategoryID        *uuid.UUID
	SubcategoryID     *uuid.UUID
	Brand             *string
	PriceTL           *decimal.Decimal
	DiscountedPriceTL *decimal.Decimal
	ClearDiscount     bool
	MeasureUnit       *string
	MeasureValue      *float64
	StockCount        *int
}

// ProductRepository defines the persistence surface required by the
// product service.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	ListBySubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]models.Product, error)
	CreateWithTx(tx *gorm.DB, product *models.Product) error
	SaveWithTx(tx *gorm.DB, product *models.Product) error
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

// TxRunner runs a function inside a store transaction. *db.Client
// satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type subcategoryIndex interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subcategory, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Subcategory, error)
	UpdateBrandsWithTx(tx *gorm.DB, subcategory *models.Subcategory) error
}

type service struct {
	repo          ProductRepository
	txRunner      TxRunner
	categories    categoryLoader
	subcategories subcategoryIndex
	logg          *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo ProductRepository, txRunner TxRunner, categories categoryLoader, subcategories subcategoryIndex, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if subcategories == nil {
		return nil, fmt.Errorf("subcategory repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:          repo,
		txRunner:      txRunner,
		categories:    categories,
		subcategories: subcategories,
		logg:          logg,
	}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Product, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	if err := s.ensureHierarchy(ctx, input.CategoryID, input.SubcategoryID); err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(input.SKU)
	if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product with this SKU already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup sku")
	}

	brand := types.NormalizeBrand(input.Brand)
	product := &models.Product{
		Title:             strings.TrimSpace(input.Title),
		Description:       strings.TrimSpace(input.Description),
		Image:             input.Image,
		OtherImages:       input.OtherImages,
		SKU:               sku,
		CategoryID:        input.CategoryID,
		SubcategoryID:     input.SubcategoryID,
		Brand:             brand,
		PriceTL:           input.PriceTL,
		DiscountedPriceTL: input.DiscountedPriceTL,
		MeasureUnit:       strings.TrimSpace(input.MeasureUnit),
		MeasureValue:      input.MeasureValue,
		StockCount:        input.StockCount,
		RecentlyAddedFlag: true,
		CreatedBy:         actorID,
		UpdatedBy:         actorID,
	}
	if product.OtherImages == nil {
		product.OtherImages = []string{}
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, product); err != nil {
			// The pre-check above races with concurrent creates; the
			// unique index has the final word.
			if db.IsUniqueViolation(err, "idx_products_sku") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product with this SKU already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		return s.indexAdd(tx, product.SubcategoryID, brand, product.ID)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, actorID, productID uuid.UUID, input UpdateInput) (*models.Product, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}

	oldBrand := product.Brand
	oldSubcategoryID := product.SubcategoryID

	if err := s.applyPatch(ctx, product, input); err != nil {
		return nil, err
	}
	product.UpdatedBy = actorID

	indexMoved := product.Brand != oldBrand || product.SubcategoryID != oldSubcategoryID

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.SaveWithTx(tx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		if !indexMoved {
			return nil
		}
		s.indexRemove(ctx, tx, oldSubcategoryID, oldBrand, product.ID)
		return s.indexAdd(tx, product.SubcategoryID, product.Brand, product.ID)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, productID uuid.UUID) error {
	product, err := s.load(ctx, productID)
	if err != nil {
		return err
	}

	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.DeleteWithTx(tx, product.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}
		s.indexRemove(ctx, tx, product.SubcategoryID, product.Brand, product.ID)
		return nil
	})
}

func (s *service) List(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	if categoryID != nil {
		if _, err := s.categories.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
		}
	}
	products, err := s.repo.List(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return products, nil
}

func (s *service) ListBySubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]models.Product, error) {
	if _, err := s.subcategories.FindByID(ctx, subcategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load subcategory")
	}
	products, err := s.repo.ListBySubcategory(ctx, subcategoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return products, nil
}

// indexAdd registers the product under its normalized brand key. The
// subcategory was validated before the transaction started, so a miss
// here means it vanished underneath us and the write must not commit.
func (s *service) indexAdd(tx *gorm.DB, subcategoryID uuid.UUID, brand string, productID uuid.UUID) error {
	subcategory, err := s.subcategories.FindByIDWithTx(tx, subcategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeConflict, "subcategory was removed concurrently")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load subcategory for brand index")
	}
	if subcategory.Brands == nil {
		subcategory.Brands = types.BrandIndex{}
	}
	subcategory.Brands.Add(brand, productID)
	if err := s.subcategories.UpdateBrandsWithTx(tx, subcategory); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update brand index")
	}
	return nil
}

// indexRemove prunes the product from the old brand key. A missing
// subcategory only means stale index state with nothing to prune; the
// product mutation still goes through, but the situation is logged so
// it never disappears silently.
func (s *service) indexRemove(ctx context.Context, tx *gorm.DB, subcategoryID uuid.UUID, brand string, productID uuid.UUID) {
	subcategory, err := s.subcategories.FindByIDWithTx(tx, subcategoryID)
	if err != nil {
		lctx := s.logg.WithFields(ctx, map[string]any{
			"subcategory_id": subcategoryID.String(),
			"product_id":     productID.String(),
		})
		s.logg.Error(lctx, "brand index prune skipped: subcategory unavailable", err)
		return
	}
	if subcategory.Brands == nil {
		return
	}
	subcategory.Brands.Remove(brand, productID)
	if err := s.subcategories.UpdateBrandsWithTx(tx, subcategory); err != nil {
		lctx := s.logg.WithField(ctx, "subcategory_id", subcategoryID.String())
		s.logg.Error(lctx, "brand index prune failed", err)
	}
}

func (s *service) applyPatch(ctx context.Context, product *models.Product, input UpdateInput) error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		product.Title = title
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Image != nil {
		if *input.Image == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image cannot be empty")
		}
		product.Image = *input.Image
	}
	if input.OtherImages != nil {
		product.OtherImages = *input.OtherImages
		if product.OtherImages == nil {
			product.OtherImages = []string{}
		}
	}
	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		if sku != product.SKU {
			if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "product with this SKU already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup sku")
			}
			product.SKU = sku
		}
	}

	categoryID := product.CategoryID
	subcategoryID := product.SubcategoryID
	if input.CategoryID != nil {
		categoryID = *input.CategoryID
	}
	if input.SubcategoryID != nil {
		subcategoryID = *input.SubcategoryID
	}
	if categoryID != product.CategoryID || subcategoryID != product.SubcategoryID {
		if err := s.ensureHierarchy(ctx, categoryID, subcategoryID); err != nil {
			return err
		}
		product.CategoryID = categoryID
		product.SubcategoryID = subcategoryID
	}

	if input.Brand != nil {
		brand := types.NormalizeBrand(*input.Brand)
		if brand == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "brand cannot be empty")
		}
		product.Brand = brand
	}
	if input.PriceTL != nil {
		if !input.PriceTL.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		product.PriceTL = *input.PriceTL
	}
	if input.ClearDiscount {
		product.DiscountedPriceTL = nil
	} else if input.DiscountedPriceTL != nil {
		product.DiscountedPriceTL = input.DiscountedPriceTL
	}
	if product.DiscountedPriceTL != nil {
		if product.DiscountedPriceTL.IsNegative() || product.DiscountedPriceTL.GreaterThan(product.PriceTL) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discounted price must be between zero and the list price")
		}
	}
	if input.MeasureUnit != nil {
		unit := strings.TrimSpace(*input.MeasureUnit)
		if unit == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "measure unit cannot be empty")
		}
		product.MeasureUnit = unit
	}
	if input.MeasureValue != nil {
		if *input.MeasureValue <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "measure value must be positive")
		}
		product.MeasureValue = *input.MeasureValue
	}
	if input.StockCount != nil {
		if *input.StockCount < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "stock count cannot be negative")
		}
		product.StockCount = *input.StockCount
	}
	return nil
}

// ensureHierarchy checks the category exists and the subcategory
// belongs to it.
func (s *service) ensureHierarchy(ctx context.Context, categoryID, subcategoryID uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	subcategory, err := s.subcategories.FindByID(ctx, subcategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load subcategory")
	}
	if subcategory.CategoryID != categoryID {
		return pkgerrors.New(pkgerrors.CodeValidation, "subcategory does not belong to the given category")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func validateCreate(input CreateInput) error {
	switch {
	case strings.TrimSpace(input.Title) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	case input.Image == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	case strings.TrimSpace(input.SKU) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	case types.NormalizeBrand(input.Brand) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	case strings.TrimSpace(input.MeasureUnit) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "measure unit is required")
	}
	if !input.PriceTL.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.DiscountedPriceTL != nil {
		if input.DiscountedPriceTL.IsNegative() || input.DiscountedPriceTL.GreaterThan(input.PriceTL) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discounted price must be between zero and the list price")
		}
	}
	if input.MeasureValue <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "measure value must be positive")
	}
	if input.StockCount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock count cannot be negative")
	}
	return nil
}
