package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes admin category management plus the public listing.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Category, error)
	Update(ctx context.Context, actorID, categoryID uuid.UUID, input UpdateInput) (*models.Category, error)
	Delete(ctx context.Context, categoryID uuid.UUID) error
	List(ctx context.Context) ([]models.Category, error)
}

// CreateInput is the validated category creation payload.
type CreateInput struct {
	Name        string
	Description *string
	Image       string
}

// UpdateInput holds the optional category fields for a merge-patch.
type UpdateInput struct {
	Name        *string
	Description *string
	Image       *string
}

type subcategoryLister interface {
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Subcategory, error)
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

type productCounter interface {
	CountBySubcategory(ctx context.Context, subcategoryID uuid.UUID) (int64, error)
}

type service struct {
	repo          *Repository
	dbClient      *db.Client
	subcategories subcategoryLister
	products      productCounter
}

// NewService constructs a category service instance.
func NewService(repo *Repository, dbClient *db.Client, subcategories subcategoryLister, products productCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if subcategories == nil {
		return nil, fmt.Errorf("subcategory repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{
		repo:          repo,
		dbClient:      dbClient,
		subcategories: subcategories,
		products:      products,
	}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Image) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}

	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Description: input.Description,
		Image:       strings.TrimSpace(input.Image),
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return category, nil
}

func (s *service) Update(ctx context.Context, actorID, categoryID uuid.UUID, input UpdateInput) (*models.Category, error) {
	category, err := s.load(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		if name != category.Name {
			if err := s.ensureNameFree(ctx, name); err != nil {
				return nil, err
			}
			category.Name = name
		}
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.Image != nil {
		image := strings.TrimSpace(*input.Image)
		if image == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image cannot be empty")
		}
		category.Image = image
	}
	category.UpdatedBy = actorID

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return category, nil
}

// Delete cascades to subcategories that carry no products and refuses
// the whole operation when any subcategory still has products.
func (s *service) Delete(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.load(ctx, categoryID); err != nil {
		return err
	}

	children, err := s.subcategories.ListByCategory(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list subcategories")
	}
	for _, child := range children {
		count, err := s.products.CountBySubcategory(ctx, child.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeDependent, "category has subcategories with products").
				WithDetails(map[string]any{"subcategory_id": child.ID, "product_count": count})
		}
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		for _, child := range children {
			if err := s.subcategories.DeleteWithTx(tx, child.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete subcategory")
			}
		}
		if err := s.repo.WithTx(tx).Delete(ctx, categoryID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
		}
		return nil
	})
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return categories, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return category, nil
}

func (s *service) ensureNameFree(ctx context.Context, name string) error {
	_, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup category name")
}
