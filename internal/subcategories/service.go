package subcategories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes admin subcategory management plus the public listing.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Subcategory, error)
	Update(ctx context.Context, actorID, subcategoryID uuid.UUID, input UpdateInput) (*models.Subcategory, error)
	Delete(ctx context.Context, subcategoryID uuid.UUID) error
	List(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error)
}

// CreateInput is the validated subcategory creation payload.
type CreateInput struct {
	Name        string
	CategoryID  uuid.UUID
	Description *string
}

// UpdateInput holds the optional subcategory fields for a merge-patch.
type UpdateInput struct {
	Name        *string
	Description *string
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type productCounter interface {
	CountBySubcategory(ctx context.Context, subcategoryID uuid.UUID) (int64, error)
}

type service struct {
	repo       *Repository
	categories categoryLoader
	products   productCounter
}

// NewService constructs a subcategory service instance.
func NewService(repo *Repository, categories categoryLoader, products productCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subcategory repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, categories: categories, products: products}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.Subcategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	if _, err := s.categories.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	if _, err := s.repo.FindByNameInCategory(ctx, name, input.CategoryID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "subcategory already exists in this category")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup subcategory name")
	}

	subcategory := &models.Subcategory{
		Name:        name,
		CategoryID:  input.CategoryID,
		Description: input.Description,
		Brands:      types.BrandIndex{},
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}
	if err := s.repo.Create(ctx, subcategory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert subcategory")
	}
	return subcategory, nil
}

func (s *service) Update(ctx context.Context, actorID, subcategoryID uuid.UUID, input UpdateInput) (*models.Subcategory, error) {
	subcategory, err := s.load(ctx, subcategoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		if name != subcategory.Name {
			if _, err := s.repo.FindByNameInCategory(ctx, name, subcategory.CategoryID); err == nil {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "subcategory already exists in this category")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup subcategory name")
			}
			subcategory.Name = name
		}
	}
	if input.Description != nil {
		subcategory.Description = input.Description
	}
	subcategory.UpdatedBy = actorID

	if err := s.repo.Save(ctx, subcategory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update subcategory")
	}
	return subcategory, nil
}

// Delete refuses while any product still references the subcategory.
func (s *service) Delete(ctx context.Context, subcategoryID uuid.UUID) error {
	if _, err := s.load(ctx, subcategoryID); err != nil {
		return err
	}

	count, err := s.products.CountBySubcategory(ctx, subcategoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeDependent, "subcategory still has products").
			WithDetails(map[string]any{"product_count": count})
	}

	if err := s.repo.Delete(ctx, subcategoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete subcategory")
	}
	return nil
}

func (s *service) List(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error) {
	if categoryID != nil {
		if _, err := s.categories.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
		}
	}
	subcategories, err := s.repo.List(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list subcategories")
	}
	return subcategories, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	subcategory, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load subcategory")
	}
	return subcategory, nil
}
