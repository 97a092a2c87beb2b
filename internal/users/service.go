package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes profile and favourite-list operations for the
// authenticated user.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateInfo(ctx context.Context, userID uuid.UUID, input UpdateInfoInput) (*UserDTO, error)
	AddFavourite(ctx context.Context, userID, productID uuid.UUID) (*UserDTO, error)
	RemoveFavourite(ctx context.Context, userID, productID uuid.UUID) (*UserDTO, error)
	ListFavourites(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
}

// UpdateInfoInput captures the optional profile fields a user may change.
type UpdateInfoInput struct {
	Name         *string
	Surname      *string
	TelNumber    *string
	Birthdate    *time.Time
	ProfileImage *string
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	UpdateFavouriteProductIDs(ctx context.Context, id uuid.UUID, productIDs []uuid.UUID) error
}

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	AdjustCounter(ctx context.Context, id uuid.UUID, column string, delta int) error
}

type service struct {
	repo     userRepository
	products productCatalog
}

// NewService constructs the user profile service.
func NewService(repo userRepository, products productCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateInfo(ctx context.Context, userID uuid.UUID, input UpdateInfoInput) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Surname != nil {
		if strings.TrimSpace(*input.Surname) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "surname cannot be empty")
		}
		user.Surname = strings.TrimSpace(*input.Surname)
	}
	if input.TelNumber != nil {
		tel := strings.TrimSpace(*input.TelNumber)
		user.TelNumber = &tel
	}
	if input.Birthdate != nil {
		user.Birthdate = input.Birthdate
	}
	if input.ProfileImage != nil {
		user.ProfileImage = strings.TrimSpace(*input.ProfileImage)
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
	}
	return FromModel(user), nil
}

func (s *service) AddFavourite(ctx context.Context, userID, productID uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	for _, id := range user.FavouriteProductIDs {
		if id == productID {
			return FromModel(user), nil
		}
	}

	updated := append([]uuid.UUID(user.FavouriteProductIDs), productID)
	if err := s.repo.UpdateFavouriteProductIDs(ctx, userID, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update favourites")
	}
	if err := s.products.AdjustCounter(ctx, productID, "favourite_count", 1); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: bump favourite count")
	}

	user.FavouriteProductIDs = updated
	return FromModel(user), nil
}

func (s *service) RemoveFavourite(ctx context.Context, userID, productID uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	remaining := make([]uuid.UUID, 0, len(user.FavouriteProductIDs))
	found := false
	for _, id := range user.FavouriteProductIDs {
		if id == productID {
			found = true
			continue
		}
		remaining = append(remaining, id)
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in favourites")
	}

	if err := s.repo.UpdateFavouriteProductIDs(ctx, userID, remaining); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update favourites")
	}
	if err := s.products.AdjustCounter(ctx, productID, "favourite_count", -1); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: drop favourite count")
	}

	user.FavouriteProductIDs = remaining
	return FromModel(user), nil
}

func (s *service) ListFavourites(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.FavouriteProductIDs) == 0 {
		return []models.Product{}, nil
	}
	products, err := s.products.FindByIDs(ctx, user.FavouriteProductIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load favourite products")
	}
	return products, nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	return user, nil
}
