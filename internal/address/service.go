package address

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages a user's saved delivery addresses. At most one
// address per user carries the default flag.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*models.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
}

// CreateInput is the validated address creation payload.
type CreateInput struct {
	Type          enums.AddressType
	Country       string
	City          string
	District      string
	Subdistrict   string
	Neighborhood  string
	Street        string
	Boulevard     *string
	Avenue        string
	BuildingNo    *string
	DoorNo        string
	Floor         string
	ApartmentNo   string
	PostalCode    string
	FullAddress   string
	Coordinates   *types.Coordinates
	IsDefaultFlag bool
}

// UpdateInput holds the optional address fields for a merge-patch.
type UpdateInput struct {
	Type          *enums.AddressType
	Country       *string
	City          *string
	District      *string
	Subdistrict   *string
	Neighborhood  *string
	Street        *string
	Boulevard     *string
	Avenue        *string
	BuildingNo    *string
	DoorNo        *string
	Floor         *string
	ApartmentNo   *string
	PostalCode    *string
	FullAddress   *string
	Coordinates   *types.Coordinates
	IsDefaultFlag *bool
}

// AddressRepository defines the persistence surface required by the
// address service.
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindDuplicate(ctx context.Context, candidate *models.Address) (*models.Address, error)
	CreateWithTx(tx *gorm.DB, address *models.Address) error
	SaveWithTx(tx *gorm.DB, address *models.Address) error
	ClearDefaultsWithTx(tx *gorm.DB, userID, exceptID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TxRunner runs a function inside a store transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     AddressRepository
	txRunner TxRunner
}

// NewService constructs an address service instance.
func NewService(repo AddressRepository, txRunner TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, txRunner: txRunner}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error) {
	address := &models.Address{
		UserID:        userID,
		Type:          input.Type,
		Country:       strings.TrimSpace(input.Country),
		City:          strings.TrimSpace(input.City),
		District:      strings.TrimSpace(input.District),
		Subdistrict:   strings.TrimSpace(input.Subdistrict),
		Neighborhood:  strings.TrimSpace(input.Neighborhood),
		Street:        strings.TrimSpace(input.Street),
		Boulevard:     input.Boulevard,
		Avenue:        strings.TrimSpace(input.Avenue),
		BuildingNo:    input.BuildingNo,
		DoorNo:        strings.TrimSpace(input.DoorNo),
		Floor:         strings.TrimSpace(input.Floor),
		ApartmentNo:   strings.TrimSpace(input.ApartmentNo),
		PostalCode:    strings.TrimSpace(input.PostalCode),
		FullAddress:   strings.TrimSpace(input.FullAddress),
		Coordinates:   input.Coordinates,
		ValidFlag:     true,
		IsDefaultFlag: input.IsDefaultFlag,
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if address.FullAddress == "" {
		address.FullAddress = composeFullAddress(address)
	}

	if _, err := s.repo.FindDuplicate(ctx, address); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "this address already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup duplicate address")
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if address.IsDefaultFlag {
			if err := s.repo.ClearDefaultsWithTx(tx, userID, uuid.Nil); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default addresses")
			}
		}
		if err := s.repo.CreateWithTx(tx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*models.Address, error) {
	address, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	applyPatch(address, input)
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	// Recompose unless the caller supplied the rendered form.
	if input.FullAddress == nil {
		address.FullAddress = composeFullAddress(address)
	}

	if _, err := s.repo.FindDuplicate(ctx, address); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "this address already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup duplicate address")
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if input.IsDefaultFlag != nil && *input.IsDefaultFlag {
			if err := s.repo.ClearDefaultsWithTx(tx, userID, address.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default addresses")
			}
		}
		if err := s.repo.SaveWithTx(tx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, address.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete address")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list addresses")
	}
	return addresses, nil
}

func (s *service) loadOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another user")
	}
	return address, nil
}

func applyPatch(address *models.Address, input UpdateInput) {
	if input.Type != nil {
		address.Type = *input.Type
	}
	if input.Country != nil {
		address.Country = strings.TrimSpace(*input.Country)
	}
	if input.City != nil {
		address.City = strings.TrimSpace(*input.City)
	}
	if input.District != nil {
		address.District = strings.TrimSpace(*input.District)
	}
	if input.Subdistrict != nil {
		address.Subdistrict = strings.TrimSpace(*input.Subdistrict)
	}
	if input.Neighborhood != nil {
		address.Neighborhood = strings.TrimSpace(*input.Neighborhood)
	}
	if input.Street != nil {
		address.Street = strings.TrimSpace(*input.Street)
	}
	if input.Boulevard != nil {
		address.Boulevard = input.Boulevard
	}
	if input.Avenue != nil {
		address.Avenue = strings.TrimSpace(*input.Avenue)
	}
	if input.BuildingNo != nil {
		address.BuildingNo = input.BuildingNo
	}
	if input.DoorNo != nil {
		address.DoorNo = strings.TrimSpace(*input.DoorNo)
	}
	if input.Floor != nil {
		address.Floor = strings.TrimSpace(*input.Floor)
	}
	if input.ApartmentNo != nil {
		address.ApartmentNo = strings.TrimSpace(*input.ApartmentNo)
	}
	if input.PostalCode != nil {
		address.PostalCode = strings.TrimSpace(*input.PostalCode)
	}
	if input.FullAddress != nil {
		address.FullAddress = strings.TrimSpace(*input.FullAddress)
	}
	if input.Coordinates != nil {
		address.Coordinates = input.Coordinates
	}
	if input.IsDefaultFlag != nil {
		address.IsDefaultFlag = *input.IsDefaultFlag
	}
}

func validateAddress(address *models.Address) error {
	if !address.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid address type")
	}
	required := map[string]string{
		"country":      address.Country,
		"city":         address.City,
		"district":     address.District,
		"subdistrict":  address.Subdistrict,
		"neighborhood": address.Neighborhood,
		"street":       address.Street,
		"avenue":       address.Avenue,
		"door_no":      address.DoorNo,
		"floor":        address.Floor,
		"apartment_no": address.ApartmentNo,
		"postal_code":  address.PostalCode,
	}
	for field, value := range required {
		if value == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
		}
	}

	// Floor may be zero or negative (basement), the rest must be
	// positive numbers.
	if err := checkPositiveNumeric("door_no", address.DoorNo); err != nil {
		return err
	}
	if err := checkPositiveNumeric("apartment_no", address.ApartmentNo); err != nil {
		return err
	}
	if err := checkPositiveNumeric("postal_code", address.PostalCode); err != nil {
		return err
	}
	if address.BuildingNo != nil {
		if err := checkPositiveNumeric("building_no", *address.BuildingNo); err != nil {
			return err
		}
	}
	if _, err := strconv.Atoi(address.Floor); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "floor must be a number")
	}
	return nil
}

func checkPositiveNumeric(field, value string) error {
	number, err := strconv.Atoi(value)
	if err != nil || number <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" must be a positive number")
	}
	return nil
}

// composeFullAddress renders the structured fields into the single
// display line stored alongside them.
func composeFullAddress(address *models.Address) string {
	building := ""
	if address.BuildingNo != nil {
		building = " " + *address.BuildingNo
	}
	return fmt.Sprintf("%s %s, %s%s, Kapı No: %s, Kat: %s, Daire No: %s, %s, %s, %s, %s",
		address.Neighborhood, address.Street, address.Avenue, building,
		address.DoorNo, address.Floor, address.ApartmentNo,
		address.District, address.City, address.Country, address.PostalCode)
}
