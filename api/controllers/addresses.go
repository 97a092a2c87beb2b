package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/responses"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/validators"
	addresssvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/address"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/types"
)

type createAddressRequest struct {
	Type          string             `json:"type" validate:"required"`
	Country       string             `json:"country" validate:"required"`
	City          string             `json:"city" validate:"required"`
	District      string             `json:"district" validate:"required"`
	Subdistrict   string             `json:"subdistrict" validate:"required"`
	Neighborhood  string             `json:"neighborhood" validate:"required"`
	Street        string             `json:"street" validate:"required"`
	Boulevard     *string            `json:"boulevard"`
	Avenue        string             `json:"avenue" validate:"required"`
	BuildingNo    *string            `json:"building_no"`
	DoorNo        string             `json:"door_no" validate:"required"`
	Floor         string             `json:"floor" validate:"required"`
	ApartmentNo   string             `json:"apartment_no" validate:"required"`
	PostalCode    string             `json:"postal_code" validate:"required"`
	FullAddress   string             `json:"full_address"`
	Coordinates   *types.Coordinates `json:"coordinates"`
	IsDefaultFlag bool               `json:"is_default_flag"`
}

type updateAddressRequest struct {
	Type          *string            `json:"type"`
	Country       *string            `json:"country"`
	City          *string            `json:"city"`
	District      *string            `json:"district"`
	Subdistrict   *string            `json:"subdistrict"`
	Neighborhood  *string            `json:"neighborhood"`
	Street        *string            `json:"street"`
	Boulevard     *string            `json:"boulevard"`
	Avenue        *string            `json:"avenue"`
	BuildingNo    *string            `json:"building_no"`
	DoorNo        *string            `json:"door_no"`
	Floor         *string            `json:"floor"`
	ApartmentNo   *string            `json:"apartment_no"`
	PostalCode    *string            `json:"postal_code"`
	FullAddress   *string            `json:"full_address"`
	Coordinates   *types.Coordinates `json:"coordinates"`
	IsDefaultFlag *bool              `json:"is_default_flag"`
}

type addressResponse struct {
	ID            uuid.UUID          `json:"id"`
	Type          string             `json:"type"`
	Country       string             `json:"country"`
	City          string             `json:"city"`
	District      string             `json:"district"`
	Subdistrict   string             `json:"subdistrict"`
	Neighborhood  string             `json:"neighborhood"`
	Street        string             `json:"street"`
	Boulevard     *string            `json:"boulevard,omitempty"`
	Avenue        string             `json:"avenue"`
	BuildingNo    *string            `json:"building_no,omitempty"`
	DoorNo        string             `json:"door_no"`
	Floor         string             `json:"floor"`
	ApartmentNo   string             `json:"apartment_no"`
	PostalCode    string             `json:"postal_code"`
	FullAddress   string             `json:"full_address"`
	Coordinates   *types.Coordinates `json:"coordinates,omitempty"`
	IsDefaultFlag bool               `json:"is_default_flag"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func newAddressResponse(a *models.Address) addressResponse {
	return addressResponse{
		ID:            a.ID,
		Type:          string(a.Type),
		Country:       a.Country,
		City:          a.City,
		District:      a.District,
		Subdistrict:   a.Subdistrict,
		Neighborhood:  a.Neighborhood,
		Street:        a.Street,
		Boulevard:     a.Boulevard,
		Avenue:        a.Avenue,
		BuildingNo:    a.BuildingNo,
		DoorNo:        a.DoorNo,
		Floor:         a.Floor,
		ApartmentNo:   a.ApartmentNo,
		PostalCode:    a.PostalCode,
		FullAddress:   a.FullAddress,
		Coordinates:   a.Coordinates,
		IsDefaultFlag: a.IsDefaultFlag,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AddressList returns the user's saved addresses, oldest first.
func AddressList(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addresses, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]addressResponse, len(addresses))
		for i := range addresses {
			out[i] = newAddressResponse(&addresses[i])
		}
		responses.WriteSuccess(w, out)
	}
}

// AddressCreate saves a new delivery address for the user.
func AddressCreate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressType, err := enums.ParseAddressType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address type"))
			return
		}

		address, err := svc.Create(r.Context(), userID, addresssvc.CreateInput{
			Type:          addressType,
			Country:       payload.Country,
			City:          payload.City,
			District:      payload.District,
			Subdistrict:   payload.Subdistrict,
			Neighborhood:  payload.Neighborhood,
			Street:        payload.Street,
			Boulevard:     payload.Boulevard,
			Avenue:        payload.Avenue,
			BuildingNo:    payload.BuildingNo,
			DoorNo:        payload.DoorNo,
			Floor:         payload.Floor,
			ApartmentNo:   payload.ApartmentNo,
			PostalCode:    payload.PostalCode,
			FullAddress:   payload.FullAddress,
			Coordinates:   payload.Coordinates,
			IsDefaultFlag: payload.IsDefaultFlag,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newAddressResponse(address))
	}
}

// AddressUpdate merge-patches one of the user's addresses.
func AddressUpdate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := addresssvc.UpdateInput{
			Country:       payload.Country,
			City:          payload.City,
			District:      payload.District,
			Subdistrict:   payload.Subdistrict,
			Neighborhood:  payload.Neighborhood,
			Street:        payload.Street,
			Boulevard:     payload.Boulevard,
			Avenue:        payload.Avenue,
			BuildingNo:    payload.BuildingNo,
			DoorNo:        payload.DoorNo,
			Floor:         payload.Floor,
			ApartmentNo:   payload.ApartmentNo,
			PostalCode:    payload.PostalCode,
			FullAddress:   payload.FullAddress,
			Coordinates:   payload.Coordinates,
			IsDefaultFlag: payload.IsDefaultFlag,
		}
		if payload.Type != nil {
			addressType, err := enums.ParseAddressType(*payload.Type)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address type"))
				return
			}
			input.Type = &addressType
		}

		address, err := svc.Update(r.Context(), userID, addressID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newAddressResponse(address))
	}
}

// AddressDelete removes one of the user's addresses.
func AddressDelete(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
