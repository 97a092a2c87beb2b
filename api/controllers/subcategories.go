package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/responses"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/validators"
	subcategoriessvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/subcategories"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/types"
)

type createSubcategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
	Description *string `json:"description"`
}

type updateSubcategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type subcategoryResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	CategoryID  uuid.UUID        `json:"category_id"`
	Description *string          `json:"description,omitempty"`
	Brands      types.BrandIndex `json:"brands"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func newSubcategoryResponse(s *models.Subcategory) subcategoryResponse {
	return subcategoryResponse{
		ID:          s.ID,
		Name:        s.Name,
		CategoryID:  s.CategoryID,
		Description: s.Description,
		Brands:      s.Brands,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// SubcategoryList returns subcategories, optionally scoped to one
// category via ?category_id=.
func SubcategoryList(svc subcategoriessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var categoryID *uuid.UUID
		if raw := r.URL.Query().Get("category_id"); raw != "" {
			id, err := parseUUIDField(raw, "category_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			categoryID = &id
		}

		subcategories, err := svc.List(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]subcategoryResponse, len(subcategories))
		for i := range subcategories {
			out[i] = newSubcategoryResponse(&subcategories[i])
		}
		responses.WriteSuccess(w, out)
	}
}

// SubcategoryCreate adds a subcategory under a category. Admin only.
func SubcategoryCreate(svc subcategoriessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createSubcategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := parseUUIDField(payload.CategoryID, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subcategory, err := svc.Create(r.Context(), actorID, subcategoriessvc.CreateInput{
			Name:        payload.Name,
			CategoryID:  categoryID,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newSubcategoryResponse(subcategory))
	}
}

// SubcategoryUpdate merge-patches a subcategory. Admin only.
func SubcategoryUpdate(svc subcategoriessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subcategoryID, err := pathUUID(r, "subcategoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSubcategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subcategory, err := svc.Update(r.Context(), actorID, subcategoryID, subcategoriessvc.UpdateInput{
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSubcategoryResponse(subcategory))
	}
}

// SubcategoryDelete removes an empty subcategory. Admin only.
func SubcategoryDelete(svc subcategoriessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subcategoryID, err := pathUUID(r, "subcategoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), subcategoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
