package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/responses"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/validators"
	productssvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/products"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
)

type createProductRequest struct {
	Title             string           `json:"title" validate:"required"`
	Description       string           `json:"description"`
	Image             string           `json:"image" validate:"required"`
	OtherImages       []string         `json:"other_images"`
	SKU               string           `json:"sku" validate:"required"`
	CategoryID        string           `json:"category_id" validate:"required,uuid"`
	SubcategoryID     string           `json:"subcategory_id" validate:"required,uuid"`
	Brand             string           `json:"brand" validate:"required"`
	PriceTL           decimal.Decimal  `json:"price_tl" validate:"required"`
	DiscountedPriceTL *decimal.Decimal `json:"discounted_price_tl"`
	MeasureUnit       string           `json:"measure_unit" validate:"required"`
	MeasureValue      float64          `json:"measure_value" validate:"required,gt=0"`
	StockCount        int              `json:"stock_count" validate:"gte=0"`
}

type updateProductRequest struct {
	Title             *string          `json:"title"`
	Description       *string          `json:"description"`
	Image             *string          `json:"image"`
	OtherImages       *[]string        `json:"other_images"`
	SKU               *string          `json:"sku"`
	CategoryID        *string          `json:"category_id"`
	SubcategoryID     *string          `json:"subcategory_id"`
	Brand             *string          `json:"brand"`
	PriceTL           *decimal.Decimal `json:"price_tl"`
	DiscountedPriceTL *decimal.Decimal `json:"discounted_price_tl"`
	ClearDiscount     bool             `json:"clear_discount"`
	MeasureUnit       *string          `json:"measure_unit"`
	MeasureValue      *float64         `json:"measure_value"`
	StockCount        *int             `json:"stock_count"`
}

type productResponse struct {
	ID                uuid.UUID        `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Image             string           `json:"image"`
	OtherImages       []string         `json:"other_images"`
	SKU               string           `json:"sku"`
	CategoryID        uuid.UUID        `json:"category_id"`
	SubcategoryID     uuid.UUID        `json:"subcategory_id"`
	Brand             string           `json:"brand"`
	PriceTL           decimal.Decimal  `json:"price_tl"`
	DiscountedPriceTL *decimal.Decimal `json:"discounted_price_tl,omitempty"`
	MeasureUnit       string           `json:"measure_unit"`
	MeasureValue      float64          `json:"measure_value"`
	StockCount        int              `json:"stock_count"`
	RecentlyAddedFlag bool             `json:"recently_added_flag"`
	ViewCount         int              `json:"view_count"`
	FavouriteCount    int              `json:"favourite_count"`
	AddedToCartCount  int              `json:"added_to_cart_count"`
	OrderCount        int              `json:"order_count"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func newProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:                p.ID,
		Title:             p.Title,
		Description:       p.Description,
		Image:             p.Image,
		OtherImages:       p.OtherImages,
		SKU:               p.SKU,
		CategoryID:        p.CategoryID,
		SubcategoryID:     p.SubcategoryID,
		Brand:             p.Brand,
		PriceTL:           p.PriceTL,
		DiscountedPriceTL: p.DiscountedPriceTL,
		MeasureUnit:       p.MeasureUnit,
		MeasureValue:      p.MeasureValue,
		StockCount:        p.StockCount,
		RecentlyAddedFlag: p.RecentlyAddedFlag,
		ViewCount:         p.ViewCount,
		FavouriteCount:    p.FavouriteCount,
		AddedToCartCount:  p.AddedToCartCount,
		OrderCount:        p.OrderCount,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func newProductListResponse(products []models.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = newProductResponse(&products[i])
	}
	return out
}

// ProductList returns products, optionally scoped via ?category_id=.
func ProductList(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		products, err := svc.List(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductListResponse(products))
	}
}

// ProductListBySubcategory returns the products of one subcategory.
func ProductListBySubcategory(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subcategoryID, err := pathUUID(r, "subcategoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListBySubcategory(r.Context(), subcategoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductListResponse(products))
	}
}

// ProductCreate adds a catalog product. Admin only.
func ProductCreate(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := parseUUIDField(payload.CategoryID, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		subcategoryID, err := parseUUIDField(payload.SubcategoryID, "subcategory_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), actorID, productssvc.CreateInput{
			Title:             payload.Title,
			Description:       payload.Description,
			Image:             payload.Image,
			OtherImages:       payload.OtherImages,
			SKU:               payload.SKU,
			CategoryID:        categoryID,
			SubcategoryID:     subcategoryID,
			Brand:             payload.Brand,
			PriceTL:           payload.PriceTL,
			DiscountedPriceTL: payload.DiscountedPriceTL,
			MeasureUnit:       payload.MeasureUnit,
			MeasureValue:      payload.MeasureValue,
			StockCount:        payload.StockCount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(product))
	}
}

// ProductUpdate merge-patches a product. Admin only.
func ProductUpdate(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productssvc.UpdateInput{
			Title:             payload.Title,
			Description:       payload.Description,
			Image:             payload.Image,
			OtherImages:       payload.OtherImages,
			SKU:               payload.SKU,
			Brand:             payload.Brand,
			PriceTL:           payload.PriceTL,
			DiscountedPriceTL: payload.DiscountedPriceTL,
			ClearDiscount:     payload.ClearDiscount,
			MeasureUnit:       payload.MeasureUnit,
			MeasureValue:      payload.MeasureValue,
			StockCount:        payload.StockCount,
		}
		if payload.CategoryID != nil {
			id, err := parseUUIDField(*payload.CategoryID, "category_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CategoryID = &id
		}
		if payload.SubcategoryID != nil {
			id, err := parseUUIDField(*payload.SubcategoryID, "subcategory_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.SubcategoryID = &id
		}

		product, err := svc.Update(r.Context(), actorID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// ProductDelete removes a product and prunes its brand index entry.
// Admin only.
func ProductDelete(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
