package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/responses"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/validators"
	orderssvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/orders"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
)

type checkoutRequest struct {
	AddressID    string `json:"address_id" validate:"required,uuid"`
	DeliveryType string `json:"delivery_type"`
}

type orderItemResponse struct {
	ProductTitle string          `json:"product_title"`
	ProductImage string          `json:"product_image"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Discount     decimal.Decimal `json:"discount"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	AddressID       uuid.UUID           `json:"address_id"`
	OrderDate       time.Time           `json:"order_date"`
	TotalCount      int                 `json:"total_count"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	TotalFinalPrice decimal.Decimal     `json:"total_final_price"`
	DeliveryType    string              `json:"delivery_type"`
	DeliveryCost    decimal.Decimal     `json:"delivery_cost"`
	DiscountCost    decimal.Decimal     `json:"discount_cost"`
	OrderStatus     string              `json:"order_status"`
	CancelFlag      bool                `json:"cancel_flag"`
	CancelDate      *time.Time          `json:"cancel_date,omitempty"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

func newOrderResponse(o *models.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemResponse{
			ProductTitle: item.ProductTitle,
			ProductImage: item.ProductImage,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			Discount:     item.Discount,
		}
	}
	return orderResponse{
		ID:              o.ID,
		AddressID:       o.AddressID,
		OrderDate:       o.OrderDate,
		TotalCount:      o.TotalCount,
		TotalPrice:      o.TotalPrice,
		TotalFinalPrice: o.TotalFinalPrice,
		DeliveryType:    string(o.DeliveryType),
		DeliveryCost:    o.DeliveryCost,
		DiscountCost:    o.DiscountCost,
		OrderStatus:     string(o.OrderStatus),
		CancelFlag:      o.CancelFlag,
		CancelDate:      o.CancelDate,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

// CheckoutOrder snapshots the active cart into a new order.
func CheckoutOrder(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := parseUUIDField(payload.AddressID, "address_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orderssvc.CheckoutInput{AddressID: addressID}
		if payload.DeliveryType != "" {
			deliveryType, err := enums.ParseDeliveryType(payload.DeliveryType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery type"))
				return
			}
			input.DeliveryType = deliveryType
		}

		order, err := svc.Checkout(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

// OrderList returns the user's orders, newest first.
func OrderList(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderResponse, len(orders))
		for i := range orders {
			out[i] = newOrderResponse(&orders[i])
		}
		responses.WriteSuccess(w, out)
	}
}

// OrderDetail returns one of the user's orders with its line items.
func OrderDetail(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderCancel cancels an order that is still being prepared.
func OrderCancel(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
