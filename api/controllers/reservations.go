package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barstockapp/barstock-backend/api/middleware"
	"github.com/barstockapp/barstock-backend/api/responses"
	"github.com/barstockapp/barstock-backend/api/validators"
	"github.com/barstockapp/barstock-backend/internal/reservations"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
	"github.com/barstockapp/barstock-backend/pkg/logger"
)

// CreateReservation expands the order's items and places an all-or-nothing
// hold against available stock.
func CreateReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		var payload reservationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]reservations.RequestedItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, reservations.RequestedItem{
				SkuID:           item.SkuID,
				Quantity:        item.Quantity,
				IncludeOptional: item.IncludeOptional,
			})
		}

		result, err := svc.Reserve(r.Context(), reservations.ReserveInput{
			OrderID:  payload.OrderID,
			StoreID:  payload.StoreID,
			Operator: middleware.OperatorFromContext(r.Context()),
			Items:    items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ReleaseReservation hands an active hold back to available stock. Unknown or
// already-terminal orders are an idempotent success.
func ReleaseReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := validators.ParseQueryUUID(r, "store_id", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Release(r.Context(), reservations.OrderRef{
			OrderID:  orderID,
			StoreID:  storeID,
			Operator: middleware.OperatorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type reservationRequest struct {
	OrderID uuid.UUID                `json:"order_id" validate:"required"`
	StoreID uuid.UUID                `json:"store_id" validate:"required"`
	Items   []reservationItemRequest `json:"items" validate:"required,min=1,dive"`
}

type reservationItemRequest struct {
	SkuID           uuid.UUID       `json:"sku_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required"`
	IncludeOptional []uuid.UUID     `json:"include_optional,omitempty"`
}
