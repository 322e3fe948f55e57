package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barstockapp/barstock-backend/api/middleware"
	"github.com/barstockapp/barstock-backend/api/responses"
	"github.com/barstockapp/barstock-backend/api/validators"
	"github.com/barstockapp/barstock-backend/internal/reservations"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
	"github.com/barstockapp/barstock-backend/pkg/logger"
)

// CreateAdjustment applies a manual stock movement (intake, correction,
// waste) to one SKU in one store.
func CreateAdjustment(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		var payload adjustmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Adjust(r.Context(), reservations.AdjustInput{
			StoreID:  payload.StoreID,
			SkuID:    payload.SkuID,
			Quantity: payload.Quantity,
			Operator: middleware.OperatorFromContext(r.Context()),
			Reason:   payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type adjustmentRequest struct {
	StoreID  uuid.UUID       `json:"store_id" validate:"required"`
	SkuID    uuid.UUID       `json:"sku_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Reason   string          `json:"reason" validate:"max=500"`
}
