package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/barstockapp/barstock-backend/api/middleware"
	"github.com/barstockapp/barstock-backend/api/responses"
	"github.com/barstockapp/barstock-backend/api/validators"
	"github.com/barstockapp/barstock-backend/internal/reservations"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
	"github.com/barstockapp/barstock-backend/pkg/logger"
)

// CreateDeduction converts an active reservation into real consumption using
// the snapshot captured at reserve time.
func CreateDeduction(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		var payload deductionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Deduct(r.Context(), reservations.OrderRef{
			OrderID:  payload.OrderID,
			StoreID:  payload.StoreID,
			Operator: middleware.OperatorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type deductionRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	StoreID uuid.UUID `json:"store_id" validate:"required"`
}
