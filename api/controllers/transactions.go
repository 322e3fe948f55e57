package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barstockapp/barstock-backend/api/responses"
	"github.com/barstockapp/barstock-backend/api/validators"
	"github.com/barstockapp/barstock-backend/internal/txlog"
	"github.com/barstockapp/barstock-backend/pkg/db/models"
	"github.com/barstockapp/barstock-backend/pkg/enums"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
	"github.com/barstockapp/barstock-backend/pkg/logger"
	"github.com/barstockapp/barstock-backend/pkg/pagination"
)

// ListTransactions pages the append-only stock transaction log for one store,
// newest first.
func ListTransactions(repo txlog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transaction log unavailable"))
			return
		}

		storeID, err := validators.ParseQueryUUID(r, "store_id", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := txlog.Filter{
			StoreID: storeID,
			Limit:   limit,
			Cursor:  strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		skuID, err := validators.ParseQueryUUID(r, "sku_id", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if skuID != uuid.Nil {
			filter.SkuID = &skuID
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			txType, err := enums.ParseStockTransactionType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown transaction type").
					WithDetails(map[string]any{"field": "type", "value": raw}))
				return
			}
			filter.Type = &txType
		}

		entries, nextCursor, err := repo.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]transactionResponse, 0, len(entries))
		for _, entry := range entries {
			items = append(items, newTransactionResponse(entry))
		}
		responses.WriteSuccess(w, transactionListResponse{
			Items:      items,
			NextCursor: nextCursor,
		})
	}
}

type transactionListResponse struct {
	Items      []transactionResponse `json:"items"`
	NextCursor string                `json:"next_cursor,omitempty"`
}

type transactionResponse struct {
	ID             uuid.UUID       `json:"id"`
	SkuID          uuid.UUID       `json:"sku_id"`
	StoreID        uuid.UUID       `json:"store_id"`
	OrderID        *uuid.UUID      `json:"order_id,omitempty"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	OnHandBefore   decimal.Decimal `json:"on_hand_before"`
	OnHandAfter    decimal.Decimal `json:"on_hand_after"`
	ReservedBefore decimal.Decimal `json:"reserved_before"`
	ReservedAfter  decimal.Decimal `json:"reserved_after"`
	Operator       string          `json:"operator"`
	Reason         string          `json:"reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func newTransactionResponse(entry models.StockTransaction) transactionResponse {
	return transactionResponse{
		ID:             entry.ID,
		SkuID:          entry.SkuID,
		StoreID:        entry.StoreID,
		OrderID:        entry.OrderID,
		Type:           string(entry.Type),
		Quantity:       entry.Quantity,
		OnHandBefore:   entry.OnHandBefore,
		OnHandAfter:    entry.OnHandAfter,
		ReservedBefore: entry.ReservedBefore,
		ReservedAfter:  entry.ReservedAfter,
		Operator:       entry.Operator,
		Reason:         entry.Reason,
		CreatedAt:      entry.CreatedAt,
	}
}
