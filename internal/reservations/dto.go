package reservations

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestedItem is one top-level order line before BOM expansion.
type RequestedItem struct {
	SkuID    uuid.UUID
	Quantity decimal.Decimal
	// IncludeOptional names optional BOM components the caller explicitly
	// selected.
	IncludeOptional []uuid.UUID
}

// ReserveInput captures everything needed to place a reservation.
type ReserveInput struct {
	OrderID  uuid.UUID
	StoreID  uuid.UUID
	Operator string
	Items    []RequestedItem
}

// OrderRef identifies an existing reservation for deduction or release.
type OrderRef struct {
	OrderID  uuid.UUID
	StoreID  uuid.UUID
	Operator string
}

// AdjustInput is a manual stock movement (intake, correction, waste).
type AdjustInput struct {
	StoreID  uuid.UUID
	SkuID    uuid.UUID
	Quantity decimal.Decimal
	Operator string
	Reason   string
}

// ReservedLine is one raw-material hold within a reservation.
type ReservedLine struct {
	SkuID    uuid.UUID       `json:"sku_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// BalanceLine reports one row's movement with before/after balances.
type BalanceLine struct {
	SkuID          uuid.UUID       `json:"sku_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	OnHandBefore   decimal.Decimal `json:"on_hand_before"`
	OnHandAfter    decimal.Decimal `json:"on_hand_after"`
	ReservedBefore decimal.Decimal `json:"reserved_before"`
	ReservedAfter  decimal.Decimal `json:"reserved_after"`
}

// ReservationResult is returned from a successful reserve call.
type ReservationResult struct {
	ReservationID uuid.UUID      `json:"reservation_id"`
	OrderID       uuid.UUID      `json:"order_id"`
	StoreID       uuid.UUID      `json:"store_id"`
	Lines         []ReservedLine `json:"lines"`
}

// DeductionResult is returned from a successful deduct call.
type DeductionResult struct {
	ReservationID uuid.UUID     `json:"reservation_id"`
	OrderID       uuid.UUID     `json:"order_id"`
	Lines         []BalanceLine `json:"lines"`
}

// ReleaseResult is returned from a release call. Released is false when the
// call was an idempotent no-op (unknown order or already-terminal
// reservation).
type ReleaseResult struct {
	OrderID  uuid.UUID     `json:"order_id"`
	Released bool          `json:"released"`
	Lines    []BalanceLine `json:"lines"`
}

// AdjustmentResult reports the row state after a manual stock movement.
type AdjustmentResult struct {
	SkuID    uuid.UUID       `json:"sku_id"`
	StoreID  uuid.UUID       `json:"store_id"`
	Quantity decimal.Decimal `json:"quantity"`
	OnHand   decimal.Decimal `json:"on_hand"`
	Reserved decimal.Decimal `json:"reserved"`
}
