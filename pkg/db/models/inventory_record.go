package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryRecord tracks on-hand and reserved quantities per (SKU, store).
// Rows are created lazily by the first stock movement and never deleted;
// zero balances persist for audit continuity.
type InventoryRecord struct {
	SkuID     uuid.UUID       `gorm:"column:sku_id;type:uuid;primaryKey"`
	StoreID   uuid.UUID       `gorm:"column:store_id;type:uuid;primaryKey"`
	OnHand    decimal.Decimal `gorm:"column:on_hand;type:decimal(15,4);not null"`
	Reserved  decimal.Decimal `gorm:"column:reserved;type:decimal(15,4);not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Available is the quantity a new reservation may draw against.
func (r InventoryRecord) Available() decimal.Decimal {
	return r.OnHand.Sub(r.Reserved)
}
