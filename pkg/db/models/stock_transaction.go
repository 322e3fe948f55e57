package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barstockapp/barstock-backend/pkg/enums"
)

// StockTransaction is one append-only audit row per affected SKU per
// operation. Both counter pairs are recorded so reconciliation can audit
// on-hand, reserved, or derived available movement. Never mutated after
// creation.
type StockTransaction struct {
	ID             uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	SkuID          uuid.UUID                  `gorm:"column:sku_id;type:uuid;not null;index"`
	StoreID        uuid.UUID                  `gorm:"column:store_id;type:uuid;not null;index"`
	OrderID        *uuid.UUID                 `gorm:"column:order_id;type:uuid"`
	Type           enums.StockTransactionType `gorm:"column:type;type:stock_transaction_type_enum;not null"`
	Quantity       decimal.Decimal            `gorm:"column:quantity;type:decimal(15,4);not null"`
	OnHandBefore   decimal.Decimal            `gorm:"column:on_hand_before;type:decimal(15,4);not null"`
	OnHandAfter    decimal.Decimal            `gorm:"column:on_hand_after;type:decimal(15,4);not null"`
	ReservedBefore decimal.Decimal            `gorm:"column:reserved_before;type:decimal(15,4);not null"`
	ReservedAfter  decimal.Decimal            `gorm:"column:reserved_after;type:decimal(15,4);not null"`
	Operator       string                     `gorm:"column:operator;not null"`
	Reason         string                     `gorm:"column:reason"`
	CreatedAt      time.Time                  `gorm:"column:created_at;autoCreateTime;index"`
}

func (t *StockTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
