package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReservationLineItem is one raw-material line of a reservation's BOM
// snapshot. The full set per reservation is what deduction and release
// consume, regardless of later catalog edits.
type ReservationLineItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ReservationID uuid.UUID       `gorm:"column:reservation_id;type:uuid;not null;index"`
	SkuID         uuid.UUID       `gorm:"column:sku_id;type:uuid;not null"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:decimal(15,4);not null"`
	Unit          string          `gorm:"column:unit;not null"`
}

func (i *ReservationLineItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
