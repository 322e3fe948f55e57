package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BomComponent is one edge of the BOM adjacency list: parent composite SKU →
// component SKU with a per-unit quantity. ComponentSkuID must differ from
// ParentSkuID; deeper cycles are cut by the expansion depth bound rather than
// explicit cycle detection.
type BomComponent struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ParentSkuID     uuid.UUID       `gorm:"column:parent_sku_id;type:uuid;not null;index"`
	ComponentSkuID  uuid.UUID       `gorm:"column:component_sku_id;type:uuid;not null"`
	QuantityPerUnit decimal.Decimal `gorm:"column:quantity_per_unit;type:decimal(15,4);not null"`
	Unit            string          `gorm:"column:unit;not null"`
	IsOptional      bool            `gorm:"column:is_optional;not null;default:false"`
	SortOrder       int             `gorm:"column:sort_order;not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (c *BomComponent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
