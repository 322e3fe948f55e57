package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/barstockapp/barstock-backend/pkg/enums"
)

// Sku is a stock-keeping unit. Identity is immutable; BOM contents for
// composite kinds live in bom_components and are snapshotted at reservation
// time, so later catalog edits never rewrite history.
type Sku struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Name      string        `gorm:"column:name;not null"`
	Kind      enums.SkuKind `gorm:"column:kind;type:sku_kind_enum;not null"`
	StockUnit string        `gorm:"column:stock_unit;not null"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
