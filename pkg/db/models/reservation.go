package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barstockapp/barstock-backend/pkg/enums"
)

// Reservation is the two-phase hold on expanded raw materials for one order.
// At most one ACTIVE reservation may exist per order id (enforced by a
// partial unique index in Postgres alongside the in-transaction pre-check).
type Reservation struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID               `gorm:"column:order_id;type:uuid;not null;index"`
	StoreID   uuid.UUID               `gorm:"column:store_id;type:uuid;not null"`
	Status    enums.ReservationStatus `gorm:"column:status;type:reservation_status_enum;not null"`
	Operator  string                  `gorm:"column:operator;not null"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	LineItems []ReservationLineItem `gorm:"foreignKey:ReservationID"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
