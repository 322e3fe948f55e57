package reservations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barstockapp/barstock-backend/pkg/db"
	"github.com/barstockapp/barstock-backend/pkg/db/models"
	"github.com/barstockapp/barstock-backend/pkg/enums"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
)

// activeReservationIndex is the partial unique index guaranteeing at most one
// ACTIVE reservation per order id.
const activeReservationIndex = "uniq_reservations_active_order"

// Repository persists reservations and their snapshot line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// FindActiveByOrder returns the ACTIVE reservation for the order, line
	// items preloaded, or nil when none exists.
	FindActiveByOrder(ctx context.Context, orderID uuid.UUID) (*models.Reservation, error)
	// FindLatestByOrder returns the most recent reservation for the order in
	// any state, or nil when the order was never reserved.
	FindLatestByOrder(ctx context.Context, orderID, storeID uuid.UUID) (*models.Reservation, error)
	Create(ctx context.Context, reservation *models.Reservation) error
	// Transition moves the reservation out of ACTIVE; the update is guarded
	// on the current status so a concurrent deduct/release loses cleanly.
	Transition(ctx context.Context, reservationID uuid.UUID, to enums.ReservationStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reservation repository bound to the provided
// database.
func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByOrder(ctx context.Context, orderID uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("order_id = ? AND status = ?", orderID, enums.ReservationStatusActive).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading active reservation")
	}
	return &reservation, nil
}

func (r *repository) FindLatestByOrder(ctx context.Context, orderID, storeID uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("order_id = ? AND store_id = ?", orderID, storeID).
		Order("created_at DESC").
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading reservation")
	}
	return &reservation, nil
}

func (r *repository) Create(ctx context.Context, reservation *models.Reservation) error {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		if db.IsUniqueViolation(err, activeReservationIndex) {
			return pkgerrors.Wrap(pkgerrors.CodeDuplicateReservation, err, "an active reservation already exists for this order").
				WithDetails(map[string]any{"order_id": reservation.OrderID})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating reservation")
	}
	return nil
}

func (r *repository) Transition(ctx context.Context, reservationID uuid.UUID, to enums.ReservationStatus) error {
	if !to.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeInternal, "reservations can only transition to a terminal state").
			WithDetails(map[string]any{"to": to})
	}
	result := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", reservationID, enums.ReservationStatusActive).
		Update("status", to)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "transitioning reservation")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeAlreadyTerminal, "reservation already reached a terminal state").
			WithDetails(map[string]any{"reservation_id": reservationID})
	}
	return nil
}
