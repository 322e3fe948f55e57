package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/barstockapp/barstock-backend/pkg/db"
	"github.com/barstockapp/barstock-backend/pkg/db/models"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
)

// Repository owns the per-(SKU, store) inventory rows. Rows may only be
// mutated through a transaction that first acquired them via LockForUpdate,
// which is the engine's sole concurrency-control primitive.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// LockForUpdate acquires exclusive row locks on every existing record for
	// the given SKUs in one store, always in ascending SKU id order so that
	// overlapping operations cannot deadlock. Missing rows are simply absent
	// from the result.
	LockForUpdate(ctx context.Context, storeID uuid.UUID, skuIDs []uuid.UUID) ([]models.InventoryRecord, error)
	Create(ctx context.Context, record *models.InventoryRecord) error
	SaveBalances(ctx context.Context, record *models.InventoryRecord) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) LockForUpdate(ctx context.Context, storeID uuid.UUID, skuIDs []uuid.UUID) ([]models.InventoryRecord, error) {
	if len(skuIDs) == 0 {
		return nil, nil
	}

	ordered := make([]uuid.UUID, len(skuIDs))
	copy(ordered, skuIDs)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].String() < ordered[j].String()
	})

	query := r.db.WithContext(ctx).
		Where("store_id = ? AND sku_id IN ?", storeID, ordered).
		Order("sku_id ASC")

	// SQLite has no FOR UPDATE; its single-writer transactions already
	// serialize the critical section.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var records []models.InventoryRecord
	if err := query.Find(&records).Error; err != nil {
		if db.IsLockTimeout(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeLockTimeout, err, "inventory row lock wait timed out")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "locking inventory rows")
	}
	return records, nil
}

func (r *repository) Create(ctx context.Context, record *models.InventoryRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating inventory record")
	}
	return nil
}

func (r *repository) SaveBalances(ctx context.Context, record *models.InventoryRecord) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("sku_id = ? AND store_id = ?", record.SkuID, record.StoreID).
		Updates(map[string]any{
			"on_hand":  record.OnHand,
			"reserved": record.Reserved,
		})
	if result.Error != nil {
		if db.IsLockTimeout(result.Error) {
			return pkgerrors.Wrap(pkgerrors.CodeLockTimeout, result.Error, "inventory row lock wait timed out")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating inventory balances")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInternal, "inventory record vanished mid-transaction").
			WithDetails(map[string]any{"sku_id": record.SkuID, "store_id": record.StoreID})
	}
	return nil
}
