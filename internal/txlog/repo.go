package txlog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barstockapp/barstock-backend/pkg/db/models"
	"github.com/barstockapp/barstock-backend/pkg/enums"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
	"github.com/barstockapp/barstock-backend/pkg/pagination"
)

// Filter narrows the transaction listing. StoreID is mandatory; the rest are
// optional.
type Filter struct {
	StoreID uuid.UUID
	SkuID   *uuid.UUID
	Type    *enums.StockTransactionType
	Limit   int
	Cursor  string
}

// Repository manages the append-only stock transaction log. Entries are
// written once inside the mutating transaction and never touched again.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, entries []models.StockTransaction) error
	List(ctx context.Context, filter Filter) ([]models.StockTransaction, string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a transaction log repository bound to the provided
// database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Append(ctx context.Context, entries []models.StockTransaction) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "appending stock transactions")
	}
	return nil
}

// List returns newest-first entries plus a cursor for the next page when more
// rows remain.
func (r *repository) List(ctx context.Context, filter Filter) ([]models.StockTransaction, string, error) {
	if filter.StoreID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	query := r.db.WithContext(ctx).
		Where("store_id = ?", filter.StoreID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if filter.SkuID != nil {
		query = query.Where("sku_id = ?", *filter.SkuID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var entries []models.StockTransaction
	if err := query.Find(&entries).Error; err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing stock transactions")
	}

	nextCursor := ""
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return entries, nextCursor, nil
}
