package bom

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barstockapp/barstock-backend/pkg/db/models"
)

// Repository reads the BOM catalog. Catalog writes belong to the admin
// surface, not the engine; the engine only ever resolves SKUs and adjacency
// rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindSku(ctx context.Context, id uuid.UUID) (*models.Sku, error)
	ListComponents(ctx context.Context, parentSkuID uuid.UUID) ([]models.BomComponent, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindSku returns nil without error when the SKU does not exist.
func (r *repository) FindSku(ctx context.Context, id uuid.UUID) (*models.Sku, error) {
	var sku models.Sku
	err := r.db.WithContext(ctx).First(&sku, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sku, nil
}

func (r *repository) ListComponents(ctx context.Context, parentSkuID uuid.UUID) ([]models.BomComponent, error) {
	var components []models.BomComponent
	if err := r.db.WithContext(ctx).
		Where("parent_sku_id = ?", parentSkuID).
		Order("sort_order ASC").
		Find(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}
