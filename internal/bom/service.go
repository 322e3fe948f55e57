package bom

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barstockapp/barstock-backend/pkg/db/models"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
)

// MaxDepth bounds how many composite levels an expansion may descend through.
// A composite SKU encountered at this depth fails the whole expansion; the
// caller never receives a partially expanded, under-counted result. The bound
// doubles as cycle protection for the adjacency graph.
const MaxDepth = 3

// ExpandedLine is one raw-material line of an expansion, duplicates already
// merged.
type ExpandedLine struct {
	SkuID    uuid.UUID
	Quantity decimal.Decimal
	Unit     string
}

// ExpandOptions selects optional BOM components. Non-optional components are
// always expanded; optional ones only when their SKU id is listed here.
type ExpandOptions struct {
	IncludeOptional map[uuid.UUID]bool
}

// Service explodes composite SKUs into raw-material line items.
type Service interface {
	Expand(ctx context.Context, skuID uuid.UUID, quantity decimal.Decimal, opts ExpandOptions) ([]ExpandedLine, error)
}

type service struct {
	repo Repository
}

// NewService wires the expansion service with the provided catalog repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bom repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Expand(ctx context.Context, skuID uuid.UUID, quantity decimal.Decimal, opts ExpandOptions) ([]ExpandedLine, error) {
	if skuID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku id required")
	}
	if quantity.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"sku_id": skuID})
	}

	acc := map[uuid.UUID]*ExpandedLine{}
	if err := s.expand(ctx, skuID, quantity, 0, opts, acc); err != nil {
		return nil, err
	}

	lines := make([]ExpandedLine, 0, len(acc))
	for _, line := range acc {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].SkuID.String() < lines[j].SkuID.String()
	})
	return lines, nil
}

func (s *service) expand(ctx context.Context, skuID uuid.UUID, quantity decimal.Decimal, depth int, opts ExpandOptions, acc map[uuid.UUID]*ExpandedLine) error {
	sku, err := s.repo.FindSku(ctx, skuID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading sku")
	}
	if sku == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown sku").
			WithDetails(map[string]any{"sku_id": skuID})
	}

	if !sku.Kind.HasBom() {
		merge(acc, skuID, quantity, sku.StockUnit)
		return nil
	}

	if depth >= MaxDepth {
		return pkgerrors.New(pkgerrors.CodeBomDepthExceeded, "bom nesting exceeds the maximum depth").
			WithDetails(map[string]any{"sku_id": skuID, "max_depth": MaxDepth})
	}

	components, err := s.repo.ListComponents(ctx, skuID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading bom components")
	}
	if len(components) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "composite sku has no bom components").
			WithDetails(map[string]any{"sku_id": skuID})
	}

	for _, component := range components {
		if component.IsOptional && !opts.IncludeOptional[component.ComponentSkuID] {
			continue
		}
		childQty := quantity.Mul(component.QuantityPerUnit)
		if err := s.expand(ctx, component.ComponentSkuID, childQty, depth+1, opts, acc); err != nil {
			return err
		}
	}
	return nil
}

// merge combines duplicate raw SKUs reachable through different composite
// paths into one line with the summed total.
func merge(acc map[uuid.UUID]*ExpandedLine, skuID uuid.UUID, quantity decimal.Decimal, unit string) {
	if existing, ok := acc[skuID]; ok {
		existing.Quantity = existing.Quantity.Add(quantity)
		return
	}
	acc[skuID] = &ExpandedLine{SkuID: skuID, Quantity: quantity, Unit: unit}
}

// SnapshotFromLines converts expanded lines into reservation line items.
func SnapshotFromLines(reservationID uuid.UUID, lines []ExpandedLine) []models.ReservationLineItem {
	items := make([]models.ReservationLineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.ReservationLineItem{
			ReservationID: reservationID,
			SkuID:         line.SkuID,
			Quantity:      line.Quantity,
			Unit:          line.Unit,
		})
	}
	return items
}
