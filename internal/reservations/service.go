package reservations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barstockapp/barstock-backend/internal/bom"
	"github.com/barstockapp/barstock-backend/internal/inventory"
	"github.com/barstockapp/barstock-backend/internal/txlog"
	"github.com/barstockapp/barstock-backend/pkg/db/models"
	"github.com/barstockapp/barstock-backend/pkg/enums"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
	"github.com/barstockapp/barstock-backend/pkg/metrics"
)

const defaultOperator = "system"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type expander interface {
	Expand(ctx context.Context, skuID uuid.UUID, quantity decimal.Decimal, opts bom.ExpandOptions) ([]bom.ExpandedLine, error)
}

type skuLoader interface {
	FindSku(ctx context.Context, id uuid.UUID) (*models.Sku, error)
}

// Service is the two-phase inventory engine: reserve places a hold against
// available stock, deduct converts the hold into real consumption, release
// hands it back. Every mutating call is one atomic transaction over
// deterministically ordered row locks; a failure anywhere leaves no partial
// state.
type Service interface {
	Reserve(ctx context.Context, input ReserveInput) (*ReservationResult, error)
	Deduct(ctx context.Context, ref OrderRef) (*DeductionResult, error)
	Release(ctx context.Context, ref OrderRef) (*ReleaseResult, error)
	Adjust(ctx context.Context, input AdjustInput) (*AdjustmentResult, error)
}

type service struct {
	tx      txRunner
	bom     expander
	skus    skuLoader
	invRepo inventory.Repository
	resRepo Repository
	logRepo txlog.Repository
	metrics *metrics.EngineMetrics
}

// NewService builds the reservation engine service. Metrics may be nil.
func NewService(
	tx txRunner,
	bomSvc expander,
	skus skuLoader,
	invRepo inventory.Repository,
	resRepo Repository,
	logRepo txlog.Repository,
	engineMetrics *metrics.EngineMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if bomSvc == nil {
		return nil, fmt.Errorf("bom expansion service required")
	}
	if skus == nil {
		return nil, fmt.Errorf("sku loader required")
	}
	if invRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if resRepo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if logRepo == nil {
		return nil, fmt.Errorf("transaction log repository required")
	}
	return &service{
		tx:      tx,
		bom:     bomSvc,
		skus:    skus,
		invRepo: invRepo,
		resRepo: resRepo,
		logRepo: logRepo,
		metrics: engineMetrics,
	}, nil
}

func (s *service) Reserve(ctx context.Context, input ReserveInput) (result *ReservationResult, err error) {
	defer s.observe("reserve", time.Now(), &err)

	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}
	for _, item := range input.Items {
		if item.SkuID == uuid.Nil || item.Quantity.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "every item needs a sku and a positive quantity").
				WithDetails(map[string]any{"sku_id": item.SkuID})
		}
	}
	operator := operatorOrDefault(input.Operator)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		resRepo := s.resRepo.WithTx(tx)
		invRepo := s.invRepo.WithTx(tx)
		logRepo := s.logRepo.WithTx(tx)

		existing, err := resRepo.FindActiveByOrder(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodeDuplicateReservation, "an active reservation already exists for this order").
				WithDetails(map[string]any{"order_id": input.OrderID, "reservation_id": existing.ID})
		}

		lines, err := s.expandAll(ctx, input.Items)
		if err != nil {
			return err
		}

		records, err := s.lockLines(ctx, invRepo, input.StoreID, lines)
		if err != nil {
			return err
		}

		var shortages []map[string]any
		for _, line := range lines {
			record, ok := records[line.SkuID]
			available := decimal.Zero
			if ok {
				available = record.Available()
				if available.Sign() < 0 {
					return pkgerrors.New(pkgerrors.CodeInternal, "negative available balance, inventory corrupt").
						WithDetails(map[string]any{"sku_id": line.SkuID, "store_id": input.StoreID})
				}
			}
			if available.Cmp(line.Quantity) < 0 {
				shortages = append(shortages, map[string]any{
					"sku_id":    line.SkuID,
					"requested": line.Quantity,
					"available": available,
				})
			}
		}
		if len(shortages) > 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficientInventory, "insufficient inventory for one or more components").
				WithDetails(map[string]any{"skus": shortages})
		}

		reservation := &models.Reservation{
			OrderID:   input.OrderID,
			StoreID:   input.StoreID,
			Status:    enums.ReservationStatusActive,
			Operator:  operator,
			LineItems: bom.SnapshotFromLines(uuid.Nil, lines),
		}
		if err := resRepo.Create(ctx, reservation); err != nil {
			return err
		}

		entries := make([]models.StockTransaction, 0, len(lines))
		for _, line := range lines {
			record := records[line.SkuID]
			before := *record
			record.Reserved = record.Reserved.Add(line.Quantity)
			if err := invRepo.SaveBalances(ctx, record); err != nil {
				return err
			}
			entries = append(entries, newLogEntry(
				enums.StockTransactionReserve, *record, before, line.Quantity, &input.OrderID, operator, "",
			))
		}
		if err := logRepo.Append(ctx, entries); err != nil {
			return err
		}

		reserved := make([]ReservedLine, 0, len(lines))
		for _, line := range lines {
			reserved = append(reserved, ReservedLine{SkuID: line.SkuID, Quantity: line.Quantity, Unit: line.Unit})
		}
		result = &ReservationResult{
			ReservationID: reservation.ID,
			OrderID:       input.OrderID,
			StoreID:       input.StoreID,
			Lines:         reserved,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Deduct(ctx context.Context, ref OrderRef) (result *DeductionResult, err error) {
	defer s.observe("deduct", time.Now(), &err)

	if err := validateRef(ref); err != nil {
		return nil, err
	}
	operator := operatorOrDefault(ref.Operator)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		resRepo := s.resRepo.WithTx(tx)
		invRepo := s.invRepo.WithTx(tx)
		logRepo := s.logRepo.WithTx(tx)

		reservation, err := resRepo.FindLatestByOrder(ctx, ref.OrderID, ref.StoreID)
		if err != nil {
			return err
		}
		if reservation == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no reservation for this order").
				WithDetails(map[string]any{"order_id": ref.OrderID})
		}
		if reservation.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeAlreadyTerminal, "reservation already reached a terminal state").
				WithDetails(map[string]any{"order_id": ref.OrderID, "status": reservation.Status})
		}

		records, err := s.lockSnapshot(ctx, invRepo, ref.StoreID, reservation.LineItems)
		if err != nil {
			return err
		}

		entries := make([]models.StockTransaction, 0, len(reservation.LineItems))
		balances := make([]BalanceLine, 0, len(reservation.LineItems))
		for _, item := range sortedSnapshot(reservation.LineItems) {
			record, ok := records[item.SkuID]
			if !ok || record.OnHand.Cmp(item.Quantity) < 0 || record.Reserved.Cmp(item.Quantity) < 0 {
				return pkgerrors.New(pkgerrors.CodeInternal, "reserved snapshot exceeds inventory balances, inventory corrupt").
					WithDetails(map[string]any{"sku_id": item.SkuID, "store_id": ref.StoreID})
			}
			before := *record
			record.OnHand = record.OnHand.Sub(item.Quantity)
			record.Reserved = record.Reserved.Sub(item.Quantity)
			if err := invRepo.SaveBalances(ctx, record); err != nil {
				return err
			}
			entries = append(entries, newLogEntry(
				enums.StockTransactionDeduct, *record, before, item.Quantity, &ref.OrderID, operator, "",
			))
			balances = append(balances, balanceLine(item, before, *record))
		}
		if err := logRepo.Append(ctx, entries); err != nil {
			return err
		}
		if err := resRepo.Transition(ctx, reservation.ID, enums.ReservationStatusDeducted); err != nil {
			return err
		}

		result = &DeductionResult{
			ReservationID: reservation.ID,
			OrderID:       ref.OrderID,
			Lines:         balances,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Release(ctx context.Context, ref OrderRef) (result *ReleaseResult, err error) {
	defer s.observe("release", time.Now(), &err)

	if err := validateRef(ref); err != nil {
		return nil, err
	}
	operator := operatorOrDefault(ref.Operator)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		resRepo := s.resRepo.WithTx(tx)
		invRepo := s.invRepo.WithTx(tx)
		logRepo := s.logRepo.WithTx(tx)

		reservation, err := resRepo.FindLatestByOrder(ctx, ref.OrderID, ref.StoreID)
		if err != nil {
			return err
		}
		// Duplicate cancellation signals are expected; releasing an unknown
		// or already-terminal reservation is a no-op success.
		if reservation == nil || reservation.Status.IsTerminal() {
			result = &ReleaseResult{OrderID: ref.OrderID, Released: false}
			return nil
		}

		records, err := s.lockSnapshot(ctx, invRepo, ref.StoreID, reservation.LineItems)
		if err != nil {
			return err
		}

		entries := make([]models.StockTransaction, 0, len(reservation.LineItems))
		balances := make([]BalanceLine, 0, len(reservation.LineItems))
		for _, item := range sortedSnapshot(reservation.LineItems) {
			record, ok := records[item.SkuID]
			if !ok || record.Reserved.Cmp(item.Quantity) < 0 {
				return pkgerrors.New(pkgerrors.CodeInternal, "reserved snapshot exceeds inventory balances, inventory corrupt").
					WithDetails(map[string]any{"sku_id": item.SkuID, "store_id": ref.StoreID})
			}
			before := *record
			record.Reserved = record.Reserved.Sub(item.Quantity)
			if err := invRepo.SaveBalances(ctx, record); err != nil {
				return err
			}
			entries = append(entries, newLogEntry(
				enums.StockTransactionRelease, *record, before, item.Quantity, &ref.OrderID, operator, "",
			))
			balances = append(balances, balanceLine(item, before, *record))
		}
		if err := logRepo.Append(ctx, entries); err != nil {
			return err
		}
		if err := resRepo.Transition(ctx, reservation.ID, enums.ReservationStatusReleased); err != nil {
			return err
		}

		result = &ReleaseResult{OrderID: ref.OrderID, Released: true, Lines: balances}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Adjust(ctx context.Context, input AdjustInput) (result *AdjustmentResult, err error) {
	defer s.observe("adjust", time.Now(), &err)

	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if input.SkuID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku id required")
	}
	if input.Quantity.Sign() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment quantity must be non-zero")
	}
	operator := operatorOrDefault(input.Operator)

	sku, err := s.skus.FindSku(ctx, input.SkuID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading sku")
	}
	if sku == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sku").
			WithDetails(map[string]any{"sku_id": input.SkuID})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := s.invRepo.WithTx(tx)
		logRepo := s.logRepo.WithTx(tx)

		records, err := invRepo.LockForUpdate(ctx, input.StoreID, []uuid.UUID{input.SkuID})
		if err != nil {
			return err
		}

		var record *models.InventoryRecord
		created := false
		if len(records) > 0 {
			record = &records[0]
		} else {
			// First stock movement for this (sku, store) pair creates the
			// row; it is never deleted afterwards.
			record = &models.InventoryRecord{
				SkuID:    input.SkuID,
				StoreID:  input.StoreID,
				OnHand:   decimal.Zero,
				Reserved: decimal.Zero,
			}
			created = true
		}

		before := *record
		record.OnHand = record.OnHand.Add(input.Quantity)
		if record.OnHand.Sign() < 0 || record.Available().Sign() < 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficientInventory, "adjustment would drive balances negative").
				WithDetails(map[string]any{
					"sku_id":    input.SkuID,
					"on_hand":   before.OnHand,
					"reserved":  before.Reserved,
					"requested": input.Quantity,
				})
		}

		if created {
			if err := invRepo.Create(ctx, record); err != nil {
				return err
			}
		} else if err := invRepo.SaveBalances(ctx, record); err != nil {
			return err
		}

		entry := newLogEntry(enums.StockTransactionAdjust, *record, before, input.Quantity, nil, operator, input.Reason)
		if err := logRepo.Append(ctx, []models.StockTransaction{entry}); err != nil {
			return err
		}

		result = &AdjustmentResult{
			SkuID:    input.SkuID,
			StoreID:  input.StoreID,
			Quantity: input.Quantity,
			OnHand:   record.OnHand,
			Reserved: record.Reserved,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// expandAll explodes every requested item and merges duplicate raw SKUs
// across items, exactly like duplicates are merged within one expansion.
func (s *service) expandAll(ctx context.Context, items []RequestedItem) ([]bom.ExpandedLine, error) {
	merged := map[uuid.UUID]*bom.ExpandedLine{}
	for _, item := range items {
		opts := bom.ExpandOptions{}
		if len(item.IncludeOptional) > 0 {
			opts.IncludeOptional = make(map[uuid.UUID]bool, len(item.IncludeOptional))
			for _, id := range item.IncludeOptional {
				opts.IncludeOptional[id] = true
			}
		}
		lines, err := s.bom.Expand(ctx, item.SkuID, item.Quantity, opts)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if existing, ok := merged[line.SkuID]; ok {
				existing.Quantity = existing.Quantity.Add(line.Quantity)
				continue
			}
			copied := line
			merged[line.SkuID] = &copied
		}
	}

	lines := make([]bom.ExpandedLine, 0, len(merged))
	for _, line := range merged {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].SkuID.String() < lines[j].SkuID.String()
	})
	return lines, nil
}

func (s *service) lockLines(ctx context.Context, invRepo inventory.Repository, storeID uuid.UUID, lines []bom.ExpandedLine) (map[uuid.UUID]*models.InventoryRecord, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.SkuID)
	}
	return lockRecords(ctx, invRepo, storeID, ids)
}

func (s *service) lockSnapshot(ctx context.Context, invRepo inventory.Repository, storeID uuid.UUID, items []models.ReservationLineItem) (map[uuid.UUID]*models.InventoryRecord, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.SkuID)
	}
	return lockRecords(ctx, invRepo, storeID, ids)
}

func lockRecords(ctx context.Context, invRepo inventory.Repository, storeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.InventoryRecord, error) {
	records, err := invRepo.LockForUpdate(ctx, storeID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.InventoryRecord, len(records))
	for i := range records {
		byID[records[i].SkuID] = &records[i]
	}
	return byID, nil
}

func sortedSnapshot(items []models.ReservationLineItem) []models.ReservationLineItem {
	sorted := make([]models.ReservationLineItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SkuID.String() < sorted[j].SkuID.String()
	})
	return sorted
}

func newLogEntry(
	txType enums.StockTransactionType,
	after, before models.InventoryRecord,
	quantity decimal.Decimal,
	orderID *uuid.UUID,
	operator, reason string,
) models.StockTransaction {
	return models.StockTransaction{
		SkuID:          after.SkuID,
		StoreID:        after.StoreID,
		OrderID:        orderID,
		Type:           txType,
		Quantity:       quantity,
		OnHandBefore:   before.OnHand,
		OnHandAfter:    after.OnHand,
		ReservedBefore: before.Reserved,
		ReservedAfter:  after.Reserved,
		Operator:       operator,
		Reason:         reason,
	}
}

func balanceLine(item models.ReservationLineItem, before, after models.InventoryRecord) BalanceLine {
	return BalanceLine{
		SkuID:          item.SkuID,
		Quantity:       item.Quantity,
		Unit:           item.Unit,
		OnHandBefore:   before.OnHand,
		OnHandAfter:    after.OnHand,
		ReservedBefore: before.Reserved,
		ReservedAfter:  after.Reserved,
	}
}

func validateRef(ref OrderRef) error {
	if ref.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if ref.StoreID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	return nil
}

func operatorOrDefault(operator string) string {
	if operator == "" {
		return defaultOperator
	}
	return operator
}

func (s *service) observe(operation string, start time.Time, err *error) {
	s.metrics.ObserveDuration(operation, time.Since(start))
	outcome := "ok"
	if err != nil && *err != nil {
		outcome = "error"
		if typed := pkgerrors.As(*err); typed != nil {
			outcome = string(typed.Code())
		}
	}
	s.metrics.IncOutcome(operation, outcome)
}
