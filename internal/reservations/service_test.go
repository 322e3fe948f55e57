package reservations

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/barstockapp/barstock-backend/internal/bom"
	"github.com/barstockapp/barstock-backend/internal/inventory"
	"github.com/barstockapp/barstock-backend/internal/txlog"
	"github.com/barstockapp/barstock-backend/pkg/db/models"
	"github.com/barstockapp/barstock-backend/pkg/enums"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
)

type testEnv struct {
	db      *gorm.DB
	svc     Service
	storeID uuid.UUID
}

func TestReserveHoldsExpandedComponents(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")
	cola := seedSku(t, env.db, "cola", enums.SkuKindRawMaterial, "ml")
	highball := seedSku(t, env.db, "whiskey highball", enums.SkuKindFinishedProduct, "unit")
	seedComponent(t, env.db, highball, whiskey, "45")
	seedComponent(t, env.db, highball, cola, "150")
	seedInventory(t, env.db, env.storeID, whiskey, "1000", "0")
	seedInventory(t, env.db, env.storeID, cola, "1000", "0")

	orderID := uuid.New()
	result, err := env.svc.Reserve(ctx, ReserveInput{
		OrderID:  orderID,
		StoreID:  env.storeID,
		Operator: "bartender-1",
		Items:    []RequestedItem{{SkuID: highball, Quantity: decimal.NewFromInt(2)}},
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if result.OrderID != orderID || result.ReservationID == uuid.Nil {
		t.Fatalf("unexpected result identity: %+v", result)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 reserved lines, got %d", len(result.Lines))
	}
	assertQuantity(t, reservedQty(result.Lines, whiskey), "90")
	assertQuantity(t, reservedQty(result.Lines, cola), "300")

	// Holds move reserved only; on-hand is untouched until deduction.
	assertBalances(t, env.db, env.storeID, whiskey, "1000", "90")
	assertBalances(t, env.db, env.storeID, cola, "1000", "300")

	var reservation models.Reservation
	if err := env.db.Preload("LineItems").First(&reservation, "order_id = ?", orderID).Error; err != nil {
		t.Fatalf("load reservation: %v", err)
	}
	if reservation.Status != enums.ReservationStatusActive {
		t.Fatalf("expected ACTIVE, got %s", reservation.Status)
	}
	if len(reservation.LineItems) != 2 {
		t.Fatalf("expected 2 snapshot items, got %d", len(reservation.LineItems))
	}

	entries := loadTransactions(t, env.db, env.storeID, enums.StockTransactionReserve)
	if len(entries) != 2 {
		t.Fatalf("expected 2 RESERVE entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.OrderID == nil || *entry.OrderID != orderID {
			t.Fatalf("entry missing order id: %+v", entry)
		}
		if !entry.OnHandBefore.Equal(entry.OnHandAfter) {
			t.Fatalf("reserve must not move on-hand: %+v", entry)
		}
		if !entry.ReservedAfter.Sub(entry.ReservedBefore).Equal(entry.Quantity) {
			t.Fatalf("reserved delta mismatch: %+v", entry)
		}
		if entry.Operator != "bartender-1" {
			t.Fatalf("unexpected operator: %q", entry.Operator)
		}
	}
}

func TestReserveInsufficientInventoryRollsBack(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")
	cola := seedSku(t, env.db, "cola", enums.SkuKindRawMaterial, "ml")
	highball := seedSku(t, env.db, "whiskey highball", enums.SkuKindFinishedProduct, "unit")
	seedComponent(t, env.db, highball, whiskey, "45")
	seedComponent(t, env.db, highball, cola, "150")
	seedInventory(t, env.db, env.storeID, whiskey, "1000", "0")
	seedInventory(t, env.db, env.storeID, cola, "100", "0")

	_, err := env.svc.Reserve(ctx, ReserveInput{
		OrderID: uuid.New(),
		StoreID: env.storeID,
		Items:   []RequestedItem{{SkuID: highball, Quantity: decimal.NewFromInt(2)}},
	})
	if err == nil {
		t.Fatal("expected insufficiency error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientInventory {
		t.Fatalf("unexpected error: %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("expected shortage details")
	}

	// Nothing may survive a failed reservation, not even for the SKU that
	// had enough stock.
	assertBalances(t, env.db, env.storeID, whiskey, "1000", "0")
	assertBalances(t, env.db, env.storeID, cola, "100", "0")
	assertCount(t, env.db, &models.Reservation{}, 0)
	assertCount(t, env.db, &models.StockTransaction{}, 0)
}

func TestReserveMissingInventoryRowIsZeroAvailable(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")

	_, err := env.svc.Reserve(ctx, ReserveInput{
		OrderID: uuid.New(),
		StoreID: env.storeID,
		Items:   []RequestedItem{{SkuID: whiskey, Quantity: decimal.NewFromInt(1)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientInventory {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReserveDuplicateActiveOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")
	seedInventory(t, env.db, env.storeID, whiskey, "1000", "0")

	orderID := uuid.New()
	input := ReserveInput{
		OrderID: orderID,
		StoreID: env.storeID,
		Items:   []RequestedItem{{SkuID: whiskey, Quantity: decimal.NewFromInt(10)}},
	}
	if _, err := env.svc.Reserve(ctx, input); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	_, err := env.svc.Reserve(ctx, input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDuplicateReservation {
		t.Fatalf("unexpected error: %v", err)
	}
	// The failed attempt must not stack a second hold.
	assertBalances(t, env.db, env.storeID, whiskey, "1000", "10")

	// Once the first reservation is terminal the order may reserve again.
	if _, err := env.svc.Release(ctx, OrderRef{OrderID: orderID, StoreID: env.storeID}); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := env.svc.Reserve(ctx, input); err != nil {
		t.Fatalf("re-reserve after release: %v", err)
	}
}

func TestReserveValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ReserveInput
	}{
		{"missing order", ReserveInput{StoreID: env.storeID, Items: []RequestedItem{{SkuID: uuid.New(), Quantity: decimal.NewFromInt(1)}}}},
		{"missing store", ReserveInput{OrderID: uuid.New(), Items: []RequestedItem{{SkuID: uuid.New(), Quantity: decimal.NewFromInt(1)}}}},
		{"no items", ReserveInput{OrderID: uuid.New(), StoreID: env.storeID}},
		{"zero quantity", ReserveInput{OrderID: uuid.New(), StoreID: env.storeID, Items: []RequestedItem{{SkuID: uuid.New(), Quantity: decimal.Zero}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Reserve(ctx, tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDeductConsumesSnapshot(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")
	cola := seedSku(t, env.db, "cola", enums.SkuKindRawMaterial, "ml")
	highball := seedSku(t, env.db, "whiskey highball", enums.SkuKindFinishedProduct, "unit")
	component := seedComponent(t, env.db, highball, whiskey, "45")
	seedComponent(t, env.db, highball, cola, "150")
	seedInventory(t, env.db, env.storeID, whiskey, "1000", "0")
	seedInventory(t, env.db, env.storeID, cola, "1000", "0")

	orderID := uuid.New()
	if _, err := env.svc.Reserve(ctx, ReserveInput{
		OrderID: orderID,
		StoreID: env.storeID,
		Items:   []RequestedItem{{SkuID: highball, Quantity: decimal.NewFromInt(2)}},
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	// A catalog edit after the reservation must not change what gets
	// deducted; the snapshot taken at reserve time wins.
	if err := env.db.Model(&models.BomComponent{}).
		Where("id = ?", component).
		Update("quantity_per_unit", decimal.NewFromInt(500)).Error; err != nil {
		t.Fatalf("edit bom: %v", err)
	}

	result, err := env.svc.Deduct(ctx, OrderRef{OrderID: orderID, StoreID: env.storeID, Operator: "closer"})
	if err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}

	assertBalances(t, env.db, env.storeID, whiskey, "910", "0")
	assertBalances(t, env.db, env.storeID, cola, "700", "0")

	var reservation models.Reservation
	if err := env.db.First(&reservation, "order_id = ?", orderID).Error; err != nil {
		t.Fatalf("load reservation: %v", err)
	}
	if reservation.Status != enums.ReservationStatusDeducted {
		t.Fatalf("expected DEDUCTED, got %s", reservation.Status)
	}

	entries := loadTransactions(t, env.db, env.storeID, enums.StockTransactionDeduct)
	if len(entries) != 2 {
		t.Fatalf("expected 2 DEDUCT entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if !entry.OnHandBefore.Sub(entry.OnHandAfter).Equal(entry.Quantity) {
			t.Fatalf("on-hand delta mismatch: %+v", entry)
		}
		if !entry.ReservedBefore.Sub(entry.ReservedAfter).Equal(entry.Quantity) {
			t.Fatalf("reserved delta mismatch: %+v", entry)
		}
	}

	// Terminal reservations reject further deduction.
	_, err = env.svc.Deduct(ctx, OrderRef{OrderID: orderID, StoreID: env.storeID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeAlreadyTerminal {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeductUnknownOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.svc.Deduct(context.Background(), OrderRef{OrderID: uuid.New(), StoreID: env.storeID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReleaseReturnsHoldAndIsIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")
	seedInventory(t, env.db, env.storeID, whiskey, "500", "0")

	orderID := uuid.New()
	if _, err := env.svc.Reserve(ctx, ReserveInput{
		OrderID: orderID,
		StoreID: env.storeID,
		Items:   []RequestedItem{{SkuID: whiskey, Quantity: decimal.NewFromInt(120)}},
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	result, err := env.svc.Release(ctx, OrderRef{OrderID: orderID, StoreID: env.storeID})
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if !result.Released {
		t.Fatal("expected release to report released=true")
	}
	assertBalances(t, env.db, env.storeID, whiskey, "500", "0")

	entries := loadTransactions(t, env.db, env.storeID, enums.StockTransactionRelease)
	if len(entries) != 1 {
		t.Fatalf("expected 1 RELEASE entry, got %d", len(entries))
	}
	if !entries[0].OnHandBefore.Equal(entries[0].OnHandAfter) {
		t.Fatalf("release must not move on-hand: %+v", entries[0])
	}

	// Second release and releasing a never-reserved order are quiet no-ops.
	again, err := env.svc.Release(ctx, OrderRef{OrderID: orderID, StoreID: env.storeID})
	if err != nil {
		t.Fatalf("second release: %v", err)
	}
	if again.Released {
		t.Fatal("second release must be a no-op")
	}
	unknown, err := env.svc.Release(ctx, OrderRef{OrderID: uuid.New(), StoreID: env.storeID})
	if err != nil {
		t.Fatalf("release unknown order: %v", err)
	}
	if unknown.Released {
		t.Fatal("releasing an unknown order must be a no-op")
	}
	if count := len(loadTransactions(t, env.db, env.storeID, enums.StockTransactionRelease)); count != 1 {
		t.Fatalf("no-op releases must not log, got %d entries", count)
	}
}

func TestReleaseAfterDeductIsNoOp(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")
	seedInventory(t, env.db, env.storeID, whiskey, "500", "0")

	orderID := uuid.New()
	if _, err := env.svc.Reserve(ctx, ReserveInput{
		OrderID: orderID,
		StoreID: env.storeID,
		Items:   []RequestedItem{{SkuID: whiskey, Quantity: decimal.NewFromInt(100)}},
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := env.svc.Deduct(ctx, OrderRef{OrderID: orderID, StoreID: env.storeID}); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	result, err := env.svc.Release(ctx, OrderRef{OrderID: orderID, StoreID: env.storeID})
	if err != nil {
		t.Fatalf("release after deduct: %v", err)
	}
	if result.Released {
		t.Fatal("release after deduct must be a no-op")
	}
	assertBalances(t, env.db, env.storeID, whiskey, "400", "0")
}

func TestAdjustCreatesAndMovesStock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")

	// First intake creates the inventory row.
	result, err := env.svc.Adjust(ctx, AdjustInput{
		StoreID:  env.storeID,
		SkuID:    whiskey,
		Quantity: decimal.NewFromInt(700),
		Operator: "manager",
		Reason:   "delivery",
	})
	if err != nil {
		t.Fatalf("adjust intake: %v", err)
	}
	assertQuantity(t, result.OnHand, "700")
	assertBalances(t, env.db, env.storeID, whiskey, "700", "0")

	// Negative adjustment for breakage.
	if _, err := env.svc.Adjust(ctx, AdjustInput{
		StoreID:  env.storeID,
		SkuID:    whiskey,
		Quantity: decimal.NewFromInt(-50),
		Reason:   "broken bottle",
	}); err != nil {
		t.Fatalf("adjust waste: %v", err)
	}
	assertBalances(t, env.db, env.storeID, whiskey, "650", "0")

	entries := loadTransactions(t, env.db, env.storeID, enums.StockTransactionAdjust)
	if len(entries) != 2 {
		t.Fatalf("expected 2 ADJUST entries, got %d", len(entries))
	}
	reasons := map[string]bool{}
	for _, entry := range entries {
		reasons[entry.Reason] = true
		if entry.OrderID != nil {
			t.Fatalf("adjustments carry no order id: %+v", entry)
		}
	}
	if !reasons["delivery"] || !reasons["broken bottle"] {
		t.Fatalf("missing adjustment reasons: %v", reasons)
	}
}

func TestAdjustGuardsBalances(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")
	seedInventory(t, env.db, env.storeID, whiskey, "100", "80")

	// Driving on-hand below reserved would strand an active hold.
	_, err := env.svc.Adjust(ctx, AdjustInput{
		StoreID:  env.storeID,
		SkuID:    whiskey,
		Quantity: decimal.NewFromInt(-30),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientInventory {
		t.Fatalf("unexpected error: %v", err)
	}
	assertBalances(t, env.db, env.storeID, whiskey, "100", "80")

	_, err = env.svc.Adjust(ctx, AdjustInput{StoreID: env.storeID, SkuID: uuid.New(), Quantity: decimal.NewFromInt(1)})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error for unknown sku: %v", err)
	}

	_, err = env.svc.Adjust(ctx, AdjustInput{StoreID: env.storeID, SkuID: whiskey, Quantity: decimal.Zero})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error for zero quantity: %v", err)
	}
}

func TestConcurrentReservationsSingleWinner(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	whiskey := seedSku(t, env.db, "whiskey", enums.SkuKindRawMaterial, "ml")
	// Enough for exactly one of the two competing orders.
	seedInventory(t, env.db, env.storeID, whiskey, "100", "0")

	reserve := func(orderID uuid.UUID) error {
		input := ReserveInput{
			OrderID: orderID,
			StoreID: env.storeID,
			Items:   []RequestedItem{{SkuID: whiskey, Quantity: decimal.NewFromInt(80)}},
		}
		retryable := func(err error) bool {
			if pkgerrors.IsRetryable(err) {
				return true
			}
			msg := err.Error()
			return strings.Contains(msg, "locked") || strings.Contains(msg, "busy")
		}
		var err error
		// SQLite surfaces writer contention as a busy error instead of
		// blocking on row locks; retry like a client would.
		for attempt := 0; attempt < 50; attempt++ {
			_, err = env.svc.Reserve(ctx, input)
			if err == nil || !retryable(err) {
				return err
			}
			time.Sleep(5 * time.Millisecond)
		}
		return err
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = reserve(uuid.New())
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInsufficientInventory {
				insufficient++
			} else {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}
	if succeeded != 1 || insufficient != 1 {
		t.Fatalf("expected one winner and one shortage, got %d/%d", succeeded, insufficient)
	}
	assertBalances(t, env.db, env.storeID, whiskey, "100", "80")
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:reservations_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Sku{},
		&models.BomComponent{},
		&models.InventoryRecord{},
		&models.Reservation{},
		&models.ReservationLineItem{},
		&models.StockTransaction{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	bomRepo := bom.NewRepository(conn)
	bomSvc, err := bom.NewService(bomRepo)
	if err != nil {
		t.Fatalf("bom service: %v", err)
	}
	svc, err := NewService(
		gormTxRunner{db: conn},
		bomSvc,
		bomRepo,
		inventory.NewRepository(conn),
		NewRepository(conn),
		txlog.NewRepository(conn),
		nil,
	)
	if err != nil {
		t.Fatalf("reservation service: %v", err)
	}
	return &testEnv{db: conn, svc: svc, storeID: uuid.New()}
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func seedSku(t *testing.T, db *gorm.DB, name string, kind enums.SkuKind, unit string) uuid.UUID {
	t.Helper()
	sku := models.Sku{ID: uuid.New(), Name: name, Kind: kind, StockUnit: unit}
	if err := db.Create(&sku).Error; err != nil {
		t.Fatalf("seed sku %s: %v", name, err)
	}
	return sku.ID
}

func seedComponent(t *testing.T, db *gorm.DB, parent, component uuid.UUID, qty string) uuid.UUID {
	t.Helper()
	quantity, err := decimal.NewFromString(qty)
	if err != nil {
		t.Fatalf("parse quantity: %v", err)
	}
	row := models.BomComponent{
		ParentSkuID:     parent,
		ComponentSkuID:  component,
		QuantityPerUnit: quantity,
		Unit:            "ml",
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed component: %v", err)
	}
	return row.ID
}

func seedInventory(t *testing.T, db *gorm.DB, storeID, skuID uuid.UUID, onHand, reserved string) {
	t.Helper()
	oh, err := decimal.NewFromString(onHand)
	if err != nil {
		t.Fatalf("parse on hand: %v", err)
	}
	rs, err := decimal.NewFromString(reserved)
	if err != nil {
		t.Fatalf("parse reserved: %v", err)
	}
	record := models.InventoryRecord{SkuID: skuID, StoreID: storeID, OnHand: oh, Reserved: rs}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
}

func assertBalances(t *testing.T, db *gorm.DB, storeID, skuID uuid.UUID, onHand, reserved string) {
	t.Helper()
	var record models.InventoryRecord
	if err := db.First(&record, "sku_id = ? AND store_id = ?", skuID, storeID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	assertQuantity(t, record.OnHand, onHand)
	assertQuantity(t, record.Reserved, reserved)
}

func assertQuantity(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("parse expected: %v", err)
	}
	if !got.Equal(expected) {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}

func assertCount(t *testing.T, db *gorm.DB, model any, want int64) {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != want {
		t.Fatalf("expected %d rows, got %d", want, count)
	}
}

func reservedQty(lines []ReservedLine, skuID uuid.UUID) decimal.Decimal {
	for _, line := range lines {
		if line.SkuID == skuID {
			return line.Quantity
		}
	}
	return decimal.Zero
}

func loadTransactions(t *testing.T, db *gorm.DB, storeID uuid.UUID, txType enums.StockTransactionType) []models.StockTransaction {
	t.Helper()
	var entries []models.StockTransaction
	if err := db.Where("store_id = ? AND type = ?", storeID, txType).Find(&entries).Error; err != nil {
		t.Fatalf("load transactions: %v", err)
	}
	return entries
}
