package txlog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/barstockapp/barstock-backend/pkg/db/models"
	"github.com/barstockapp/barstock-backend/pkg/enums"
	pkgerrors "github.com/barstockapp/barstock-backend/pkg/errors"
)

func TestAppendAndList(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	skuA := uuid.New()
	skuB := uuid.New()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	entries := []models.StockTransaction{
		seedEntry(storeID, skuA, enums.StockTransactionReserve, base),
		seedEntry(storeID, skuA, enums.StockTransactionDeduct, base.Add(time.Minute)),
		seedEntry(storeID, skuB, enums.StockTransactionAdjust, base.Add(2*time.Minute)),
	}
	if err := repo.Append(ctx, entries); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, nil); err != nil {
		t.Fatalf("append empty batch: %v", err)
	}

	got, next, err := repo.List(ctx, Filter{StoreID: storeID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if next != "" {
		t.Fatalf("unexpected next cursor: %q", next)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// Newest first.
	if got[0].Type != enums.StockTransactionAdjust || got[2].Type != enums.StockTransactionReserve {
		t.Fatalf("unexpected ordering: %s, %s, %s", got[0].Type, got[1].Type, got[2].Type)
	}

	skuFilter := skuA
	got, _, err = repo.List(ctx, Filter{StoreID: storeID, SkuID: &skuFilter})
	if err != nil {
		t.Fatalf("list by sku: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for sku, got %d", len(got))
	}

	typeFilter := enums.StockTransactionAdjust
	got, _, err = repo.List(ctx, Filter{StoreID: storeID, Type: &typeFilter})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(got) != 1 || got[0].SkuID != skuB {
		t.Fatalf("unexpected type filter result: %+v", got)
	}

	// Another store's log never leaks in.
	got, _, err = repo.List(ctx, Filter{StoreID: uuid.New()})
	if err != nil {
		t.Fatalf("list other store: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty page, got %d", len(got))
	}
}

func TestListPaginatesWithCursor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	skuID := uuid.New()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	entries := make([]models.StockTransaction, 0, 5)
	for i := 0; i < 5; i++ {
		entries = append(entries, seedEntry(storeID, skuID, enums.StockTransactionAdjust, base.Add(time.Duration(i)*time.Minute)))
	}
	if err := repo.Append(ctx, entries); err != nil {
		t.Fatalf("append: %v", err)
	}

	seen := map[uuid.UUID]bool{}
	cursor := ""
	pages := 0
	for {
		got, next, err := repo.List(ctx, Filter{StoreID: storeID, Limit: 2, Cursor: cursor})
		if err != nil {
			t.Fatalf("list page: %v", err)
		}
		for _, entry := range got {
			if seen[entry.ID] {
				t.Fatalf("entry %s returned twice", entry.ID)
			}
			seen[entry.ID] = true
		}
		pages++
		if next == "" {
			break
		}
		cursor = next
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 distinct entries across pages, got %d", len(seen))
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
}

func TestListValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, _, err := repo.List(ctx, Filter{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error for missing store: %v", err)
	}

	_, _, err = repo.List(ctx, Filter{StoreID: uuid.New(), Cursor: "not-base64!"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error for bad cursor: %v", err)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:txlog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.StockTransaction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedEntry(storeID, skuID uuid.UUID, txType enums.StockTransactionType, createdAt time.Time) models.StockTransaction {
	qty := decimal.NewFromInt(10)
	return models.StockTransaction{
		SkuID:          skuID,
		StoreID:        storeID,
		Type:           txType,
		Quantity:       qty,
		OnHandBefore:   decimal.NewFromInt(100),
		OnHandAfter:    decimal.NewFromInt(100),
		ReservedBefore: decimal.Zero,
		ReservedAfter:  qty,
		Operator:       "system",
		CreatedAt:      createdAt,
	}
}
