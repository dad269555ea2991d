package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"refuge/internal/domain"
)

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.Product{Name: "A", SerialNumber: "PROD-0001", Price: decimal.RequireFromString("10"), Stock: 5}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("no id")
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get: %v", err)
	}

	p.Price = decimal.RequireFromString("12")
	if err := store.Update(ctx, &p); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, p.ID); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestMemoryStore_DuplicateSerial(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := domain.Product{Name: "A", SerialNumber: "PROD-0001"}
	if err := store.Create(ctx, &a); err != nil {
		t.Fatal(err)
	}
	b := domain.Product{Name: "B", SerialNumber: "PROD-0001"}
	if err := store.Create(ctx, &b); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMemoryStore_ListOrderingAndPages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, p := range []domain.Product{
		{Name: "Kibble", Price: decimal.RequireFromString("20"), Category: domain.CategoryNutrition},
		{Name: "Leash", Price: decimal.RequireFromString("15"), Category: domain.CategoryAccessories},
		{Name: "Shampoo", Price: decimal.RequireFromString("7.5"), Category: domain.CategoryHygiene},
		{Name: "Treats", Price: decimal.RequireFromString("3"), Category: domain.CategoryNutrition},
	} {
		p := p
		if err := store.Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.List(ctx, ProductFilter{OrderBy: "-price"})
	if err != nil {
		t.Fatal(err)
	}
	if list[0].Name != "Kibble" || list[3].Name != "Treats" {
		t.Fatalf("unexpected order: %v, %v", list[0].Name, list[3].Name)
	}

	list, _ = store.List(ctx, ProductFilter{Category: domain.CategoryNutrition})
	if len(list) != 2 {
		t.Fatalf("category filter: %d", len(list))
	}

	list, _ = store.List(ctx, ProductFilter{OrderBy: "name", Page: 2, PageSize: 3})
	if len(list) != 1 || list[0].Name != "Treats" {
		t.Fatalf("pagination: %+v", list)
	}

	if _, err := store.List(ctx, ProductFilter{OrderBy: "password"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMemoryStore_DecrementStock(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := domain.Product{Name: "A", Stock: 2}
	_ = store.Create(ctx, &p)
	if err := store.DecrementStock(ctx, p.ID, 2); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if err := store.DecrementStock(ctx, p.ID, 1); !errors.Is(err, ErrStockConflict) {
		t.Fatalf("expected stock conflict, got %v", err)
	}
	if err := store.DecrementStock(ctx, p.ID, -2); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, _ := store.GetByID(ctx, p.ID)
	if got.Stock != 0 {
		t.Fatalf("stock went to %d", got.Stock)
	}
}

func TestMemoryTx_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)
	counters := NewMemoryCounters(store)
	p := domain.Product{Name: "A", Stock: 5}
	_ = store.Create(ctx, &p)

	boom := errors.New("boom")
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := store.DecrementStock(ctx, p.ID, 3); err != nil {
			return err
		}
		if _, err := counters.Next(ctx, CounterOrder); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, _ := store.GetByID(ctx, p.ID)
	if got.Stock != 5 {
		t.Fatalf("stock not restored: %d", got.Stock)
	}
	n, _ := counters.Next(ctx, CounterOrder)
	if n != 1 {
		t.Fatalf("counter not restored: %d", n)
	}
}

func TestMemoryTx_PanicRestoresState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)
	p := domain.Product{Name: "A", Stock: 5}
	_ = store.Create(ctx, &p)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = tx.WithTransaction(ctx, func(ctx context.Context) error {
			if err := store.DecrementStock(ctx, p.ID, 3); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("store locked after panic: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("stock not restored after panic: %d", got.Stock)
	}
}

func TestMemoryCarts_MergeAndSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	carts := NewMemoryCarts(store)
	p := domain.Product{Name: "A", Stock: 10}
	_ = store.Create(ctx, &p)

	c, err := carts.GetOrCreate(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := carts.GetOrCreate(ctx, 7)
	if again.ID != c.ID {
		t.Fatalf("second cart created")
	}

	_, _ = carts.AddQuantity(ctx, c.ID, p.ID, 2)
	l, _ := carts.AddQuantity(ctx, c.ID, p.ID, 3)
	if l.Quantity != 5 {
		t.Fatalf("merge: %d", l.Quantity)
	}
	l, _ = carts.SetQuantity(ctx, c.ID, p.ID, 1)
	if l.Quantity != 1 {
		t.Fatalf("set: %d", l.Quantity)
	}
	if _, err := carts.AddQuantity(ctx, c.ID, p.ID, math.MaxInt64); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error on wrap, got %v", err)
	}
	lines, _ := carts.Lines(ctx, c.ID)
	if len(lines) != 1 || lines[0].Product == nil || lines[0].Quantity != 1 {
		t.Fatalf("lines: %+v", lines)
	}

	deleted, _ := carts.DeleteLine(ctx, c.ID, p.ID)
	if !deleted {
		t.Fatalf("expected deletion")
	}
	deleted, _ = carts.DeleteLine(ctx, c.ID, p.ID)
	if deleted {
		t.Fatalf("expected no-op")
	}
}

func TestMemoryUsers_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users := NewMemoryUsers(store)
	carts := NewMemoryCarts(store)
	notifs := NewMemoryNotifications(store)

	u := domain.User{ID: 3, Email: "a@b.c"}
	if err := users.Ensure(ctx, &u); err != nil {
		t.Fatal(err)
	}
	if _, err := carts.GetOrCreate(ctx, 3); err != nil {
		t.Fatal(err)
	}
	_ = notifs.Create(ctx, &domain.Notification{UserID: 3, Message: "hi"})

	if err := users.Delete(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := carts.GetByUser(ctx, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cart survived: %v", err)
	}
	list, _ := notifs.List(ctx, 3, true)
	if len(list) != 0 {
		t.Fatalf("notifications survived")
	}
}
