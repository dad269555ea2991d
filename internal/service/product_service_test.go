package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

func setupPS(t *testing.T) *ProductService {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewProductService(store, repository.NewMemoryCounters(store), repository.NewMemoryTx(store))
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProduct_Create_GeneratesSerial(t *testing.T) {
	ctx := context.Background()
	ps := setupPS(t)
	p, err := ps.Create(ctx, domain.Product{Name: "Croquettes", Price: price("12.50"), Stock: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("expected id assigned")
	}
	if p.SerialNumber != "PROD-0001" {
		t.Fatalf("expected PROD-0001, got %q", p.SerialNumber)
	}
	if p.Category != domain.CategoryNutrition {
		t.Fatalf("expected default category, got %q", p.Category)
	}
	p2, err := ps.Create(ctx, domain.Product{Name: "Laisse", Price: price("8"), Category: domain.CategoryAccessories})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p2.SerialNumber != "PROD-0002" {
		t.Fatalf("expected PROD-0002, got %q", p2.SerialNumber)
	}
}

func TestProduct_Create_SkipsTakenSerial(t *testing.T) {
	ctx := context.Background()
	ps := setupPS(t)
	if _, err := ps.Create(ctx, domain.Product{Name: "Manual", SerialNumber: "PROD-0001", Price: price("1")}); err != nil {
		t.Fatalf("create manual: %v", err)
	}
	p, err := ps.Create(ctx, domain.Product{Name: "Auto", Price: price("1")})
	if err != nil {
		t.Fatalf("create auto: %v", err)
	}
	if p.SerialNumber != "PROD-0002" {
		t.Fatalf("expected collision retry to PROD-0002, got %q", p.SerialNumber)
	}
	// явно заданный номер не подменяется
	_, err = ps.Create(ctx, domain.Product{Name: "Dup", SerialNumber: "PROD-0001", Price: price("1")})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestProduct_Create_ConcurrentSerialsUnique(t *testing.T) {
	ctx := context.Background()
	ps := setupPS(t)
	const n = 20
	serials := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := ps.Create(ctx, domain.Product{Name: "P", Price: price("1")})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			serials <- p.SerialNumber
		}()
	}
	wg.Wait()
	close(serials)
	seen := map[string]bool{}
	for s := range serials {
		if seen[s] {
			t.Fatalf("duplicate serial %s", s)
		}
		seen[s] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d serials, got %d", n, len(seen))
	}
}

func TestProduct_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	ps := setupPS(t)
	cases := []domain.Product{
		{Name: "", Price: price("1"), Stock: 1},
		{Name: "N", Price: price("-1"), Stock: 1},
		{Name: "N", Price: price("1"), Stock: -1},
		{Name: "N", Price: price("1"), Category: "Toys"},
		{Name: "N", Price: price("9.999")},
		{Name: "N", Price: price("100000000")},
		{Name: "N", Price: price("1"), SerialNumber: "PROD-000001"},
	}
	for _, c := range cases {
		if _, err := ps.Create(ctx, c); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected validation error for %+v, got %v", c, err)
		}
	}
}

func TestProduct_Update_Get_Delete(t *testing.T) {
	ctx := context.Background()
	ps := setupPS(t)
	p, _ := ps.Create(ctx, domain.Product{Name: "A", Price: price("10"), Stock: 5})

	got, err := ps.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get failed: %v", err)
	}

	upd := *p
	upd.Name = "A+"
	upd.Price = price("12")
	upd.Stock = 7
	upd.SerialNumber = ""
	up, err := ps.Update(ctx, upd)
	if err != nil {
		t.Fatalf("update err: %v", err)
	}
	if up.Name != "A+" || !up.Price.Equal(price("12")) || up.Stock != 7 {
		t.Fatalf("not updated: %+v", up)
	}
	if up.SerialNumber != p.SerialNumber {
		t.Fatalf("serial must be kept, got %q", up.SerialNumber)
	}

	if err := ps.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete err: %v", err)
	}
	if _, err := ps.GetByID(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestProduct_List_Filtering(t *testing.T) {
	ctx := context.Background()
	ps := setupPS(t)
	must := func(p *domain.Product, err error) *domain.Product {
		if err != nil {
			t.Fatal(err)
		}
		return p
	}
	must(ps.Create(ctx, domain.Product{Name: "Croquettes chat", Price: price("20"), Category: domain.CategoryNutrition}))
	must(ps.Create(ctx, domain.Product{Name: "Shampooing", Price: price("9.90"), Category: domain.CategoryHygiene}))
	must(ps.Create(ctx, domain.Product{Name: "Croquettes chien", Price: price("25"), Category: domain.CategoryNutrition}))

	list, err := ps.List(ctx, repository.ProductFilter{NameSubstring: "CROQ", OrderBy: "-price"})
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Croquettes chien" {
		t.Fatalf("unexpected list: %+v", list)
	}

	list, err = ps.List(ctx, repository.ProductFilter{Category: domain.CategoryHygiene})
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Shampooing" {
		t.Fatalf("category filter failed: %+v", list)
	}

	if _, err := ps.List(ctx, repository.ProductFilter{OrderBy: "weight"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid ordering, got %v", err)
	}
}

func TestProduct_PriceAndSerialLimits(t *testing.T) {
	ctx := context.Background()
	ps := setupPS(t)
	p, err := ps.Create(ctx, domain.Product{Name: "N", Price: price("99999999.99"), SerialNumber: "SER-000001"})
	if err != nil {
		t.Fatalf("create at limits: %v", err)
	}
	p.Price = price("1.005")
	if _, err := ps.Update(ctx, *p); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected validation error for price scale, got %v", err)
	}
	p.Price = price("1.50")
	p.SerialNumber = "SERIAL-00001"
	if _, err := ps.Update(ctx, *p); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected validation error for serial length, got %v", err)
	}
	got, _ := ps.GetByID(ctx, p.ID)
	if got.SerialNumber != "SER-000001" || !got.Price.Equal(price("99999999.99")) {
		t.Fatalf("product changed: %+v", got)
	}
}
