package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"refuge/internal/domain"
)

func TestOrders_RowPerLine(t *testing.T) {
	orders := []domain.Order{{
		OrderNumber: "CMD-0001",
		UserID:      3,
		Status:      domain.OrderStatusPaid,
		Total:       decimal.RequireFromString("19.98"),
		Lines: []domain.OrderLine{
			{ProductID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("9.99"), Product: &domain.Product{Name: "A"}},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("9.99")},
		},
	}}
	var buf bytes.Buffer
	if err := Orders(&buf, orders); err != nil {
		t.Fatalf("orders: %v", err)
	}
	f, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sheet := f.Sheet["Orders"]
	if sheet == nil || len(sheet.Rows) != 3 {
		t.Fatalf("expected header + 2 rows")
	}
	if got := sheet.Rows[1].Cells[0].Value; got != "CMD-0001" {
		t.Fatalf("unexpected order cell %q", got)
	}
	if got := sheet.Rows[1].Cells[6].Value; got != "A" {
		t.Fatalf("unexpected product cell %q", got)
	}
}

func TestProducts(t *testing.T) {
	var buf bytes.Buffer
	err := Products(&buf, []domain.Product{{ID: 1, SerialNumber: "PROD-0001", Name: "A", Price: decimal.RequireFromString("2.5")}})
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	f, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := f.Sheet["Products"].Rows[1].Cells[4].Value; got != "2.50" {
		t.Fatalf("unexpected price cell %q", got)
	}
}
