// Package report строит xlsx-выгрузки для администраторов.
package report

import (
	"io"

	"github.com/tealeg/xlsx"

	"refuge/internal/domain"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout  = "2006-01-02 15:04:05"
)

func header(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, h := range titles {
		row.AddCell().SetValue(h)
	}
}

// Products один лист, строка на товар
func Products(w io.Writer, products []domain.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}
	header(sheet, "ID", "Serial", "Name", "Category", "Price", "Stock", "Image", "CreatedAt")
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.SerialNumber)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(string(p.Category))
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetValue(p.CreatedAt.Format(timeLayout))
	}
	return file.Write(w)
}

// Orders строка на позицию заказа; поля заказа повторяются
func Orders(w io.Writer, orders []domain.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}
	header(sheet, "Order", "UserID", "Status", "Total", "CreatedAt", "ProductID", "Product", "Quantity", "UnitPrice")
	for _, o := range orders {
		for _, l := range o.Lines {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(o.Total.StringFixed(2))
			row.AddCell().SetValue(o.CreatedAt.Format(timeLayout))
			row.AddCell().SetValue(l.ProductID)
			name := ""
			if l.Product != nil {
				name = l.Product.Name
			}
			row.AddCell().SetValue(name)
			row.AddCell().SetValue(l.Quantity)
			row.AddCell().SetValue(l.UnitPrice.StringFixed(2))
		}
	}
	return file.Write(w)
}
