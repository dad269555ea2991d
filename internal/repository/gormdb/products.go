package gormdb

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

// Products каталог товаров
type Products struct{ base }

var _ repository.ProductRepository = (*Products)(nil)

var productColumns = []string{"serial_number", "name", "description", "price", "stock", "category", "image_url"}

func (r *Products) Create(ctx context.Context, p *domain.Product) error {
	return translate(r.conn(ctx).Create(p).Error)
}

func (r *Products) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.conn(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *Products) Update(ctx context.Context, p *domain.Product) error {
	res := r.conn(ctx).Model(&domain.Product{ID: p.ID}).Select(productColumns).Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete товары, попавшие в журнал заказов, не удаляются
func (r *Products) Delete(ctx context.Context, id int64) error {
	db := r.conn(ctx)
	var refs int64
	if err := db.Model(&domain.OrderLine{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrConflict
	}
	if err := db.Where("product_id = ?", id).Delete(&domain.CartLine{}).Error; err != nil {
		return err
	}
	res := db.Delete(&domain.Product{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Products) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	column, desc, err := repository.ParseOrdering(f.OrderBy)
	if err != nil {
		return nil, err
	}
	q := r.conn(ctx).Model(&domain.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.NameSubstring != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.NameSubstring)+"%")
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	if column != "id" {
		q = q.Order("id")
	}
	if offset, limit := f.Window(); limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	products := make([]domain.Product, 0)
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock условное списание: UPDATE ... WHERE stock >= qty
func (r *Products) DecrementStock(ctx context.Context, id int64, qty int64) error {
	if qty <= 0 {
		return domain.Invalid("decrement must be positive, got %d", qty)
	}
	db := r.conn(ctx)
	res := db.Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	var exists int64
	if err := db.Model(&domain.Product{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrStockConflict
}
