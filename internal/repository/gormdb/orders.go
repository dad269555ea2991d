package gormdb

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

// Carts корзины и их позиции
type Carts struct{ base }

var _ repository.CartRepository = (*Carts)(nil)

func (r *Carts) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	var c domain.Cart
	if err := r.conn(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *Carts) GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error) {
	db := r.conn(ctx)
	fresh := domain.Cart{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.GetByUser(ctx, userID)
}

var lineConflict = []clause.Column{{Name: "cart_id"}, {Name: "product_id"}}

func (r *Carts) upsert(ctx context.Context, cartID, productID, qty int64, onConflict clause.Set) (*domain.CartLine, error) {
	db := r.conn(ctx)
	line := domain.CartLine{CartID: cartID, ProductID: productID, Quantity: qty, AddedAt: time.Now().UTC()}
	err := db.Clauses(clause.OnConflict{Columns: lineConflict, DoUpdates: onConflict}).Create(&line).Error
	if err != nil {
		return nil, translate(err)
	}
	var stored domain.CartLine
	if err := db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&stored).Error; err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *Carts) AddQuantity(ctx context.Context, cartID, productID, qty int64) (*domain.CartLine, error) {
	return r.upsert(ctx, cartID, productID, qty, clause.Assignments(map[string]any{
		"quantity": gorm.Expr("cart_lines.quantity + excluded.quantity"),
		"added_at": gorm.Expr("excluded.added_at"),
	}))
}

func (r *Carts) SetQuantity(ctx context.Context, cartID, productID, qty int64) (*domain.CartLine, error) {
	return r.upsert(ctx, cartID, productID, qty, clause.AssignmentColumns([]string{"quantity", "added_at"}))
}

func (r *Carts) DeleteLine(ctx context.Context, cartID, productID int64) (bool, error) {
	res := r.conn(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&domain.CartLine{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Carts) Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, 0)
	err := r.conn(ctx).Preload("Product").Where("cart_id = ?", cartID).Order("product_id").Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *Carts) Clear(ctx context.Context, cartID int64) error {
	return r.conn(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartLine{}).Error
}

// Orders журнал заказов
type Orders struct{ base }

var _ repository.OrderRepository = (*Orders)(nil)

func (r *Orders) Create(ctx context.Context, o *domain.Order) error {
	return translate(r.conn(ctx).Create(o).Error)
}

func (r *Orders) withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).Preload("Lines.Product")
}

func (r *Orders) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var o domain.Order
	if err := r.withLines(r.conn(ctx)).Where("order_number = ?", number).First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *Orders) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	q := r.withLines(r.conn(ctx))
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	orders := make([]domain.Order, 0)
	if err := q.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Orders) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	res := r.conn(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Counter строка последовательности; UPDATE держит блокировку строки до конца транзакции
type Counter struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value int64  `gorm:"not null"`
}

// Counters атомарный инкремент выделенной строки счётчика
type Counters struct{ base }

var _ repository.CounterRepository = (*Counters)(nil)

func (r *Counters) Next(ctx context.Context, name string) (int64, error) {
	db := r.conn(ctx)
	bump := func() (int64, error) {
		res := db.Model(&Counter{}).Where("name = ?", name).Update("value", gorm.Expr("value + 1"))
		return res.RowsAffected, res.Error
	}
	n, err := bump()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&Counter{Name: name}).Error
		if err != nil {
			return 0, translate(err)
		}
		if _, err := bump(); err != nil {
			return 0, err
		}
	}
	var c Counter
	if err := db.Where("name = ?", name).Take(&c).Error; err != nil {
		return 0, translate(err)
	}
	return c.Value, nil
}
