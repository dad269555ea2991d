package gormdb

import (
	"context"

	"gorm.io/gorm/clause"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

// Users учётные записи
type Users struct{ base }

var _ repository.UserRepository = (*Users)(nil)

func (r *Users) Ensure(ctx context.Context, u *domain.User) error {
	db := r.conn(ctx)
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Omit("Cart", "Orders", "Requests", "Notifications").
		Create(u).Error
	if err != nil {
		return translate(err)
	}
	return translate(db.Take(u, u.ID).Error)
}

func (r *Users) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.conn(ctx).Take(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Users) Update(ctx context.Context, u *domain.User) error {
	res := r.conn(ctx).Model(&domain.User{ID: u.ID}).
		Select("email", "first_name", "last_name", "phone", "role", "address").
		Updates(u)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete удаляет зависимые записи явно, не полагаясь на каскад конкретной СУБД
func (r *Users) Delete(ctx context.Context, id int64) error {
	db := r.conn(ctx)
	cartIDs := db.Model(&domain.Cart{}).Select("id").Where("user_id = ?", id)
	orderIDs := db.Model(&domain.Order{}).Select("id").Where("user_id = ?", id)
	steps := []struct {
		model any
		query string
		arg   any
	}{
		{&domain.CartLine{}, "cart_id IN (?)", cartIDs},
		{&domain.Cart{}, "user_id = ?", id},
		{&domain.OrderLine{}, "order_id IN (?)", orderIDs},
		{&domain.Order{}, "user_id = ?", id},
		{&domain.AnimalRequest{}, "user_id = ?", id},
		{&domain.Notification{}, "user_id = ?", id},
	}
	for _, s := range steps {
		if err := db.Where(s.query, s.arg).Delete(s.model).Error; err != nil {
			return err
		}
	}
	res := db.Delete(&domain.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Notifications лента уведомлений
type Notifications struct{ base }

var _ repository.NotificationRepository = (*Notifications)(nil)

func (r *Notifications) Create(ctx context.Context, n *domain.Notification) error {
	return translate(r.conn(ctx).Create(n).Error)
}

func (r *Notifications) List(ctx context.Context, userID int64, includeRead bool) ([]domain.Notification, error) {
	q := r.conn(ctx).Where("user_id = ?", userID)
	if !includeRead {
		q = q.Where("read = ?", false)
	}
	out := make([]domain.Notification, 0)
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Notifications) MarkRead(ctx context.Context, userID, id int64) error {
	res := r.conn(ctx).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Notifications) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res := r.conn(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
