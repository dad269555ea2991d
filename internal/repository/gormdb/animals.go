package gormdb

import (
	"context"
	"strings"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

// Animals карточки животных
type Animals struct{ base }

var _ repository.AnimalRepository = (*Animals)(nil)

var animalColumns = []string{
	"name", "species", "breed", "birth_date", "sex", "description", "image_url",
	"available_for_adoption", "available_for_foster", "care_type", "reservation_date", "end_date",
}

func (r *Animals) Create(ctx context.Context, a *domain.Animal) error {
	return translate(r.conn(ctx).Omit("Requests").Create(a).Error)
}

func (r *Animals) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	var a domain.Animal
	if err := r.conn(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *Animals) Update(ctx context.Context, a *domain.Animal) error {
	res := r.conn(ctx).Model(&domain.Animal{ID: a.ID}).Select(animalColumns).Updates(a)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Animals) Delete(ctx context.Context, id int64) error {
	db := r.conn(ctx)
	if err := db.Where("animal_id = ?", id).Delete(&domain.AnimalRequest{}).Error; err != nil {
		return err
	}
	res := db.Delete(&domain.Animal{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Animals) List(ctx context.Context, f repository.AnimalFilter) ([]domain.Animal, error) {
	q := r.conn(ctx).Model(&domain.Animal{})
	if f.Species != "" {
		q = q.Where("LOWER(species) LIKE ?", "%"+strings.ToLower(f.Species)+"%")
	}
	if f.AvailableForAdoption != nil {
		q = q.Where("available_for_adoption = ?", *f.AvailableForAdoption)
	}
	if f.AvailableForFoster != nil {
		q = q.Where("available_for_foster = ?", *f.AvailableForFoster)
	}
	if f.CareType != "" {
		q = q.Where("care_type = ?", f.CareType)
	}
	animals := make([]domain.Animal, 0)
	if err := q.Order("id").Find(&animals).Error; err != nil {
		return nil, err
	}
	return animals, nil
}

// Requests заявки на усыновление и передержку
type Requests struct{ base }

var _ repository.RequestRepository = (*Requests)(nil)

func (r *Requests) Create(ctx context.Context, req *domain.AnimalRequest) error {
	if req.Status == "" {
		req.Status = domain.RequestPending
	}
	return translate(r.conn(ctx).Omit("Animal").Create(req).Error)
}

func (r *Requests) GetByID(ctx context.Context, id int64) (*domain.AnimalRequest, error) {
	var req domain.AnimalRequest
	if err := r.conn(ctx).Preload("Animal").First(&req, id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *Requests) List(ctx context.Context, f repository.RequestFilter) ([]domain.AnimalRequest, error) {
	q := r.conn(ctx).Preload("Animal")
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.AnimalID != 0 {
		q = q.Where("animal_id = ?", f.AnimalID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	out := make([]domain.AnimalRequest, 0)
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Requests) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	res := r.conn(ctx).Model(&domain.AnimalRequest{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Requests) Delete(ctx context.Context, id int64) error {
	res := r.conn(ctx).Delete(&domain.AnimalRequest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
