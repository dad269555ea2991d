package repository

import (
	"context"
	"sort"
	"time"

	"refuge/internal/domain"
)

// MemoryAnimals карточки животных поверх MemoryStore
type MemoryAnimals struct{ store *MemoryStore }

func NewMemoryAnimals(store *MemoryStore) *MemoryAnimals { return &MemoryAnimals{store: store} }

var _ AnimalRepository = (*MemoryAnimals)(nil)

func (ma *MemoryAnimals) Create(ctx context.Context, a *domain.Animal) error {
	ma.store.wlock(ctx)
	defer ma.store.wunlock(ctx)
	a.ID = ma.store.st.nextAnimalID
	ma.store.st.nextAnimalID++
	a.CreatedAt = time.Now().UTC()
	ma.store.st.animalsByID[a.ID] = *a
	return nil
}

func (ma *MemoryAnimals) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	ma.store.rlock(ctx)
	defer ma.store.runlock(ctx)
	a, ok := ma.store.st.animalsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (ma *MemoryAnimals) Update(ctx context.Context, a *domain.Animal) error {
	ma.store.wlock(ctx)
	defer ma.store.wunlock(ctx)
	old, ok := ma.store.st.animalsByID[a.ID]
	if !ok {
		return ErrNotFound
	}
	a.CreatedAt = old.CreatedAt
	ma.store.st.animalsByID[a.ID] = *a
	return nil
}

func (ma *MemoryAnimals) Delete(ctx context.Context, id int64) error {
	ma.store.wlock(ctx)
	defer ma.store.wunlock(ctx)
	if _, ok := ma.store.st.animalsByID[id]; !ok {
		return ErrNotFound
	}
	for rid, r := range ma.store.st.requestsByID {
		if r.AnimalID == id {
			delete(ma.store.st.requestsByID, rid)
		}
	}
	delete(ma.store.st.animalsByID, id)
	return nil
}

func (ma *MemoryAnimals) List(ctx context.Context, f AnimalFilter) ([]domain.Animal, error) {
	ma.store.rlock(ctx)
	defer ma.store.runlock(ctx)
	out := make([]domain.Animal, 0)
	for _, a := range ma.store.st.animalsByID {
		if f.Species != "" && !containsIgnoreCase(a.Species, f.Species) {
			continue
		}
		if f.AvailableForAdoption != nil && a.AvailableForAdoption != *f.AvailableForAdoption {
			continue
		}
		if f.AvailableForFoster != nil && a.AvailableForFoster != *f.AvailableForFoster {
			continue
		}
		if f.CareType != "" && a.CareType != f.CareType {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MemoryRequests заявки на усыновление и передержку
type MemoryRequests struct{ store *MemoryStore }

func NewMemoryRequests(store *MemoryStore) *MemoryRequests { return &MemoryRequests{store: store} }

var _ RequestRepository = (*MemoryRequests)(nil)

func (mr *MemoryRequests) Create(ctx context.Context, r *domain.AnimalRequest) error {
	mr.store.wlock(ctx)
	defer mr.store.wunlock(ctx)
	if _, ok := mr.store.st.animalsByID[r.AnimalID]; !ok {
		return ErrNotFound
	}
	r.ID = mr.store.st.nextRequestID
	mr.store.st.nextRequestID++
	r.CreatedAt = time.Now().UTC()
	if r.Status == "" {
		r.Status = domain.RequestPending
	}
	stored := *r
	stored.Animal = nil
	mr.store.st.requestsByID[r.ID] = stored
	return nil
}

func (mr *MemoryRequests) withAnimal(r domain.AnimalRequest) domain.AnimalRequest {
	if a, ok := mr.store.st.animalsByID[r.AnimalID]; ok {
		cp := a
		r.Animal = &cp
	}
	return r
}

func (mr *MemoryRequests) GetByID(ctx context.Context, id int64) (*domain.AnimalRequest, error) {
	mr.store.rlock(ctx)
	defer mr.store.runlock(ctx)
	r, ok := mr.store.st.requestsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	r = mr.withAnimal(r)
	return &r, nil
}

func (mr *MemoryRequests) List(ctx context.Context, f RequestFilter) ([]domain.AnimalRequest, error) {
	mr.store.rlock(ctx)
	defer mr.store.runlock(ctx)
	out := make([]domain.AnimalRequest, 0)
	for _, r := range mr.store.st.requestsByID {
		if f.Kind != "" && r.Kind != f.Kind {
			continue
		}
		if f.UserID != 0 && r.UserID != f.UserID {
			continue
		}
		if f.AnimalID != 0 && r.AnimalID != f.AnimalID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, mr.withAnimal(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (mr *MemoryRequests) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	mr.store.wlock(ctx)
	defer mr.store.wunlock(ctx)
	r, ok := mr.store.st.requestsByID[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	mr.store.st.requestsByID[id] = r
	return nil
}

func (mr *MemoryRequests) Delete(ctx context.Context, id int64) error {
	mr.store.wlock(ctx)
	defer mr.store.wunlock(ctx)
	if _, ok := mr.store.st.requestsByID[id]; !ok {
		return ErrNotFound
	}
	delete(mr.store.st.requestsByID, id)
	return nil
}
