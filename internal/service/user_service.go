package service

import (
	"context"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

// ProfileInput редактируемые поля профиля
type ProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// UserService локальные записи для идентичностей, выданных внешним сервисом
type UserService struct {
	repo repository.UserRepository
	tx   repository.TxManager
}

func NewUserService(repo repository.UserRepository, tx repository.TxManager) *UserService {
	return &UserService{repo: repo, tx: tx}
}

// Ensure заводит запись при первом обращении пользователя
func (s *UserService) Ensure(ctx context.Context, id int64, email string, role domain.Role) (*domain.User, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	u := domain.User{ID: id, Email: email, Role: role}
	if err := s.repo.Ensure(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, in ProfileInput) (*domain.User, error) {
	if len(in.Phone) > 20 {
		return nil, domain.Invalid("phone is too long")
	}
	var updated *domain.User
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		u.FirstName, u.LastName = in.FirstName, in.LastName
		u.Phone, u.Address = in.Phone, in.Address
		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete каскадно удаляет корзину, заказы, заявки и уведомления
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}
