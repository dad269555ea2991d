package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

// AnimalService карточки животных
type AnimalService struct {
	repo repository.AnimalRepository
}

func NewAnimalService(repo repository.AnimalRepository) *AnimalService {
	return &AnimalService{repo: repo}
}

func validateAnimal(a *domain.Animal) error {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Species) == "" {
		return domain.Invalid("name and species are required")
	}
	if a.Sex != domain.SexMale && a.Sex != domain.SexFemale {
		return domain.Invalid("sex must be M or F")
	}
	if a.CareType == "" {
		a.CareType = domain.CareTemporary
	}
	if !a.CareType.Valid() {
		return domain.Invalid("unknown care type %q", a.CareType)
	}
	if a.ReservationDate != nil && a.EndDate != nil && a.EndDate.Before(*a.ReservationDate) {
		return domain.Invalid("end_date precedes reservation_date")
	}
	return nil
}

func (s *AnimalService) Create(ctx context.Context, a domain.Animal) (*domain.Animal, error) {
	if err := validateAnimal(&a); err != nil {
		return nil, err
	}
	a.ID = 0
	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AnimalService) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *AnimalService) Update(ctx context.Context, a domain.Animal) (*domain.Animal, error) {
	if a.ID <= 0 {
		return nil, ErrInvalidInput
	}
	if err := validateAnimal(&a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &a); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, a.ID)
}

func (s *AnimalService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *AnimalService) List(ctx context.Context, f repository.AnimalFilter) ([]domain.Animal, error) {
	if f.CareType != "" && !f.CareType.Valid() {
		return nil, domain.Invalid("unknown care type %q", f.CareType)
	}
	return s.repo.List(ctx, f)
}

// RequestService заявки на усыновление и передержку
type RequestService struct {
	requests repository.RequestRepository
	animals  repository.AnimalRepository
	notifier *NotificationService
	tx       repository.TxManager
	log      zerolog.Logger
}

func NewRequestService(
	requests repository.RequestRepository,
	animals repository.AnimalRepository,
	notifier *NotificationService,
	tx repository.TxManager,
	log zerolog.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		animals:  animals,
		notifier: notifier,
		tx:       tx,
		log:      log.With().Str("component", "requests").Logger(),
	}
}

// Submit создаёт заявку; животное должно быть отмечено доступным для этого вида заявки
func (s *RequestService) Submit(ctx context.Context, kind domain.RequestKind, userID, animalID int64, message string, care domain.CareType) (*domain.AnimalRequest, error) {
	if kind != domain.RequestAdoption && kind != domain.RequestFoster {
		return nil, domain.Invalid("unknown request kind %q", kind)
	}
	if animalID <= 0 {
		return nil, domain.Invalid("animal_id is required")
	}
	var created *domain.AnimalRequest
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		a, err := s.animals.GetByID(ctx, animalID)
		if err != nil {
			return err
		}
		req := domain.AnimalRequest{
			Kind:     kind,
			AnimalID: a.ID,
			UserID:   userID,
			Status:   domain.RequestPending,
			Message:  message,
		}
		switch kind {
		case domain.RequestAdoption:
			if !a.AvailableForAdoption {
				return domain.ErrAnimalUnavailable
			}
		case domain.RequestFoster:
			if !a.AvailableForFoster {
				return domain.ErrAnimalUnavailable
			}
			req.CareType = care
			if req.CareType == "" {
				req.CareType = a.CareType
			}
			if !req.CareType.Valid() {
				return domain.Invalid("unknown care type %q", care)
			}
		}
		if err := s.requests.Create(ctx, &req); err != nil {
			return err
		}
		req.Animal = a
		created = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get владелец или администратор; иначе NotFound
func (s *RequestService) Get(ctx context.Context, kind domain.RequestKind, userID int64, admin bool, id int64) (*domain.AnimalRequest, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Kind != kind || (!admin && req.UserID != userID) {
		return nil, repository.ErrNotFound
	}
	return req, nil
}

// List заявки пользователя; администратор видит все
func (s *RequestService) List(ctx context.Context, userID int64, admin bool, f repository.RequestFilter) ([]domain.AnimalRequest, error) {
	if !admin {
		f.UserID = userID
	}
	return s.requests.List(ctx, f)
}

func (s *RequestService) Delete(ctx context.Context, kind domain.RequestKind, userID int64, admin bool, id int64) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, kind, userID, admin, id); err != nil {
			return err
		}
		return s.requests.Delete(ctx, id)
	})
}

// Decide принимает или отклоняет заявку в статусе Pending.
// Принятие снимает соответствующую доступность животного; заявитель получает уведомление.
func (s *RequestService) Decide(ctx context.Context, kind domain.RequestKind, id int64, status domain.RequestStatus) (*domain.AnimalRequest, error) {
	if status != domain.RequestAccepted && status != domain.RequestRefused {
		return nil, domain.Invalid("status must be Accepted or Refused")
	}
	var decided *domain.AnimalRequest
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		req, err := s.Get(ctx, kind, 0, true, id)
		if err != nil {
			return err
		}
		if req.Status != domain.RequestPending {
			return fmt.Errorf("%w: request already %s", domain.ErrInvalidState, req.Status)
		}
		if err := s.requests.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		animal, err := s.animals.GetByID(ctx, req.AnimalID)
		if err != nil {
			return err
		}
		if status == domain.RequestAccepted {
			if kind == domain.RequestAdoption {
				animal.AvailableForAdoption = false
			} else {
				animal.AvailableForFoster = false
			}
			if err := s.animals.Update(ctx, animal); err != nil {
				return err
			}
		}
		msg := fmt.Sprintf("Your %s request for %s was %s", kind, animal.Name, status)
		if _, err := s.notifier.Notify(ctx, req.UserID, msg); err != nil {
			return err
		}
		req.Status = status
		req.Animal = animal
		decided = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("request_id", id).Str("kind", string(kind)).Str("status", string(status)).Msg("request decided")
	return decided, nil
}
