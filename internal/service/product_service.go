package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

// ErrInvalidInput общий признак ошибки валидации
var ErrInvalidInput = domain.ErrValidation

const (
	serialPrefix    = "PROD"
	maxPageSize     = 100
	defaultAttempts = 3
	// пределы колонок products: serial_number size:10, price numeric(10,2)
	maxSerialLength = 10
	priceScale      = 2
)

var priceCeiling = decimal.New(1, 8)

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	repo        repository.ProductRepository
	counters    repository.CounterRepository
	tx          repository.TxManager
	maxAttempts int
}

func NewProductService(repo repository.ProductRepository, counters repository.CounterRepository, tx repository.TxManager) *ProductService {
	return &ProductService{repo: repo, counters: counters, tx: tx, maxAttempts: defaultAttempts}
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid("name is required")
	}
	if p.Price.IsNegative() {
		return domain.Invalid("price must be >= 0")
	}
	if !p.Price.Equal(p.Price.Truncate(priceScale)) {
		return domain.Invalid("price must have at most %d decimals", priceScale)
	}
	if p.Price.GreaterThanOrEqual(priceCeiling) {
		return domain.Invalid("price must be below %s", priceCeiling)
	}
	if len(p.SerialNumber) > maxSerialLength {
		return domain.Invalid("serial_number must be at most %d characters", maxSerialLength)
	}
	if p.Stock < 0 {
		return domain.Invalid("stock must be >= 0")
	}
	if !p.Category.Valid() {
		return domain.Invalid("unknown category %q", p.Category)
	}
	return nil
}

// Create сохраняет товар. Пустой серийный номер выдаётся из счётчика;
// при коллизии номер запрашивается заново.
func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.Category == "" {
		p.Category = domain.CategoryNutrition
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	generate := p.SerialNumber == ""
	for attempt := 1; ; attempt++ {
		cp := p
		cp.ID = 0
		err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			if generate {
				n, err := s.counters.Next(ctx, repository.CounterProduct)
				if err != nil {
					return err
				}
				cp.SerialNumber = repository.FormatCode(serialPrefix, n)
			}
			return s.repo.Create(ctx, &cp)
		})
		if err == nil {
			return &cp, nil
		}
		if !generate || !errors.Is(err, domain.ErrConflict) || attempt >= s.maxAttempts {
			return nil, err
		}
		if err := skipNumber(ctx, s.tx, s.counters, repository.CounterProduct); err != nil {
			return nil, err
		}
	}
}

// skipNumber фиксирует занятый номер отдельной транзакцией, иначе откат вернёт счётчик к той же коллизии
func skipNumber(ctx context.Context, tx repository.TxManager, counters repository.CounterRepository, name string) error {
	return tx.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := counters.Next(ctx, name)
		return err
	})
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// Update перезаписывает редактируемые поля; пустой серийный номер оставляет текущий
func (s *ProductService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID <= 0 {
		return nil, ErrInvalidInput
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	var updated *domain.Product
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		cp := p
		if cp.SerialNumber == "" {
			cp.SerialNumber = current.SerialNumber
		}
		cp.CreatedAt = current.CreatedAt
		if err := s.repo.Update(ctx, &cp); err != nil {
			return err
		}
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, domain.Invalid("unknown category %q", f.Category)
	}
	if f.Page < 0 || f.PageSize < 0 {
		return nil, domain.Invalid("page and page_size must be >= 0")
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	return s.repo.List(ctx, f)
}
