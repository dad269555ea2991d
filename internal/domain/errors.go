package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrValidation некорректные входные данные
	ErrValidation = errors.New("invalid input")
	// ErrEmptyCart оформление заказа из пустой корзины
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientStock недостаточно товара на складе
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict коллизия уникального номера или ссылка из неизменяемых записей
	ErrConflict = errors.New("conflict")
	// ErrInvalidState переход статуса запрещён
	ErrInvalidState = errors.New("invalid state")
	// ErrAnimalUnavailable животное не отмечено как доступное
	ErrAnimalUnavailable = fmt.Errorf("%w: animal unavailable", ErrValidation)
)

// Invalid оборачивает ErrValidation с пояснением
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InsufficientStockError указывает товар и доступный остаток
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: available %d", e.ProductName, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }
