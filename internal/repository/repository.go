package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"refuge/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = domain.ErrNotFound

// ErrStockConflict условное списание не затронуло ни одной строки
var ErrStockConflict = errors.New("stock changed concurrently")

// Имена счётчиков человекочитаемых номеров
const (
	CounterProduct = "product"
	CounterOrder   = "order"
)

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	Category      domain.Category
	NameSubstring string
	OrderBy       string
	Page          int
	PageSize      int
}

var productOrderKeys = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
}

// ParseOrdering разбирает ключ вида "-price" в колонку и направление
func ParseOrdering(key string) (column string, desc bool, err error) {
	if key == "" {
		return "id", false, nil
	}
	if strings.HasPrefix(key, "-") {
		desc = true
		key = key[1:]
	}
	column, ok := productOrderKeys[key]
	if !ok {
		return "", false, domain.Invalid("unknown ordering %q", key)
	}
	return column, desc, nil
}

// Window возвращает offset и limit; limit 0 означает без пагинации
func (f ProductFilter) Window() (offset, limit int) {
	if f.PageSize <= 0 {
		return 0, 0
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize, f.PageSize
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	// DecrementStock атомарно уменьшает остаток при stock >= qty, иначе ErrStockConflict.
	// qty <= 0 отклоняется как ошибка валидации.
	DecrementStock(ctx context.Context, id int64, qty int64) error
}

// CartRepository интерфейс корзин
type CartRepository interface {
	GetByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error)
	// AddQuantity прибавляет qty к позиции, создавая её при отсутствии
	AddQuantity(ctx context.Context, cartID, productID, qty int64) (*domain.CartLine, error)
	// SetQuantity перезаписывает количество, создавая позицию при отсутствии
	SetQuantity(ctx context.Context, cartID, productID, qty int64) (*domain.CartLine, error)
	DeleteLine(ctx context.Context, cartID, productID int64) (bool, error)
	// Lines возвращает позиции вместе с товарами, упорядоченные по product id
	Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error)
	Clear(ctx context.Context, cartID int64) error
}

// OrderFilter пустой UserID означает все заказы
type OrderFilter struct {
	UserID int64
}

// OrderRepository интерфейс журнала заказов
type OrderRepository interface {
	// Create сохраняет заказ вместе с позициями; ErrConflict при повторе номера
	Create(ctx context.Context, o *domain.Order) error
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// CounterRepository атомарные последовательности для номеров
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// UserRepository интерфейс пользователей
type UserRepository interface {
	// Ensure создаёт запись для идентичности, если её ещё нет
	Ensure(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	// Delete каскадно удаляет корзину, заказы, заявки и уведомления
	Delete(ctx context.Context, id int64) error
}

// AnimalFilter фильтры каталога животных
type AnimalFilter struct {
	Species              string
	AvailableForAdoption *bool
	AvailableForFoster   *bool
	CareType             domain.CareType
}

// AnimalRepository интерфейс карточек животных
type AnimalRepository interface {
	Create(ctx context.Context, a *domain.Animal) error
	GetByID(ctx context.Context, id int64) (*domain.Animal, error)
	Update(ctx context.Context, a *domain.Animal) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f AnimalFilter) ([]domain.Animal, error)
}

// RequestFilter нулевые поля не фильтруют
type RequestFilter struct {
	Kind     domain.RequestKind
	UserID   int64
	AnimalID int64
	Status   domain.RequestStatus
}

// RequestRepository заявки на усыновление и передержку
type RequestRepository interface {
	Create(ctx context.Context, r *domain.AnimalRequest) error
	GetByID(ctx context.Context, id int64) (*domain.AnimalRequest, error)
	List(ctx context.Context, f RequestFilter) ([]domain.AnimalRequest, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error
	Delete(ctx context.Context, id int64) error
}

// NotificationRepository лента уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID int64, includeRead bool) ([]domain.Notification, error)
	// MarkRead ErrNotFound, если уведомление чужое или отсутствует
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// TxManager абстракция транзакции. Ошибка из fn откатывает все изменения.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// FormatCode номер вида PREFIX-0001
func FormatCode(prefix string, n int64) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
