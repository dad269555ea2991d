package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Role роль пользователя
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleWalker  Role = "walker"
	RoleAdmin   Role = "admin"
)

// User учётная запись. Идентичность выдаётся внешним сервисом авторизации.
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:255;index"`
	FirstName string    `json:"first_name" gorm:"size:100"`
	LastName  string    `json:"last_name" gorm:"size:100"`
	Phone     string    `json:"phone" gorm:"size:20"`
	Role      Role      `json:"role" gorm:"size:20"`
	Address   string    `json:"address" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`

	Cart          *Cart           `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Orders        []Order         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Requests      []AnimalRequest `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Notifications []Notification  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Category категория товара
type Category string

const (
	CategoryNutrition   Category = "Nutrition"
	CategoryAccessories Category = "Accessories"
	CategoryHygiene     Category = "Hygiene"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryNutrition, CategoryAccessories, CategoryHygiene:
		return true
	}
	return false
}

// Product товар магазина
type Product struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	SerialNumber string          `json:"serial_number" gorm:"size:10;uniqueIndex"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	Description  string          `json:"description" gorm:"type:text"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Stock        int64           `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	Category     Category        `json:"category" gorm:"size:20;not null;default:'Nutrition'"`
	ImageURL     string          `json:"image_url" gorm:"size:255"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Cart корзина, ровно одна на пользователя
type Cart struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	UserID    int64      `json:"user_id" gorm:"uniqueIndex;not null"`
	Lines     []CartLine `json:"lines,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartLine позиция корзины; не более одной на пару (cart, product)
type CartLine struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CartID    int64     `json:"cart_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID int64     `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	Product   *Product  `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int64     `json:"quantity" gorm:"not null"`
	AddedAt   time.Time `json:"added_at"`
}

// MaxLineQuantity верхняя граница количества в одной позиции
const MaxLineQuantity int64 = math.MaxInt32

// Subtotal цена позиции по текущей цене товара
func (l CartLine) Subtotal() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}
	return l.Product.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPaid:      1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanMoveTo разрешает только движение вперёд
func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	return ok && to > from
}

const DefaultPaymentMethod = "cash_on_delivery"

// Order сущность заказа. После создания меняется только статус.
type Order struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"order_number" gorm:"size:10;uniqueIndex;not null"`
	UserID          int64           `json:"user_id" gorm:"index;not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(10,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"size:20;not null;default:'Pending'"`
	DeliveryAddress string          `json:"delivery_address" gorm:"type:text"`
	Phone           string          `json:"phone" gorm:"size:20"`
	PaymentMethod   string          `json:"payment_method" gorm:"size:50;not null"`
	Lines           []OrderLine     `json:"lines" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderLine позиция заказа; цена зафиксирована на момент покупки
type OrderLine struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	OrderID   int64           `json:"order_id" gorm:"index;not null"`
	ProductID int64           `json:"product_id" gorm:"index;not null"`
	Product   *Product        `json:"product,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Quantity  int64           `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);not null"`
}

// Notification уведомление пользователя
type Notification struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}
