package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

const orderPrefix = "CMD"

// CheckoutInput данные доставки; пустые поля берутся из профиля
type CheckoutInput struct {
	DeliveryAddress string `json:"delivery_address"`
	Phone           string `json:"phone"`
	PaymentMethod   string `json:"payment_method"`
}

// OrderOptions необязательные параметры OrderService
type OrderOptions struct {
	MaxAttempts int
	Logger      zerolog.Logger
}

// OrderService оформление заказа из корзины и журнал заказов
type OrderService struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	counters repository.CounterRepository
	users    repository.UserRepository
	notifier *NotificationService
	tx       repository.TxManager

	maxAttempts int
	log         zerolog.Logger
}

func NewOrderService(
	products repository.ProductRepository,
	carts repository.CartRepository,
	orders repository.OrderRepository,
	counters repository.CounterRepository,
	users repository.UserRepository,
	notifier *NotificationService,
	tx repository.TxManager,
	opts OrderOptions,
) *OrderService {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = defaultAttempts
	}
	return &OrderService{
		products:    products,
		carts:       carts,
		orders:      orders,
		counters:    counters,
		users:       users,
		notifier:    notifier,
		tx:          tx,
		maxAttempts: opts.MaxAttempts,
		log:         opts.Logger.With().Str("component", "orders").Logger(),
	}
}

// Checkout превращает корзину в заказ одной транзакцией.
// Коллизия номера (ErrConflict) повторяет попытку целиком.
func (s *OrderService) Checkout(ctx context.Context, userID int64, in CheckoutInput) (*domain.Order, error) {
	for attempt := 1; ; attempt++ {
		o, err := s.checkoutOnce(ctx, userID, in)
		if err == nil {
			s.log.Info().Int64("user_id", userID).Str("order_number", o.OrderNumber).
				Str("total", o.Total.StringFixed(2)).Msg("order created")
			return o, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= s.maxAttempts {
			return nil, err
		}
		s.log.Warn().Err(err).Int64("user_id", userID).Int("attempt", attempt).Msg("checkout conflict, retrying")
		if err := skipNumber(ctx, s.tx, s.counters, repository.CounterOrder); err != nil {
			return nil, err
		}
	}
}

func (s *OrderService) checkoutOnce(ctx context.Context, userID int64, in CheckoutInput) (*domain.Order, error) {
	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.carts.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		lines, err := s.carts.Lines(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		// проверка всех позиций до любых изменений
		total := decimal.Zero
		for _, l := range lines {
			if l.Product == nil {
				return fmt.Errorf("product %d: %w", l.ProductID, repository.ErrNotFound)
			}
			if l.Quantity <= 0 || l.Quantity > domain.MaxLineQuantity {
				return domain.Invalid("cart line for product %d has quantity %d", l.ProductID, l.Quantity)
			}
			if l.Quantity > l.Product.Stock {
				return &domain.InsufficientStockError{
					ProductID:   l.ProductID,
					ProductName: l.Product.Name,
					Available:   l.Product.Stock,
				}
			}
			total = total.Add(l.Subtotal())
		}

		address, phone, err := s.deliveryDetails(ctx, userID, in)
		if err != nil {
			return err
		}
		payment := in.PaymentMethod
		if payment == "" {
			payment = domain.DefaultPaymentMethod
		}

		n, err := s.counters.Next(ctx, repository.CounterOrder)
		if err != nil {
			return err
		}
		o := domain.Order{
			OrderNumber:     repository.FormatCode(orderPrefix, n),
			UserID:          userID,
			Total:           total,
			Status:          domain.OrderStatusPending,
			DeliveryAddress: address,
			Phone:           phone,
			PaymentMethod:   payment,
			Lines:           make([]domain.OrderLine, 0, len(lines)),
		}
		for _, l := range lines {
			o.Lines = append(o.Lines, domain.OrderLine{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.Product.Price,
			})
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}

		// позиции упорядочены по product id, списание идёт в том же порядке
		for _, l := range lines {
			err := s.products.DecrementStock(ctx, l.ProductID, l.Quantity)
			if errors.Is(err, repository.ErrStockConflict) {
				return s.stockShortage(ctx, l.ProductID)
			}
			if err != nil {
				return err
			}
		}
		if err := s.carts.Clear(ctx, cart.ID); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *OrderService) deliveryDetails(ctx context.Context, userID int64, in CheckoutInput) (string, string, error) {
	address, phone := in.DeliveryAddress, in.Phone
	if address != "" && phone != "" {
		return address, phone, nil
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return address, phone, nil
	}
	if err != nil {
		return "", "", err
	}
	if address == "" {
		address = u.Address
	}
	if phone == "" {
		phone = u.Phone
	}
	return address, phone, nil
}

// stockShortage перечитывает остаток после проигранной гонки за товар
func (s *OrderService) stockShortage(ctx context.Context, productID int64) error {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	return &domain.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock}
}

// GetOrder владелец видит свои заказы, администратор любые; чужой заказ неотличим от отсутствующего
func (s *OrderService) GetOrder(ctx context.Context, userID int64, admin bool, number string) (*domain.Order, error) {
	if number == "" {
		return nil, ErrInvalidInput
	}
	o, err := s.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !admin && o.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.List(ctx, repository.OrderFilter{UserID: userID})
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx, repository.OrderFilter{})
}

// UpdateStatus двигает статус только вперёд и уведомляет владельца в той же транзакции
func (s *OrderService) UpdateStatus(ctx context.Context, number string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("unknown order status %q", status)
	}
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if !o.Status.CanMoveTo(status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidState, o.Status, status)
		}
		if err := s.orders.UpdateStatus(ctx, o.ID, status); err != nil {
			return err
		}
		msg := fmt.Sprintf("Order %s is now %s", o.OrderNumber, status)
		if _, err := s.notifier.Notify(ctx, o.UserID, msg); err != nil {
			return err
		}
		o.Status = status
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order_number", number).Str("status", string(status)).Msg("order status changed")
	return updated, nil
}
