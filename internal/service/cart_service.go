package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

// CartLineView позиция корзины с текущей ценой товара
type CartLineView struct {
	ProductID    int64           `json:"product_id"`
	SerialNumber string          `json:"serial_number"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ImageURL     string          `json:"image_url"`
	Quantity     int64           `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// CartView содержимое корзины
type CartView struct {
	ID        int64           `json:"id"`
	Lines     []CartLineView  `json:"lines"`
	ItemCount int64           `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// CartService операции над корзиной пользователя. Остаток на этом шаге не проверяется.
type CartService struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	tx       repository.TxManager
}

func NewCartService(products repository.ProductRepository, carts repository.CartRepository, tx repository.TxManager) *CartService {
	return &CartService{products: products, carts: carts, tx: tx}
}

// Get возвращает корзину, создавая её при первом обращении
func (s *CartService) Get(ctx context.Context, userID int64) (*CartView, error) {
	var view *CartView
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.carts.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		lines, err := s.carts.Lines(ctx, cart.ID)
		if err != nil {
			return err
		}
		view = buildCartView(cart.ID, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func buildCartView(cartID int64, lines []domain.CartLine) *CartView {
	view := &CartView{ID: cartID, Lines: make([]CartLineView, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		lv := CartLineView{ProductID: l.ProductID, Quantity: l.Quantity, Subtotal: l.Subtotal()}
		if l.Product != nil {
			lv.SerialNumber = l.Product.SerialNumber
			lv.Name = l.Product.Name
			lv.UnitPrice = l.Product.Price
			lv.ImageURL = l.Product.ImageURL
		}
		view.Lines = append(view.Lines, lv)
		view.ItemCount += l.Quantity
		view.Total = view.Total.Add(lv.Subtotal)
	}
	return view
}

// AddItem прибавляет количество к позиции (слияние, не перезапись)
func (s *CartService) AddItem(ctx context.Context, userID, productID, qty int64) (*domain.CartLine, error) {
	if qty < 1 || qty > domain.MaxLineQuantity {
		return nil, domain.Invalid("quantity must be between 1 and %d", domain.MaxLineQuantity)
	}
	var line *domain.CartLine
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.products.GetByID(ctx, productID); err != nil {
			return err
		}
		cart, err := s.carts.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		current, err := s.lineQuantity(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		if current+qty > domain.MaxLineQuantity {
			return domain.Invalid("quantity must not exceed %d", domain.MaxLineQuantity)
		}
		line, err = s.carts.AddQuantity(ctx, cart.ID, productID, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (s *CartService) lineQuantity(ctx context.Context, cartID, productID int64) (int64, error) {
	lines, err := s.carts.Lines(ctx, cartID)
	if err != nil {
		return 0, err
	}
	for _, l := range lines {
		if l.ProductID == productID {
			return l.Quantity, nil
		}
	}
	return 0, nil
}

// SetQuantity перезаписывает количество; 0 удаляет позицию, повторное удаление не ошибка.
// При qty == 0 возвращается nil.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID, qty int64) (*domain.CartLine, error) {
	if qty < 0 || qty > domain.MaxLineQuantity {
		return nil, domain.Invalid("quantity must be between 0 and %d", domain.MaxLineQuantity)
	}
	var line *domain.CartLine
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.products.GetByID(ctx, productID); err != nil {
			return err
		}
		cart, err := s.carts.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		if qty == 0 {
			_, err = s.carts.DeleteLine(ctx, cart.ID, productID)
			return err
		}
		line, err = s.carts.SetQuantity(ctx, cart.ID, productID, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveItem NotFound, если нет корзины или позиции
func (s *CartService) RemoveItem(ctx context.Context, userID, productID int64) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.carts.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		deleted, err := s.carts.DeleteLine(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		if !deleted {
			return repository.ErrNotFound
		}
		return nil
	})
}

// Clear очищает корзину; отсутствие корзины не ошибка
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.carts.GetByUser(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.carts.Clear(ctx, cart.ID)
	})
}
