package repository

import (
	"context"
	"sort"
	"time"

	"refuge/internal/domain"
)

// MemoryCarts корзины поверх MemoryStore
type MemoryCarts struct{ store *MemoryStore }

func NewMemoryCarts(store *MemoryStore) *MemoryCarts { return &MemoryCarts{store: store} }

var _ CartRepository = (*MemoryCarts)(nil)

func (mc *MemoryCarts) findCart(userID int64) (domain.Cart, bool) {
	for _, c := range mc.store.st.cartsByID {
		if c.UserID == userID {
			return c, true
		}
	}
	return domain.Cart{}, false
}

func (mc *MemoryCarts) findLine(cartID, productID int64) (domain.CartLine, bool) {
	for _, l := range mc.store.st.cartLinesByID {
		if l.CartID == cartID && l.ProductID == productID {
			return l, true
		}
	}
	return domain.CartLine{}, false
}

func (mc *MemoryCarts) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	c, ok := mc.findCart(userID)
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (mc *MemoryCarts) GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error) {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	if c, ok := mc.findCart(userID); ok {
		return &c, nil
	}
	c := domain.Cart{ID: mc.store.st.nextCartID, UserID: userID, CreatedAt: time.Now().UTC()}
	mc.store.st.nextCartID++
	mc.store.st.cartsByID[c.ID] = c
	return &c, nil
}

func (mc *MemoryCarts) upsertLine(cartID, productID int64, apply func(current int64) int64) (*domain.CartLine, error) {
	if _, ok := mc.store.st.cartsByID[cartID]; !ok {
		return nil, ErrNotFound
	}
	if _, ok := mc.store.st.productsByID[productID]; !ok {
		return nil, ErrNotFound
	}
	l, ok := mc.findLine(cartID, productID)
	next := apply(l.Quantity)
	if next <= 0 {
		return nil, domain.Invalid("cart line quantity must stay positive, got %d", next)
	}
	if !ok {
		l = domain.CartLine{ID: mc.store.st.nextLineID, CartID: cartID, ProductID: productID}
		mc.store.st.nextLineID++
	}
	l.Quantity = next
	l.AddedAt = time.Now().UTC()
	mc.store.st.cartLinesByID[l.ID] = l
	return &l, nil
}

func (mc *MemoryCarts) AddQuantity(ctx context.Context, cartID, productID, qty int64) (*domain.CartLine, error) {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	return mc.upsertLine(cartID, productID, func(current int64) int64 { return current + qty })
}

func (mc *MemoryCarts) SetQuantity(ctx context.Context, cartID, productID, qty int64) (*domain.CartLine, error) {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	return mc.upsertLine(cartID, productID, func(int64) int64 { return qty })
}

func (mc *MemoryCarts) DeleteLine(ctx context.Context, cartID, productID int64) (bool, error) {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	l, ok := mc.findLine(cartID, productID)
	if !ok {
		return false, nil
	}
	delete(mc.store.st.cartLinesByID, l.ID)
	return true, nil
}

func (mc *MemoryCarts) Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	out := make([]domain.CartLine, 0)
	for _, l := range mc.store.st.cartLinesByID {
		if l.CartID != cartID {
			continue
		}
		if p, ok := mc.store.st.productsByID[l.ProductID]; ok {
			cp := p
			l.Product = &cp
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (mc *MemoryCarts) Clear(ctx context.Context, cartID int64) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	for id, l := range mc.store.st.cartLinesByID {
		if l.CartID == cartID {
			delete(mc.store.st.cartLinesByID, id)
		}
	}
	return nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	for _, existing := range mo.store.st.ordersByID {
		if existing.OrderNumber == o.OrderNumber {
			return domain.ErrConflict
		}
	}
	o.ID = mo.store.st.nextOrderID
	mo.store.st.nextOrderID++
	o.CreatedAt = time.Now().UTC()
	for i := range o.Lines {
		o.Lines[i].ID = mo.store.st.nextOrderLineID
		mo.store.st.nextOrderLineID++
		o.Lines[i].OrderID = o.ID
	}
	stored := *o
	stored.Lines = make([]domain.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		l.Product = nil
		stored.Lines[i] = l
	}
	mo.store.st.ordersByID[o.ID] = stored
	return nil
}

func (mo *MemoryOrders) withProducts(o domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		if p, ok := mo.store.st.productsByID[l.ProductID]; ok {
			cp := p
			l.Product = &cp
		}
		lines[i] = l
	}
	o.Lines = lines
	return o
}

func (mo *MemoryOrders) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	for _, o := range mo.store.st.ordersByID {
		if o.OrderNumber == number {
			cp := mo.withProducts(o)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0)
	for _, o := range mo.store.st.ordersByID {
		if f.UserID != 0 && o.UserID != f.UserID {
			continue
		}
		out = append(out, mo.withProducts(o))
	}
	// новые первыми
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o, ok := mo.store.st.ordersByID[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	mo.store.st.ordersByID[id] = o
	return nil
}
