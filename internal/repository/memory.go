package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"refuge/internal/domain"
)

// memState все таблицы in-memory хранилища; копируется целиком для отката транзакции
type memState struct {
	nextProdID      int64
	nextCartID      int64
	nextLineID      int64
	nextOrderID     int64
	nextOrderLineID int64
	nextAnimalID    int64
	nextRequestID   int64
	nextNotifID     int64

	productsByID  map[int64]domain.Product
	cartsByID     map[int64]domain.Cart
	cartLinesByID map[int64]domain.CartLine
	ordersByID    map[int64]domain.Order
	usersByID     map[int64]domain.User
	animalsByID   map[int64]domain.Animal
	requestsByID  map[int64]domain.AnimalRequest
	notifsByID    map[int64]domain.Notification
	counters      map[string]int64
}

func newMemState() *memState {
	return &memState{
		nextProdID:      1,
		nextCartID:      1,
		nextLineID:      1,
		nextOrderID:     1,
		nextOrderLineID: 1,
		nextAnimalID:    1,
		nextRequestID:   1,
		nextNotifID:     1,
		productsByID:    make(map[int64]domain.Product),
		cartsByID:       make(map[int64]domain.Cart),
		cartLinesByID:   make(map[int64]domain.CartLine),
		ordersByID:      make(map[int64]domain.Order),
		usersByID:       make(map[int64]domain.User),
		animalsByID:     make(map[int64]domain.Animal),
		requestsByID:    make(map[int64]domain.AnimalRequest),
		notifsByID:      make(map[int64]domain.Notification),
		counters:        make(map[string]int64),
	}
}

func (s *memState) clone() *memState {
	cp := *s
	cp.productsByID = copyMap(s.productsByID)
	cp.cartsByID = copyMap(s.cartsByID)
	cp.cartLinesByID = copyMap(s.cartLinesByID)
	cp.ordersByID = make(map[int64]domain.Order, len(s.ordersByID))
	for id, o := range s.ordersByID {
		o.Lines = append([]domain.OrderLine(nil), o.Lines...)
		cp.ordersByID[id] = o
	}
	cp.usersByID = copyMap(s.usersByID)
	cp.animalsByID = copyMap(s.animalsByID)
	cp.requestsByID = copyMap(s.requestsByID)
	cp.notifsByID = copyMap(s.notifsByID)
	cp.counters = copyMap(s.counters)
	return &cp
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MemoryStore объединённое in-memory хранилище и простой генератор ID
type MemoryStore struct {
	mu sync.RWMutex
	st *memState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: newMemState()}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if m.serialTaken(p.SerialNumber, 0) {
		return domain.ErrConflict
	}
	p.ID = m.st.nextProdID
	m.st.nextProdID++
	p.CreatedAt = time.Now().UTC()
	m.st.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) serialTaken(serial string, exceptID int64) bool {
	if serial == "" {
		return false
	}
	for id, p := range m.st.productsByID {
		if id != exceptID && p.SerialNumber == serial {
			return true
		}
	}
	return false
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.st.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	old, ok := m.st.productsByID[p.ID]
	if !ok {
		return ErrNotFound
	}
	if m.serialTaken(p.SerialNumber, p.ID) {
		return domain.ErrConflict
	}
	p.CreatedAt = old.CreatedAt
	m.st.productsByID[p.ID] = *p
	return nil
}

// Delete запрещён для товаров из журнала заказов; позиции корзин удаляются каскадно
func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.st.productsByID[id]; !ok {
		return ErrNotFound
	}
	for _, o := range m.st.ordersByID {
		for _, l := range o.Lines {
			if l.ProductID == id {
				return domain.ErrConflict
			}
		}
	}
	for lid, l := range m.st.cartLinesByID {
		if l.ProductID == id {
			delete(m.st.cartLinesByID, lid)
		}
	}
	delete(m.st.productsByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	column, desc, err := ParseOrdering(f.OrderBy)
	if err != nil {
		return nil, err
	}
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0)
	for _, p := range m.st.productsByID {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if !containsIgnoreCase(p.Name, f.NameSubstring) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compareProducts(out[i], out[j], column)
		if c == 0 {
			c = compareInt(out[i].ID, out[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	offset, limit := f.Window()
	if limit == 0 {
		return out, nil
	}
	if offset >= len(out) {
		return []domain.Product{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func compareProducts(a, b domain.Product, column string) int {
	switch column {
	case "name":
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	case "price":
		return a.Price.Cmp(b.Price)
	case "stock":
		return compareInt(a.Stock, b.Stock)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return compareInt(a.ID, b.ID)
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (m *MemoryStore) DecrementStock(ctx context.Context, id int64, qty int64) error {
	if qty <= 0 {
		return domain.Invalid("decrement must be positive, got %d", qty)
	}
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p, ok := m.st.productsByID[id]
	if !ok {
		return ErrNotFound
	}
	if p.Stock < qty {
		return ErrStockConflict
	}
	p.Stock -= qty
	m.st.productsByID[id] = p
	return nil
}

// Counters последовательности номеров поверх MemoryStore
type MemoryCounters struct{ store *MemoryStore }

func NewMemoryCounters(store *MemoryStore) *MemoryCounters { return &MemoryCounters{store: store} }

var _ CounterRepository = (*MemoryCounters)(nil)

func (mc *MemoryCounters) Next(ctx context.Context, name string) (int64, error) {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	mc.store.st.counters[name]++
	return mc.store.st.counters[name], nil
}

// Tx manager: блокировка записи на всё время fn и снимок состояния для отката
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if isTx(ctx) {
		return fn(ctx)
	}
	// помечаем контекст, чтобы репозитории пропускали внутренние локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	snapshot := tx.store.st.clone()
	committed := false
	// откат и при ошибке, и при панике внутри fn
	defer func() {
		if !committed {
			tx.store.st = snapshot
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	committed = true
	return nil
}
