package gormdb

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"refuge/internal/domain"
	"refuge/internal/repository"
	"refuge/internal/service"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	seq   int64
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	path := filepath.Join(s.T().TempDir(), "refuge.db")
	db, err := Open(Options{Driver: DriverSQLite, DSN: SQLiteDSN(path), Logger: zerolog.Nop()})
	s.Require().NoError(err)
	s.Require().NoError(Migrate(db))
	s.store = NewStore(db)
	s.ctx = context.Background()
	s.seq = 0
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *StoreSuite) product(name, price string, stock int64) *domain.Product {
	s.seq++
	p := &domain.Product{
		SerialNumber: repository.FormatCode("T", s.seq),
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Stock:        stock,
		Category:     domain.CategoryNutrition,
	}
	s.Require().NoError(s.store.Products.Create(s.ctx, p))
	return p
}

func (s *StoreSuite) user(id int64) {
	s.Require().NoError(s.store.Users.Ensure(s.ctx, &domain.User{ID: id, Email: "u@example.com", Role: domain.RoleOwner}))
}

func (s *StoreSuite) TestProducts_CRUDAndList() {
	a := s.product("Croquettes chat", "20.00", 3)
	s.product("Shampooing", "9.90", 1)
	s.product("Croquettes chien", "25.00", 2)

	got, err := s.store.Products.GetByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal("20", got.Price.String())

	list, err := s.store.Products.List(s.ctx, repository.ProductFilter{NameSubstring: "croq", OrderBy: "-price"})
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Croquettes chien", list[0].Name)

	page, err := s.store.Products.List(s.ctx, repository.ProductFilter{Page: 2, PageSize: 2})
	s.Require().NoError(err)
	s.Len(page, 1)

	got.Stock = 0
	got.Name = "Croquettes chaton"
	s.Require().NoError(s.store.Products.Update(s.ctx, got))
	again, _ := s.store.Products.GetByID(s.ctx, a.ID)
	s.Equal(int64(0), again.Stock)
	s.Equal("Croquettes chaton", again.Name)

	s.ErrorIs(s.store.Products.Update(s.ctx, &domain.Product{ID: 999, Name: "x"}), repository.ErrNotFound)
	s.Require().NoError(s.store.Products.Delete(s.ctx, a.ID))
	_, err = s.store.Products.GetByID(s.ctx, a.ID)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *StoreSuite) TestProducts_DuplicateSerialIsConflict() {
	s.Require().NoError(s.store.Products.Create(s.ctx, &domain.Product{SerialNumber: "PROD-0001", Name: "a", Category: domain.CategoryHygiene}))
	err := s.store.Products.Create(s.ctx, &domain.Product{SerialNumber: "PROD-0001", Name: "b", Category: domain.CategoryHygiene})
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *StoreSuite) TestDecrementStockIsConditional() {
	p := s.product("A", "1", 2)
	s.Require().NoError(s.store.Products.DecrementStock(s.ctx, p.ID, 2))
	s.ErrorIs(s.store.Products.DecrementStock(s.ctx, p.ID, 1), repository.ErrStockConflict)
	s.ErrorIs(s.store.Products.DecrementStock(s.ctx, 999, 1), repository.ErrNotFound)
	s.ErrorIs(s.store.Products.DecrementStock(s.ctx, p.ID, -2), domain.ErrValidation)
	got, _ := s.store.Products.GetByID(s.ctx, p.ID)
	s.Equal(int64(0), got.Stock)
}

func (s *StoreSuite) TestCounters_Monotonic() {
	for want := int64(1); want <= 3; want++ {
		n, err := s.store.Counters.Next(s.ctx, repository.CounterOrder)
		s.Require().NoError(err)
		s.Equal(want, n)
	}
	n, err := s.store.Counters.Next(s.ctx, repository.CounterProduct)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *StoreSuite) TestTransactionRollsBack() {
	p := s.product("A", "1", 5)
	boom := errors.New("boom")
	err := s.store.Tx.WithTransaction(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.Products.DecrementStock(ctx, p.ID, 3))
		_, err := s.store.Counters.Next(ctx, repository.CounterOrder)
		s.Require().NoError(err)
		return boom
	})
	s.ErrorIs(err, boom)
	got, _ := s.store.Products.GetByID(s.ctx, p.ID)
	s.Equal(int64(5), got.Stock)
	n, _ := s.store.Counters.Next(s.ctx, repository.CounterOrder)
	s.Equal(int64(1), n)
}

func (s *StoreSuite) TestCarts_UpsertMergesAndOverwrites() {
	s.user(1)
	p := s.product("A", "1", 5)
	cart, err := s.store.Carts.GetOrCreate(s.ctx, 1)
	s.Require().NoError(err)
	again, err := s.store.Carts.GetOrCreate(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(cart.ID, again.ID)

	_, err = s.store.Carts.AddQuantity(s.ctx, cart.ID, p.ID, 2)
	s.Require().NoError(err)
	line, err := s.store.Carts.AddQuantity(s.ctx, cart.ID, p.ID, 3)
	s.Require().NoError(err)
	s.Equal(int64(5), line.Quantity)

	line, err = s.store.Carts.SetQuantity(s.ctx, cart.ID, p.ID, 1)
	s.Require().NoError(err)
	s.Equal(int64(1), line.Quantity)

	lines, err := s.store.Carts.Lines(s.ctx, cart.ID)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Require().NotNil(lines[0].Product)
	s.Equal("A", lines[0].Product.Name)

	deleted, err := s.store.Carts.DeleteLine(s.ctx, cart.ID, p.ID)
	s.Require().NoError(err)
	s.True(deleted)
	deleted, err = s.store.Carts.DeleteLine(s.ctx, cart.ID, p.ID)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *StoreSuite) TestOrders_CreateAndStatus() {
	s.user(1)
	p := s.product("A", "9.99", 5)
	o := &domain.Order{
		OrderNumber:   "CMD-0001",
		UserID:        1,
		Total:         decimal.RequireFromString("19.98"),
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.DefaultPaymentMethod,
		Lines:         []domain.OrderLine{{ProductID: p.ID, Quantity: 2, UnitPrice: p.Price}},
	}
	s.Require().NoError(s.store.Orders.Create(s.ctx, o))
	dup := &domain.Order{OrderNumber: "CMD-0001", UserID: 1, Total: decimal.Zero, PaymentMethod: "x"}
	s.ErrorIs(s.store.Orders.Create(s.ctx, dup), domain.ErrConflict)

	got, err := s.store.Orders.GetByNumber(s.ctx, "CMD-0001")
	s.Require().NoError(err)
	s.Require().Len(got.Lines, 1)
	s.Equal("19.98", got.Total.StringFixed(2))
	s.Require().NotNil(got.Lines[0].Product)

	s.Require().NoError(s.store.Orders.UpdateStatus(s.ctx, got.ID, domain.OrderStatusPaid))
	got, _ = s.store.Orders.GetByNumber(s.ctx, "CMD-0001")
	s.Equal(domain.OrderStatusPaid, got.Status)

	// товар из журнала заказов не удаляется
	s.ErrorIs(s.store.Products.Delete(s.ctx, p.ID), domain.ErrConflict)
}

func (s *StoreSuite) TestUsers_EnsureKeepsProfileAndDeleteCascades() {
	s.user(1)
	u, err := s.store.Users.GetByID(s.ctx, 1)
	s.Require().NoError(err)
	u.Address = "1 rue des Lilas"
	s.Require().NoError(s.store.Users.Update(s.ctx, u))
	s.user(1)
	u, _ = s.store.Users.GetByID(s.ctx, 1)
	s.Equal("1 rue des Lilas", u.Address)

	p := s.product("A", "1", 5)
	cart, _ := s.store.Carts.GetOrCreate(s.ctx, 1)
	_, err = s.store.Carts.AddQuantity(s.ctx, cart.ID, p.ID, 1)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Notifications.Create(s.ctx, &domain.Notification{UserID: 1, Message: "hi"}))

	s.Require().NoError(s.store.Users.Delete(s.ctx, 1))
	_, err = s.store.Users.GetByID(s.ctx, 1)
	s.ErrorIs(err, repository.ErrNotFound)
	_, err = s.store.Carts.GetByUser(s.ctx, 1)
	s.ErrorIs(err, repository.ErrNotFound)
	notes, _ := s.store.Notifications.List(s.ctx, 1, true)
	s.Empty(notes)
}

func (s *StoreSuite) TestAnimalsAndRequests() {
	s.user(1)
	yes := true
	a := &domain.Animal{Name: "Rex", Species: "Chien", Sex: domain.SexMale, AvailableForAdoption: true, CareType: domain.CareTemporary}
	s.Require().NoError(s.store.Animals.Create(s.ctx, a))
	s.Require().NoError(s.store.Animals.Create(s.ctx, &domain.Animal{Name: "Tom", Species: "Chat", Sex: domain.SexMale, CareType: domain.CarePermanent}))

	list, err := s.store.Animals.List(s.ctx, repository.AnimalFilter{AvailableForAdoption: &yes})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Rex", list[0].Name)

	req := &domain.AnimalRequest{Kind: domain.RequestAdoption, AnimalID: a.ID, UserID: 1}
	s.Require().NoError(s.store.Requests.Create(s.ctx, req))
	s.Equal(domain.RequestPending, req.Status)
	got, err := s.store.Requests.GetByID(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Animal)
	s.Equal("Rex", got.Animal.Name)

	s.Require().NoError(s.store.Requests.UpdateStatus(s.ctx, req.ID, domain.RequestAccepted))
	mine, _ := s.store.Requests.List(s.ctx, repository.RequestFilter{UserID: 1, Status: domain.RequestAccepted})
	s.Len(mine, 1)

	s.Require().NoError(s.store.Animals.Delete(s.ctx, a.ID))
	_, err = s.store.Requests.GetByID(s.ctx, req.ID)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *StoreSuite) TestNotifications_ReadFlags() {
	s.user(1)
	s.user(2)
	n := &domain.Notification{UserID: 1, Message: "one"}
	s.Require().NoError(s.store.Notifications.Create(s.ctx, n))
	s.Require().NoError(s.store.Notifications.Create(s.ctx, &domain.Notification{UserID: 1, Message: "two"}))

	s.ErrorIs(s.store.Notifications.MarkRead(s.ctx, 2, n.ID), repository.ErrNotFound)
	s.Require().NoError(s.store.Notifications.MarkRead(s.ctx, 1, n.ID))
	unread, _ := s.store.Notifications.List(s.ctx, 1, false)
	s.Len(unread, 1)
	updated, err := s.store.Notifications.MarkAllRead(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(1), updated)
}

// Полный сценарий оформления поверх sqlite
func (s *StoreSuite) TestCheckout_EndToEnd() {
	st := s.store
	notes := service.NewNotificationService(st.Notifications)
	carts := service.NewCartService(st.Products, st.Carts, st.Tx)
	orders := service.NewOrderService(st.Products, st.Carts, st.Orders, st.Counters, st.Users, notes, st.Tx,
		service.OrderOptions{Logger: zerolog.Nop()})

	p := s.product("Friandises", "9.99", 2)
	const buyers = 4
	for i := int64(1); i <= buyers; i++ {
		s.user(i)
		_, err := carts.AddItem(s.ctx, i, p.ID, 1)
		s.Require().NoError(err)
	}
	_, err := carts.SetQuantity(s.ctx, 1, p.ID, 2)
	s.Require().NoError(err)

	o, err := orders.Checkout(s.ctx, 1, service.CheckoutInput{})
	s.Require().NoError(err)
	s.Equal("CMD-0001", o.OrderNumber)
	s.Equal("19.98", o.Total.StringFixed(2))

	var wg sync.WaitGroup
	errs := make(chan error, buyers-1)
	for i := int64(2); i <= buyers; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_, err := orders.Checkout(s.ctx, user, service.CheckoutInput{})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.ErrorIs(err, domain.ErrInsufficientStock)
	}

	got, _ := st.Products.GetByID(s.ctx, p.ID)
	s.Equal(int64(0), got.Stock)
	all, _ := st.Orders.List(s.ctx, repository.OrderFilter{})
	s.Len(all, 1)
}

func (s *StoreSuite) TestCart_QuantityCeiling() {
	s.user(1)
	p := s.product("A", "9.99", 5)
	carts := service.NewCartService(s.store.Products, s.store.Carts, s.store.Tx)

	_, err := carts.AddItem(s.ctx, 1, p.ID, math.MaxInt64)
	s.ErrorIs(err, domain.ErrValidation)
	_, err = carts.AddItem(s.ctx, 1, p.ID, domain.MaxLineQuantity)
	s.Require().NoError(err)
	_, err = carts.AddItem(s.ctx, 1, p.ID, domain.MaxLineQuantity)
	s.ErrorIs(err, domain.ErrValidation)

	view, err := carts.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(view.Lines, 1)
	s.Equal(domain.MaxLineQuantity, view.Lines[0].Quantity)
}

func TestSQLiteDSN(t *testing.T) {
	require.Contains(t, SQLiteDSN("/tmp/x.db"), "foreign_keys(1)")
}
