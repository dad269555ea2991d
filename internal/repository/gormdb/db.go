// Package gormdb implements the repository interfaces on top of gorm.
// Postgres is the production driver; sqlite serves local runs and tests.
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options параметры подключения
type Options struct {
	Driver        string
	DSN           string
	SlowThreshold time.Duration
	Logger        zerolog.Logger
}

// Open открывает соединение и включает трансляцию ошибок драйвера в ошибки gorm
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", opts.Driver)
	}

	slow := opts.SlowThreshold
	if slow == 0 {
		slow = 200 * time.Millisecond
	}
	lg := opts.Logger.With().Str("component", "gorm").Logger()
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(&lg, gormlogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	if opts.Driver == DriverSQLite {
		// sqlite допускает одного писателя; одно соединение сериализует транзакции
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// SQLiteDSN путь к файлу с включёнными внешними ключами
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Migrate создаёт схему
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.Cart{},
		&domain.CartLine{},
		&domain.Order{},
		&domain.OrderLine{},
		&domain.Animal{},
		&domain.AnimalRequest{},
		&domain.Notification{},
		&Counter{},
	)
}

type txKey struct{}

type base struct{ db *gorm.DB }

// conn возвращает транзакцию из контекста либо обычное соединение
func (b base) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return b.db.WithContext(ctx)
}

// TxManager кладёт *gorm.DB транзакции в контекст; репозитории берут её через conn
type TxManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) *TxManager { return &TxManager{db: db} }

var _ repository.TxManager = (*TxManager)(nil)

func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

// Store собирает все репозитории над одним соединением
type Store struct {
	DB            *gorm.DB
	Tx            *TxManager
	Products      *Products
	Carts         *Carts
	Orders        *Orders
	Counters      *Counters
	Users         *Users
	Animals       *Animals
	Requests      *Requests
	Notifications *Notifications
}

func NewStore(db *gorm.DB) *Store {
	b := base{db: db}
	return &Store{
		DB:            db,
		Tx:            NewTxManager(db),
		Products:      &Products{b},
		Carts:         &Carts{b},
		Orders:        &Orders{b},
		Counters:      &Counters{b},
		Users:         &Users{b},
		Animals:       &Animals{b},
		Requests:      &Requests{b},
		Notifications: &Notifications{b},
	}
}

// Close закрывает пул соединений
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
