package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"refuge/internal/auth"
	"refuge/internal/config"
	httpapi "refuge/internal/http"
	"refuge/internal/repository"
	"refuge/internal/repository/gormdb"
	"refuge/internal/service"

	_ "refuge/docs"
)

// @title Refuge API
// @version 1.0
// @description Pet adoption, foster care and shop backend.

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	cf, v, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config")
	}
	logger := newLogger(cf)
	config.Watch(v, func(next *config.Config, err error) {
		if err != nil {
			logger.Error().Err(err).Msg("config reload rejected")
			return
		}
		if lvl, err := zerolog.ParseLevel(next.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
			logger.Info().Str("level", lvl.String()).Msg("config reloaded")
		}
	})
	gin.SetMode(cf.GinMode)

	svcs, closeStore, err := buildServices(cf, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cf.DBDriver).Msg("storage")
	}
	defer closeStore()

	srv := httpapi.NewServer(svcs, auth.NewVerifier(cf.JWTSecret), httpapi.Options{
		Logger:      logger,
		CORSOrigins: cf.Origins(),
	})

	httpServer := &http.Server{
		Addr:              ":" + cf.ServerPort,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Str("driver", cf.DBDriver).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), cf.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("stopped")
}

func newLogger(cf *config.Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cf.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if cf.LogFormat == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// buildServices собирает сервисы над выбранным хранилищем
func buildServices(cf *config.Config, logger zerolog.Logger) (httpapi.Services, func(), error) {
	orderOpts := service.OrderOptions{MaxAttempts: cf.CheckoutMaxAttempts, Logger: logger}

	if cf.DBDriver == "memory" {
		store := repository.NewMemoryStore()
		tx := repository.NewMemoryTx(store)
		counters := repository.NewMemoryCounters(store)
		carts := repository.NewMemoryCarts(store)
		users := repository.NewMemoryUsers(store)
		animals := repository.NewMemoryAnimals(store)
		notes := service.NewNotificationService(repository.NewMemoryNotifications(store))
		return httpapi.Services{
			Products:      service.NewProductService(store, counters, tx),
			Carts:         service.NewCartService(store, carts, tx),
			Orders:        service.NewOrderService(store, carts, repository.NewMemoryOrders(store), counters, users, notes, tx, orderOpts),
			Animals:       service.NewAnimalService(animals),
			Requests:      service.NewRequestService(repository.NewMemoryRequests(store), animals, notes, tx, logger),
			Notifications: notes,
			Users:         service.NewUserService(users, tx),
		}, func() {}, nil
	}

	opts := gormdb.Options{Driver: cf.DBDriver, Logger: logger}
	if cf.DBDriver == gormdb.DriverSQLite {
		opts.DSN = gormdb.SQLiteDSN(cf.SQLitePath)
	} else {
		opts.DSN = cf.PostgresDSN()
	}
	db, err := gormdb.Open(opts)
	if err != nil {
		return httpapi.Services{}, nil, err
	}
	if err := gormdb.Migrate(db); err != nil {
		return httpapi.Services{}, nil, err
	}
	st := gormdb.NewStore(db)
	notes := service.NewNotificationService(st.Notifications)
	closeStore := func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("close db")
		}
	}
	return httpapi.Services{
		Products:      service.NewProductService(st.Products, st.Counters, st.Tx),
		Carts:         service.NewCartService(st.Products, st.Carts, st.Tx),
		Orders:        service.NewOrderService(st.Products, st.Carts, st.Orders, st.Counters, st.Users, notes, st.Tx, orderOpts),
		Animals:       service.NewAnimalService(st.Animals),
		Requests:      service.NewRequestService(st.Requests, st.Animals, notes, st.Tx, logger),
		Notifications: notes,
		Users:         service.NewUserService(st.Users, st.Tx),
	}, closeStore, nil
}
