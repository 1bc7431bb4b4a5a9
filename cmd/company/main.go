package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RainCode98/simbiz101/internal/company/auth"
	"github.com/RainCode98/simbiz101/internal/company/config"
	"github.com/RainCode98/simbiz101/internal/company/controller"
	gorm "github.com/RainCode98/simbiz101/internal/company/db"
	"github.com/RainCode98/simbiz101/internal/company/db/memory"
	"github.com/RainCode98/simbiz101/internal/company/events"
	"github.com/RainCode98/simbiz101/internal/company/handlers"
	"github.com/RainCode98/simbiz101/internal/company/scheduler"
	"github.com/RainCode98/simbiz101/internal/pkg/clock"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// eventSink is a producer the process owns and must close.
type eventSink interface {
	controller.EventProducer
	Close()
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := initProducer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	clk := clock.Real{}
	companySvc := controller.NewCompanyService(repo, producer, clk, controller.Config{
		StartingCapital: cfg.StartingCapital,
	}, logger)

	guard, closeGuard := initGuard(cfg, logger)
	defer closeGuard()

	sched := scheduler.New(companySvc, guard, clk, scheduler.Config{
		PaymentInterval: cfg.PaymentInterval,
		PayrollInterval: cfg.PayrollInterval,
	}, logger)
	sched.Start()
	defer sched.Stop()

	companyHandler := handlers.NewCompanyHandler(companySvc, logger)
	authInterceptor := auth.NewAuthInterceptor(cfg.JWTSecret)
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger,
		grpc.ChainUnaryInterceptor(authInterceptor.Unary()))
	server.RegisterGRPCHandler(companyHandler)
	if err := server.RegisterHTTPGateway(companyHandler, handlers.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSOrigins,
	}); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(server, errCh, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// openStore connects the configured ledger store, retrying the database
// connection with exponential backoff until DB_CONNECT_TIMEOUT.
func openStore(cfg *config.Config, logger *zap.Logger) (controller.Repository, error) {
	if cfg.DBDriver == "memory" {
		logger.Warn("using the in-memory store; state is lost on restart")
		return memory.NewStore(), nil
	}

	dbConf := &gorm.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBSQLitePath,
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.DBConnectTimeout

	var repo *gorm.Repository
	err := backoff.RetryNotify(func() error {
		r, err := gorm.NewRepository(dbConf)
		if err != nil {
			return err
		}
		repo = r
		return nil
	}, b, func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying",
			zap.Error(err),
			zap.Duration("wait", wait),
		)
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func initProducer(cfg *config.Config, logger *zap.Logger) (eventSink, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("no Kafka brokers configured; finance events are discarded")
		return events.Discard{}, nil
	}
	return events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
}

// initGuard returns the redis tick guard when REDIS_ADDR is set. An
// unreachable redis only degrades the guard; ticks still run.
func initGuard(cfg *config.Config, logger *zap.Logger) (scheduler.Guard, func()) {
	if cfg.RedisAddr == "" {
		return scheduler.NopGuard{}, func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable; payroll ticks run unguarded until it recovers", zap.Error(err))
	}

	return scheduler.NewRedisGuard(rdb, cfg.RedisPrefix, logger), func() {
		if err := rdb.Close(); err != nil {
			logger.Error("failed to close redis client", zap.Error(err))
		}
	}
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, or the
// servers fail, then shuts the servers down.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Servers stopped properly")
}
