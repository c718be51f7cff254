package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	bookingpb "github.com/Leganyst/grooming-booking/internal/api/booking/v1"
	"github.com/Leganyst/grooming-booking/internal/booking"
	"github.com/Leganyst/grooming-booking/internal/cache"
	"github.com/Leganyst/grooming-booking/internal/calendar"
	"github.com/Leganyst/grooming-booking/internal/catalog"
	"github.com/Leganyst/grooming-booking/internal/config"
	"github.com/Leganyst/grooming-booking/internal/db"
	"github.com/Leganyst/grooming-booking/internal/events"
	"github.com/Leganyst/grooming-booking/internal/model"
	"github.com/Leganyst/grooming-booking/internal/repository"
	"github.com/Leganyst/grooming-booking/internal/service"
	"github.com/Leganyst/grooming-booking/internal/transport"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.NewEntry(logger).WithField("app", "grooming-booking")

	// 1. Конфиг из env и .env.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if lvl, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	loc, err := cfg.App.Location()
	if err != nil {
		log.WithError(err).Fatal("load timezone")
	}

	// 2. БД и миграции.
	gormDB, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("init db")
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		log.WithError(err).Fatal("auto migrate")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.WithError(err).Fatal("sql DB")
	}
	defer sqlDB.Close()

	ctx := context.Background()

	// 3. Каталог и движок бронирования.
	cat := catalog.New(gormDB, log)
	opts := []booking.Option{booking.WithLogger(log)}

	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			// без кэша всё работает, просто медленнее
			log.WithError(err).Warn("redis unavailable, slot cache disabled")
		} else {
			defer client.Close()
			opts = append(opts, booking.WithSlotCache(cache.NewSlotCache(client, cfg.Redis.SlotsTTL)))
		}
	}

	if cfg.AMQP.URL != "" {
		pub, err := events.NewPublisher(&cfg.AMQP, log)
		if err != nil {
			log.WithError(err).Fatal("init event publisher")
		}
		defer pub.Close()
		opts = append(opts, booking.WithNotifier(pub))
	} else {
		opts = append(opts, booking.WithNotifier(events.NewLogNotifier(log)))
	}

	engine := booking.NewEngine(
		gormDB,
		cat,
		repository.NewGormCustomerRepository(gormDB),
		calendar.NewSystemClock(loc),
		opts...,
	)

	// 4. gRPC.
	grpcServer := grpc.NewServer()
	bookingpb.RegisterBookingServiceServer(grpcServer, service.NewBookingService(engine, log))
	bookingpb.RegisterCatalogServiceServer(grpcServer, service.NewCatalogService(cat))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.WithError(err).Fatalf("listen %s", cfg.GRPC.Addr)
	}
	go func() {
		log.Infof("gRPC server listening on %s", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			log.WithError(err).Fatal("grpc serve")
		}
	}()

	// 5. HTTP.
	router := transport.InitRoutes(
		transport.NewBookingHandler(engine, log),
		transport.NewCatalogHandler(cat, log),
		transport.NewAdminHandler(engine, cat, log),
		log,
		cfg.HTTP.WriteTimeout,
		cfg.HTTP.AllowOrigins,
	)
	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http serve")
		}
	}()

	// 6. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down...")
	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	grpcServer.GracefulStop()
}
