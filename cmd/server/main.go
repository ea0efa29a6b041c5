package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/config"
	"github.com/ray-remotestate/swiftserve/database"
	"github.com/ray-remotestate/swiftserve/database/dbhelper"
	"github.com/ray-remotestate/swiftserve/database/memstore"
	"github.com/ray-remotestate/swiftserve/handlers"
	"github.com/ray-remotestate/swiftserve/middlewares"
	"github.com/ray-remotestate/swiftserve/notify"
	"github.com/ray-remotestate/swiftserve/realtime"
	"github.com/ray-remotestate/swiftserve/seed"
	"github.com/ray-remotestate/swiftserve/server"
	"github.com/ray-remotestate/swiftserve/services"
	"github.com/ray-remotestate/swiftserve/utils"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of a password for STAFF_PASSWORD_HASH/ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := utils.HashPassword(*hashPassword)
		if err != nil {
			logrus.Fatalf("failed to hash password, error: %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config, error: %v", err)
	}
	cfg.SetupLogging()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore := openStore(cfg.DB)
	defer closeStore()

	if cfg.DB.SeedMenu {
		if _, err := seed.Menu(ctx, store); err != nil {
			logrus.WithError(err).Error("failed to seed menu")
		}
	}

	hub := realtime.NewHub()
	defer hub.Close()

	var broadcaster services.Publisher = hub
	if cfg.Redis.Addr != "" {
		relay := realtime.NewRelay(cfg.Redis, hub)
		defer relay.Close()
		if err := relay.Ping(ctx); err != nil {
			logrus.WithError(err).Fatal("failed to reach redis")
		}
		go func() {
			if err := relay.Run(ctx); err != nil {
				logrus.WithError(err).Error("redis relay stopped")
			}
		}()
		broadcaster = relay
	}

	events := services.Fanout{broadcaster}
	if cfg.Telegram.Token != "" {
		notifier, err := notify.New(cfg.Telegram)
		if err != nil {
			logrus.WithError(err).Fatal("failed to start telegram notifier")
		}
		go notifier.Run(ctx)
		events = append(events, notifier)
	}

	svc := services.New(store, events, services.WithMaxTables(cfg.MaxTables))

	auth := middlewares.NewAuth(nil)
	opts := handlers.Options{
		StaffPasswordHash: cfg.Auth.StaffPasswordHash,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		SecureCookies:     cfg.Auth.SecureCookies,
		Database:          cfg.DB.Driver,
		Realtime:          hub,
	}
	if cfg.Auth.Enabled() {
		opts.Issuer = utils.NewTokenIssuer(cfg.Auth.SecretKey)
		auth = middlewares.NewAuth(opts.Issuer)
	} else {
		logrus.Warn("JWT_SECRET_KEY is not set, staff routes are open")
	}

	srv := server.SetupRoutes(server.Deps{
		Handler:     handlers.New(svc, opts),
		Auth:        auth,
		Limiter:     middlewares.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Realtime:    hub.Handler(),
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		logrus.Infof("server listening on %s", cfg.Port)
		if err := srv.Run(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panicf("failed to run server, error: %v", err)
		}
	}()

	<-done

	logrus.Info("shutting down...")
	cancel()
	if err := srv.Shutdown(cfg.ShutdownTimeout); err != nil {
		logrus.WithError(err).Error("failed to shut down server gracefully")
	}
	logrus.Info("server stopped")
}

type repository interface {
	services.Store
	seed.MenuSeeder
}

func openStore(cfg config.DBConfig) (repository, func()) {
	if cfg.Driver == "memory" {
		logrus.Info("using in-memory store, data is lost on restart")
		return memstore.New(), func() {}
	}

	db, err := database.ConnectAndMigrate(cfg)
	if err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.WithField("driver", cfg.Driver).Info("database ready")

	return dbhelper.New(db), func() {
		if err := db.Shutdown(); err != nil {
			logrus.WithError(err).Error("failed to close database connection")
		}
	}
}
