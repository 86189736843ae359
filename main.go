package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/accounts"
	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/controllers"
	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/routes"
	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/session"
	"github.com/shankarbhopany2-max/shankar-todo-application/config"
	"github.com/shankarbhopany2-max/shankar-todo-application/database"
	"github.com/shankarbhopany2-max/shankar-todo-application/handlers"
	"github.com/shankarbhopany2-max/shankar-todo-application/internal/logger"
	"github.com/shankarbhopany2-max/shankar-todo-application/internal/util"
	"github.com/shankarbhopany2-max/shankar-todo-application/repositories"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	store, closeStore := sessionStore(ctx, cfg, log)
	defer closeStore()

	sessions, err := session.NewManager(session.Config{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}, store, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up sessions")
	}

	accountStore := repositories.NewAccountStore(db)
	accountService := accounts.NewService(accountStore, util.NewHasher(cfg.BcryptCost), log)

	app := routes.NewApp(routes.Deps{
		Auth:     controllers.NewAuthController(accountService, sessions, log),
		Todo:     handlers.NewTodoHandler(accountStore, repositories.NewTaskStore(db), sessions, log),
		Sessions: sessions,
		Log:      log,
	})

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	log.WithField("port", cfg.Port).Info("Starting server...")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped")
}

func sessionStore(ctx context.Context, cfg config.Config, log *logrus.Entry) (session.Store, func()) {
	if cfg.SessionStore != config.StoreRedis {
		log.Warn("Using in-memory session store; sessions are lost on restart")
		return session.NewMemoryStore(), func() {}
	}

	rdb, err := database.ConnectRedis(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	return session.NewRedisStore(rdb), func() { _ = rdb.Close() }
}
