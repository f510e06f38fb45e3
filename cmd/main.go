package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/cache"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/config"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/directory"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/handlers"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/notify"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/scheduler"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/selector"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/service"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/storage"
)

func main() {
	zlog, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	cfg := config.Load()

	// Durable store, and the collaborator directory that rides along with it.
	var store storage.Store
	var dir interface {
		directory.Users
		directory.Engagements
		directory.Notes
	}

	switch cfg.Storage {
	case "memory":
		logger.Infow("using memory storage")
		store = storage.NewMemoryStore()
		dir = directory.NewMemoryDirectory()
	case "sqlite":
		logger.Infow("using SQLite storage", "path", cfg.SQLitePath)
		sqliteStore, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			logger.Fatalw("failed to initialize SQLite storage", "err", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		dir = directory.NewMemoryDirectory()
		logger.Warnw("SQLite storage has no collaborator data; assignment will find no users")
	case "mongo":
		logger.Infow("using MongoDB storage", "uri", cfg.MongoURI, "db", cfg.MongoDB)
		mongoStore, err := storage.NewMongoStore(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Fatalw("failed to initialize MongoDB storage", "err", err)
		}
		defer mongoStore.Close(context.Background())
		store = mongoStore
		dir = directory.NewMongoDirectory(mongoStore.Database())
	default:
		logger.Fatalw("invalid storage type", "storage", cfg.Storage)
	}

	// Cache is optional: without Redis the service still answers from the
	// store alone.
	var reminderCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			logger.Fatalw("failed to connect to Redis", "addr", cfg.RedisAddr, "err", err)
		}
		defer redisCache.Close()
		reminderCache = redisCache
	} else {
		logger.Warnw("REDIS_ADDR not set, using in-process cache")
		reminderCache = cache.NewMemoryCache()
	}

	var notifier notify.Notifier
	if cfg.SlackToken != "" {
		notifier = notify.NewSlackNotifier(cfg.SlackToken, cfg.AlertChannel)
	} else {
		logger.Warnw("SLACK_TOKEN not set, alerts go to the log")
		notifier = &notify.LogNotifier{Logger: logger}
	}

	clk := clock.New()

	sched := scheduler.New(dir, selector.New(dir, dir), store, reminderCache, notifier, clk, scheduler.Config{
		AssignSpec:          cfg.AssignCron,
		WarmSpec:            cfg.WarmCron,
		UserChunkSize:       cfg.UserChunkSize,
		MaxAttempts:         cfg.MaxAssignAttempts,
		RetryPause:          cfg.AssignRetryPause,
		CacheWriteBatchSize: cfg.CacheWriteBatchSize,
		Location:            cfg.LocalTimezone,
	}, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalw("scheduler start failed", "err", err)
	}

	svc := service.New(store, reminderCache, clk, cfg.LocalTimezone, logger)
	h := handlers.New(svc, logger)

	r := mux.NewRouter()
	r.HandleFunc("/reminders/today", h.GetTodayHandler).Methods("GET")
	r.HandleFunc("/reminders/dismiss", h.DismissHandler).Methods("POST")
	r.HandleFunc("/reminders/modal-closed", h.ModalClosedHandler).Methods("POST")

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server error", "err", err)
		}
	}()

	waitForShutdown(server, sched, logger)
}

func waitForShutdown(server *http.Server, sched *scheduler.Scheduler, logger *zap.SugaredLogger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorw("server shutdown error", "err", err)
	}
	sched.Stop()
}
