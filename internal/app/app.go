package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wsanec-lang/sencoten-backend/internal/clients/redis"
	"github.com/wsanec-lang/sencoten-backend/internal/db"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/sse"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *sse.Hub

	bus    redis.Bus
	cancel context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	database, err := db.New(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := database.DB()

	hub := sse.NewHub(log)

	// Redis fans entry change events out across replicas. Without it the hub
	// alone serves a single process.
	var bus redis.Bus
	if cfg.RedisAddr != "" {
		bus, err = redis.NewBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			log.Warn("Redis unavailable, change feed is process-local", "addr", cfg.RedisAddr, "error", err)
			bus = nil
		}
	}

	images, err := resolveImageStore(context.Background(), log, cfg)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init image storage: %w", err)
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, hub, bus, images)
	if err != nil {
		log.Sync()
		return nil, err
	}

	if cfg.BootstrapPassword != "" {
		if err := serviceset.Auth.EnsureBootstrapUser(context.Background(),
			cfg.BootstrapUsername, cfg.BootstrapPassword, cfg.BootstrapDisplayName); err != nil {
			log.Sync()
			return nil, fmt.Errorf("bootstrap user: %w", err)
		}
	}

	handlerset := wireHandlers(log, serviceset, hub)
	mw := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, mw)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Hub:      hub,
		bus:      bus,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.bus != nil {
		if err := a.bus.StartForwarder(ctx, func(m sse.Message) {
			a.Hub.Broadcast(m)
		}); err != nil {
			a.Log.Error("Failed to start redis forwarder", "error", err)
		}
	}
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.Log.Error("Failed to close redis bus", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
