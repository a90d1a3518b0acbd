package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"       // .env loader
	"github.com/labstack/echo/v4"    // Echo web framework
	"github.com/labstack/gommon/log" // Leveled logger shared with Echo
	"github.com/redis/go-redis/v9"   // Optional Redis client

	"github.com/iliyamo/hall-seating/internal/config"     // Internal config loader
	"github.com/iliyamo/hall-seating/internal/database"   // MySQL connection
	"github.com/iliyamo/hall-seating/internal/handler"    // HTTP handlers
	"github.com/iliyamo/hall-seating/internal/middleware" // Redis middlewares
	"github.com/iliyamo/hall-seating/internal/queue"      // Booking events
	"github.com/iliyamo/hall-seating/internal/repository" // MySQL key/value table
	"github.com/iliyamo/hall-seating/internal/router"     // Internal router setup
	"github.com/iliyamo/hall-seating/internal/seating"    // Planner
	"github.com/iliyamo/hall-seating/internal/storage"    // Persistence bridge
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) { // .env is optional
		log.Warnf("could not read .env: %v", err)
	}
	cfg := config.Load() // Load environment config

	logger := log.New("seating") // One logger for Echo and the planner
	logger.SetLevel(cfg.Level())
	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.StoreDriver == config.DriverRedis || config.LoadRateLimitConfig().Enabled || config.LoadCacheConfig().Enabled {
		rdb = config.NewRedisClient() // nil when Redis is unreachable
		if rdb == nil {
			logger.Warnf("redis unreachable at %s", config.RedisOptions().Addr)
		} else {
			defer rdb.Close()
		}
	}

	store, closeStore := openStore(cfg, rdb, logger)
	defer closeStore()
	bridge := storage.NewBridge(store, cfg.StorePrefix)

	planner := seating.New(bridge, logger, cfg.SaveTimeout)
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err := planner.Load(loadCtx)
	cancel()
	if err != nil {
		logger.Fatalf("load planner state: %v", err)
	}

	var events handler.BookingPublisher
	if cfg.BookingEventsEnabled {
		events = queue.NewPublisher(queue.BrokerURL(), logger)
	}
	if cfg.BookingConsumerEnabled {
		consumer := &queue.Consumer{URL: queue.BrokerURL(), LogDir: cfg.BookingLogDir, Log: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("booking-consumer stopped: %v", err)
			}
		}()
	}

	var mw router.Middleware
	if rdb != nil {
		if rl := config.LoadRateLimitConfig(); rl.Enabled {
			mw.BookingRate = middleware.NewTokenBucket(rl, rdb)
		}
		if cc := config.LoadCacheConfig(); cc.Enabled {
			mw.Cache = middleware.NewRedisCache(cc, rdb)
		}
	}

	router.RegisterRoutes(e) // Register application routes
	router.RegisterAPI(e, router.Handlers{
		Hall:    handler.NewHallHandler(planner),
		Booking: handler.NewBookingHandler(planner, events),
		Groups:  handler.NewGroupHandler(planner),
		Prefs:   handler.NewPrefsHandler(bridge),
	}, mw)

	addr := ":" + cfg.Port // Address string with port
	logger.Infof("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) { // Start HTTP server
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

// openStore builds the key/value store named by STORE_DRIVER.  The returned
// func releases whatever the store holds open.
func openStore(cfg config.Config, rdb *redis.Client, logger *log.Logger) (storage.Store, func()) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warnf("memory store: the hall is lost on restart")
		return storage.NewMemoryStore(), func() {}
	case config.DriverRedis:
		if rdb == nil {
			logger.Fatalf("STORE_DRIVER=redis but redis is unreachable")
		}
		return storage.NewRedisStore(rdb), func() {}
	case config.DriverMySQL:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			logger.Fatalf("mysql: %v", err)
		}
		repo := repository.NewKVRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatalf("mysql schema: %v", err)
		}
		return repo, func() { _ = db.Close() }
	default:
		fs, err := storage.NewFileStore(cfg.StoreDir)
		if err != nil {
			logger.Fatalf("file store: %v", err)
		}
		return fs, func() {}
	}
}
