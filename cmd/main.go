package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/config"
	"github.com/oksasatya/devconnector/internal/container"
	"github.com/oksasatya/devconnector/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/devconnector/internal/infrastructure/postgres"
	"github.com/oksasatya/devconnector/internal/infrastructure/search"
	"github.com/oksasatya/devconnector/internal/router"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	// Redis backs the rate limiter; without it limits are off
	if cfg.RateLimitEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		container.SetRedis(rdb)
	}

	// Welcome emails go through RabbitMQ to cmd/email_worker
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer pub.Close()
		container.SetRabbitPub(pub)
	}

	// Elasticsearch is optional; profile search returns nothing without it
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		container.SetES(es)
		container.SetProfileIndex(search.NewProfileIndex(es, cfg.ESProfilesIndex))
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetStore(store)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL))
	container.SetHasher(helpers.NewPasswordHasher(cfg.BcryptCost))

	r, _ := router.New(cfg)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s (store=%s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// openStore builds the repositories for cfg.StoreDriver. The returned func
// releases whatever the driver holds.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (container.Store, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		s := memory.NewStore()
		return container.Store{
			Users:    s.Users(),
			Profiles: s.Profiles(),
			Posts:    s.Posts(),
			Accounts: s,
		}, func() {}, nil
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return container.Store{}, nil, err
		}
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return container.Store{}, nil, err
		}
		container.SetPGPool(pool)
		return container.Store{
			Users:    pginfra.NewUserRepository(pool, cfg.StoreTimeout),
			Profiles: pginfra.NewProfileRepository(pool, cfg.StoreTimeout),
			Posts:    pginfra.NewPostRepository(pool, cfg.StoreTimeout),
			Accounts: pginfra.NewAccountStore(pool, cfg.StoreTimeout),
		}, pool.Close, nil
	default:
		return container.Store{}, nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}
