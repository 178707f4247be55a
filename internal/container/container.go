package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/config"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router wires modules from these singletons; main sets them once at startup.

// Store groups the repositories of the selected storage driver.
type Store struct {
	Users    repo.UserRepository
	Profiles repo.ProfileRepository
	Posts    repo.PostRepository
	Accounts repo.AccountStore
}

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	store       Store

	jwtManager *helpers.JWTManager
	hasher     *helpers.PasswordHasher

	rabbitPub    *helpers.RabbitPublisher
	esClient     *elasticsearch.Client
	profileIndex repo.ProfileIndex
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return logger
}
func SetPGPool(p *pgxpool.Pool) { pgPool = p }
func GetPGPool() *pgxpool.Pool  { return pgPool }

// SetRedis sets the client used for rate limiting; nil disables limits.
func SetRedis(r *redis.Client) { redisClient = r }
func GetRedis() *redis.Client  { return redisClient }
func SetStore(s Store)         { store = s }
func GetStore() Store          { return store }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		c := GetConfig()
		jwtManager = helpers.NewJWTManager(c.JWTAccessSecret, c.AccessTTL)
	}
	return jwtManager
}
func SetHasher(h *helpers.PasswordHasher) { hasher = h }
func GetHasher() *helpers.PasswordHasher {
	if hasher == nil {
		hasher = helpers.NewPasswordHasher(GetConfig().BcryptCost)
	}
	return hasher
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// SetProfileIndex sets the search index; leave unset when search is disabled.
func SetProfileIndex(x repo.ProfileIndex) { profileIndex = x }
func GetProfileIndex() repo.ProfileIndex  { return profileIndex }
