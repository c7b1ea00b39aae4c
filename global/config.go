package global

import (
	"sync"
	"time"

	"Projease/tools/ids"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the process, loaded once from the
// environment. Prefix is PROJEASE_, e.g. PROJEASE_LISTEN_ADDR.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":5000"`
	NodeID     int64  `envconfig:"NODE_ID" default:"1"`

	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"Projease"`
	MongoPoolSize int    `envconfig:"MONGO_POOL_SIZE" default:"20"`
	MongoMaxRetry int    `envconfig:"MONGO_MAX_RETRY" default:"3"`

	// Empty RedisAddr disables the presence mirror.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JwtSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-do-not-ship"`
	JwtTTL    time.Duration `envconfig:"JWT_TTL" default:"2h"`

	// Join-project lockout tuning: 3 failed attempts lock for 3 hours.
	LockoutMaxAttempts int           `envconfig:"LOCKOUT_MAX_ATTEMPTS" default:"3"`
	LockoutWindow      time.Duration `envconfig:"LOCKOUT_WINDOW" default:"3h"`

	FanoutWorkers int `envconfig:"FANOUT_WORKERS" default:"4"`
	FanoutQueue   int `envconfig:"FANOUT_QUEUE" default:"1024"`
	SendQueueSize int `envconfig:"SEND_QUEUE_SIZE" default:"256"`

	PresenceTTL time.Duration `envconfig:"PRESENCE_TTL" default:"2m"`
}

var (
	cfg     Config
	loadErr error
	once    sync.Once
)

// Load parses the environment once and seeds the id generator.
func Load() (*Config, error) {
	once.Do(func() {
		loadErr = envconfig.Process("PROJEASE", &cfg)
		if loadErr == nil {
			ids.SetNodeID(cfg.NodeID)
		}
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return &cfg, nil
}

// Get returns the loaded config; Load must have succeeded first.
func Get() *Config { return &cfg }

func GetJwtSecret() []byte { return []byte(cfg.JwtSecret) }
