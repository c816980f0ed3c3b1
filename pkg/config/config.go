package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port        string `env:"PORT,default=3000"`
	Env         string `env:"ENV,default=development"`
	APIPrefix   string `env:"API_PREFIX,default=/api"`
	CORSOrigin  string `env:"CORS_ORIGIN,default=*"`
	BodyLimit   string `env:"BODY_LIMIT,default=10M"`
	MetricsPort string `env:"METRICS_PORT,default=9090"`

	StorageDriver string `env:"STORAGE_DRIVER,default=mongo"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE,default=petconnect"`
	PostgresURL   string `env:"POSTGRES_URL"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN,default=168h"`
	BcryptCost   int           `env:"BCRYPT_COST,default=10"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT,default=5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST,default=10"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	Admin AdminSeed
}

// AdminSeed holds the one-shot administrator bootstrap settings.
type AdminSeed struct {
	Create   bool   `env:"CREATE_ADMIN,default=false"`
	Email    string `env:"ADMIN_EMAIL"`
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
	FullName string `env:"ADMIN_FULLNAME,default=Administrator"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{}
	if err := envdecode.StrictDecode(cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable not set")
	}
	switch c.StorageDriver {
	case StorageMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI environment variable not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
