package config

import (
	"fmt"  // Error wrapping
	"time" // Durations

	"github.com/joho/godotenv"             // For loading .env files
	"github.com/kelseyhightower/envconfig" // For typed environment parsing
)

// Backends selectable through configuration
const (
	BackendRedis  = "redis"  // Client state in Redis
	BackendMemory = "memory" // Client state in process memory
	SourceStatic  = "static" // Built-in catalog and credentials
	SourceDB      = "db"     // Catalog and credentials from the database
)

// Config holds the application configuration
type Config struct {
	AppPort          string        `envconfig:"APP_PORT" default:"8080"`                 // Application port
	IsProd           bool          `envconfig:"IS_PROD" default:"false"`                 // Is production environment
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`                // Logrus level
	DBDriver         string        `envconfig:"DB_DRIVER" default:"sqlite"`              // mysql or sqlite
	DBUser           string        `envconfig:"DB_USER"`                                 // Database user
	DBPassword       string        `envconfig:"DB_PASSWORD"`                             // Database password
	DBHost           string        `envconfig:"DB_HOST" default:"127.0.0.1"`             // Database host
	DBPort           string        `envconfig:"DB_PORT" default:"3306"`                  // Database port
	DBName           string        `envconfig:"DB_NAME" default:"storefront"`            // Database name
	SQLitePath       string        `envconfig:"SQLITE_PATH" default:"storefront.db"`     // SQLite file
	JWTSecret        string        `envconfig:"JWT_SECRET" required:"true"`              // Client token secret
	ClientTokenTTL   time.Duration `envconfig:"CLIENT_TOKEN_TTL" default:"720h"`         // Client token lifetime
	StateBackend     string        `envconfig:"STATE_BACKEND" default:"redis"`           // redis or memory
	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`     // Redis server address
	RedisPass        string        `envconfig:"REDIS_PASS"`                              // Redis password
	RedisDB          int           `envconfig:"REDIS_DB" default:"0"`                    // Redis database number
	CatalogSource    string        `envconfig:"CATALOG_SOURCE" default:"static"`         // static or db
	DirectorySource  string        `envconfig:"DIRECTORY_SOURCE" default:"static"`       // static or db
	CatalogDelay     time.Duration `envconfig:"CATALOG_DELAY" default:"500ms"`           // Simulated catalog latency
	ProductSaveDelay time.Duration `envconfig:"PRODUCT_SAVE_DELAY" default:"1500ms"`     // Simulated product save latency
}

// LoadConfig loads configuration from the environment, after a .env file if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.StateBackend != BackendRedis && c.StateBackend != BackendMemory {
		return fmt.Errorf("unsupported STATE_BACKEND %q", c.StateBackend)
	}
	for name, v := range map[string]string{"CATALOG_SOURCE": c.CatalogSource, "DIRECTORY_SOURCE": c.DirectorySource} {
		if v != SourceStatic && v != SourceDB {
			return fmt.Errorf("unsupported %s %q", name, v)
		}
	}
	if c.ClientTokenTTL <= 0 {
		return fmt.Errorf("CLIENT_TOKEN_TTL must be positive")
	}
	return nil
}

// NeedsDB reports whether any component reads from the database
func (c *Config) NeedsDB() bool {
	return c.CatalogSource == SourceDB || c.DirectorySource == SourceDB
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	// Database Source Name (DSN) for MySQL connection
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}
