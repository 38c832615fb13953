package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings read from the environment (and an optional .env file).
type Config struct {
	Port   int    `mapstructure:"PORT"`
	Env    string `mapstructure:"APP_ENV"`
	LogLvl string `mapstructure:"LOG_LEVEL"`

	DBDriver    string `mapstructure:"DB_DRIVER"` // mysql | postgres | sqlite
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`

	// Optional backends. Empty disables them.
	RedisURL string `mapstructure:"REDIS_URL"`
	AMQPURL  string `mapstructure:"AMQP_URL"`

	OrderPlacedStatus    string        `mapstructure:"ORDER_PLACED_STATUS"`
	FloorMonitorInterval time.Duration `mapstructure:"FLOOR_MONITOR_INTERVAL"`
	RateLimitPerSecond   int           `mapstructure:"RATE_LIMIT_PER_SECOND"`
	CORSOrigin           string        `mapstructure:"CORS_ORIGIN"`

	// BusinessName is printed on receipts.
	BusinessName string `mapstructure:"BUSINESS_NAME"`
}

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first when present; real env vars win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "ronda.db")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_EXPIRATION_HOURS", 12)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("ORDER_PLACED_STATUS", "ESPERANDO")
	v.SetDefault("FLOOR_MONITOR_INTERVAL", "0s")
	v.SetDefault("RATE_LIMIT_PER_SECOND", 50)
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("BUSINESS_NAME", "Ronda")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.OrderPlacedStatus = strings.ToUpper(strings.TrimSpace(cfg.OrderPlacedStatus))
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
