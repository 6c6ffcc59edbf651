package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Identity provider kinds.
const (
	IdentityProviderLocal    = "local"
	IdentityProviderFirebase = "firebase"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig                `mapstructure:"server"`
	Database     DatabaseConfig              `mapstructure:"database"`
	Redis        RedisConfig                 `mapstructure:"redis"`
	AI           AIConfig                    `mapstructure:"ai"`
	Identity     IdentityConfig              `mapstructure:"identity"`
	Storage      StorageConfig               `mapstructure:"storage"`
	Quota        QuotaConfig                 `mapstructure:"quota"`
	Capabilities map[string]CapabilityConfig `mapstructure:"capabilities"`
	Feed         FeedConfig                  `mapstructure:"feed"`
	RateLimit    RateLimitConfig             `mapstructure:"rate_limit"`
	Log          LogConfig                   `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxUploadSize  int64         `mapstructure:"max_upload_size"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration. An empty address disables Redis.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AIConfig holds generative provider configuration.
type AIConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	TextModel        string        `mapstructure:"text_model"`
	ImageModel       string        `mapstructure:"image_model"`
	ImageSize        string        `mapstructure:"image_size"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	CircuitTimeout   time.Duration `mapstructure:"circuit_timeout"`
}

// IdentityConfig selects and configures the identity provider.
type IdentityConfig struct {
	Provider    string         `mapstructure:"provider"`
	PremiumPlan string         `mapstructure:"premium_plan"`
	JWTSecret   string         `mapstructure:"jwt_secret"`
	JWTIssuer   string         `mapstructure:"jwt_issuer"`
	Firebase    FirebaseConfig `mapstructure:"firebase"`
}

// FirebaseConfig holds Firebase Admin SDK settings.
type FirebaseConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	DatabaseURL     string `mapstructure:"database_url"`
	ProjectID       string `mapstructure:"project_id"`
}

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	PublicURL       string `mapstructure:"public_url"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// QuotaConfig holds free-tier metering settings.
type QuotaConfig struct {
	FreeLimit int64 `mapstructure:"free_limit"`
}

// CapabilityConfig overrides the policy of one capability.
type CapabilityConfig struct {
	Cost            int64 `mapstructure:"cost"`
	PremiumRequired *bool `mapstructure:"premium_required"`
}

// FeedConfig holds published feed settings.
type FeedConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitConfig holds per-user generation rate limits.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/quickai")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("QUICKAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Secrets come from the environment only.
	if secret := os.Getenv("QUICKAI_JWT_SECRET"); secret != "" {
		cfg.Identity.JWTSecret = secret
	}
	if password := os.Getenv("QUICKAI_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("QUICKAI_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if key := os.Getenv("QUICKAI_AI_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}
	if key := os.Getenv("QUICKAI_STORAGE_SECRET_KEY"); key != "" {
		cfg.Storage.SecretAccessKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	switch c.Identity.Provider {
	case IdentityProviderLocal:
		if c.Identity.JWTSecret == "" {
			return fmt.Errorf("identity.jwt_secret is required for the local identity provider")
		}
	case IdentityProviderFirebase:
	default:
		return fmt.Errorf("unknown identity provider %q", c.Identity.Provider)
	}
	if c.Quota.FreeLimit <= 0 {
		return fmt.Errorf("quota.free_limit must be positive, got %d", c.Quota.FreeLimit)
	}
	for name, cc := range c.Capabilities {
		if cc.Cost < 0 {
			return fmt.Errorf("capabilities.%s.cost must not be negative", name)
		}
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_upload_size", 10<<20)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "quickai")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// AI defaults
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.text_model", "gpt-4o-mini")
	v.SetDefault("ai.image_model", "gpt-image-1")
	v.SetDefault("ai.image_size", "1024x1024")
	v.SetDefault("ai.request_timeout", 90*time.Second)
	v.SetDefault("ai.failure_threshold", 5)
	v.SetDefault("ai.circuit_timeout", 60*time.Second)

	// Identity defaults
	v.SetDefault("identity.provider", IdentityProviderLocal)
	v.SetDefault("identity.premium_plan", "premium")
	v.SetDefault("identity.jwt_issuer", "quickai")

	// Storage defaults
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.bucket", "quickai-creations")

	// Quota defaults
	v.SetDefault("quota.free_limit", 10)

	// Feed defaults
	v.SetDefault("feed.cache_ttl", 30*time.Second)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.limit", 20)
	v.SetDefault("rate_limit.window", time.Minute)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
