package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Redis     RedisConfig     `mapstructure:"redis"`
	S3        S3Config        `mapstructure:"s3"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

// IsDevelopment reports whether internal error details may be exposed to callers.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// JWTConfig defines token signing configuration. Access and refresh tokens
// are signed with different secrets.
type JWTConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RedisConfig configures the catalog cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// S3Config configures exercise media storage. An empty BucketName disables it.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether a bucket has been configured.
func (s S3Config) Enabled() bool {
	return s.BucketName != ""
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

var (
	ErrMissingAccessSecret  = errors.New("jwt.access_secret (JWT_SECRET) is required")
	ErrMissingRefreshSecret = errors.New("jwt.refresh_secret (REFRESH_TOKEN_SECRET) is required")
	ErrSharedSecrets        = errors.New("access and refresh secrets must differ")
	ErrMissingDatabaseURL   = errors.New("database.url (DATABASE_URL) is required")
)

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.access_ttl -> JWT_ACCESS_TTL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)
	if err := bindLegacyEnv(v); err != nil {
		return Config{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":" + v.GetString("port")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("port", "5000")
	// Keys without a default are invisible to Unmarshal even when the env var is set.
	v.SetDefault("server.address", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("redis.ttl", "5m")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)
}

// bindLegacyEnv keeps the variable names used by existing deployments working.
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"database.url":       {"DATABASE_URL"},
		"jwt.access_secret":  {"JWT_ACCESS_SECRET", "JWT_SECRET"},
		"jwt.refresh_secret": {"JWT_REFRESH_SECRET", "REFRESH_TOKEN_SECRET"},
		"app.env":            {"APP_ENV", "NODE_ENV"},
		"port":               {"PORT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

// Validate rejects configurations the server must not start with.
func (c Config) Validate() error {
	var errs []error
	if c.JWT.AccessSecret == "" {
		errs = append(errs, ErrMissingAccessSecret)
	}
	if c.JWT.RefreshSecret == "" {
		errs = append(errs, ErrMissingRefreshSecret)
	}
	if c.JWT.AccessSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, ErrSharedSecrets)
	}
	if c.Database.URL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	return errors.Join(errs...)
}
