package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/d60-Lab/pingjob/pkg/logger"
)

// Config 应用配置
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Log          logger.Config      `mapstructure:"log"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Admin        AdminConfig        `mapstructure:"admin"`
	Sentry       SentryConfig       `mapstructure:"sentry"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Social       SocialConfig       `mapstructure:"social"`
	Distribution DistributionConfig `mapstructure:"distribution"`
}

type AppConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Env  string `mapstructure:"env" validate:"oneof=development staging production test"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gt=0,lt=65536"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	DSN          string `mapstructure:"dsn" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogSQL       bool   `mapstructure:"log_sql"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret" validate:"required,min=16"`
	TTL    time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Issuer string        `mapstructure:"issuer"`
}

// AdminConfig 管理员账号；PasswordHash 为 bcrypt，为空时禁止登录
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type SentryConfig struct {
	DSN              string  `mapstructure:"dsn"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate" validate:"gte=0,lte=1"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

// RateLimitConfig applies to inbound API requests only.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps" validate:"gte=0"`
	Burst   int     `mapstructure:"burst" validate:"gte=0"`
}

// SocialConfig 外部平台配置
type SocialConfig struct {
	GraphBaseURL     string          `mapstructure:"graph_base_url" validate:"required,url"`
	TwitterBaseURL   string          `mapstructure:"twitter_base_url" validate:"required,url"`
	HTTPTimeout      time.Duration   `mapstructure:"http_timeout" validate:"gt=0"`
	ImageURLTemplate string          `mapstructure:"image_url_template" validate:"required"`
	Brand            string          `mapstructure:"brand" validate:"required"`
	Facebook         FacebookConfig  `mapstructure:"facebook"`
	Twitter          TwitterConfig   `mapstructure:"twitter"`
	Instagram        InstagramConfig `mapstructure:"instagram"`
}

type FacebookConfig struct {
	AccessToken string `mapstructure:"access_token"`
	PageID      string `mapstructure:"page_id"`
}

type TwitterConfig struct {
	APIKey            string `mapstructure:"api_key"`
	APISecret         string `mapstructure:"api_secret"`
	AccessToken       string `mapstructure:"access_token"`
	AccessTokenSecret string `mapstructure:"access_token_secret"`
}

type InstagramConfig struct {
	AccessToken string `mapstructure:"access_token"`
	UserID      string `mapstructure:"user_id"`
}

type DistributionConfig struct {
	AsyncAudit     bool          `mapstructure:"async_audit"`
	AuditQueueSize int           `mapstructure:"audit_queue_size"`
	AuditWorkers   int           `mapstructure:"audit_workers"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	Worker         WorkerConfig  `mapstructure:"worker"`
}

type WorkerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Workers      int           `mapstructure:"workers"`
	ClaimLimit   int           `mapstructure:"claim_limit"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// legacyEnv maps config keys to the bare variable names deployments already export.
var legacyEnv = map[string]string{
	"social.facebook.access_token":       "FACEBOOK_ACCESS_TOKEN",
	"social.facebook.page_id":            "FACEBOOK_PAGE_ID",
	"social.twitter.api_key":             "TWITTER_API_KEY",
	"social.twitter.api_secret":          "TWITTER_API_SECRET",
	"social.twitter.access_token":        "TWITTER_ACCESS_TOKEN",
	"social.twitter.access_token_secret": "TWITTER_ACCESS_TOKEN_SECRET",
	"social.instagram.access_token":      "INSTAGRAM_ACCESS_TOKEN",
	"social.instagram.user_id":           "INSTAGRAM_USER_ID",
	"database.dsn":                       "DATABASE_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pingjob")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=pingjob port=5432 sslmode=disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.log_sql", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// 无内置密钥，必须通过 JWT_SECRET 或配置文件提供
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 12*time.Hour)
	v.SetDefault("jwt.issuer", "pingjob")

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password_hash", "")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.traces_sample_rate", 0.0)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 20.0)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("social.graph_base_url", "https://graph.facebook.com/v18.0")
	v.SetDefault("social.twitter_base_url", "https://api.twitter.com")
	v.SetDefault("social.http_timeout", 15*time.Second)
	v.SetDefault("social.image_url_template", "https://via.placeholder.com/1080x1080/4285F4/ffffff?text=%s%%20at%%20%s")
	v.SetDefault("social.brand", "PingJob")
	v.SetDefault("social.facebook.access_token", "")
	v.SetDefault("social.facebook.page_id", "")
	v.SetDefault("social.twitter.api_key", "")
	v.SetDefault("social.twitter.api_secret", "")
	v.SetDefault("social.twitter.access_token", "")
	v.SetDefault("social.twitter.access_token_secret", "")
	v.SetDefault("social.instagram.access_token", "")
	v.SetDefault("social.instagram.user_id", "")

	v.SetDefault("distribution.async_audit", false)
	v.SetDefault("distribution.audit_queue_size", 1024)
	v.SetDefault("distribution.audit_workers", 2)
	v.SetDefault("distribution.cache_ttl", 10*time.Minute)
	v.SetDefault("distribution.worker.enabled", true)
	v.SetDefault("distribution.worker.workers", 2)
	v.SetDefault("distribution.worker.claim_limit", 16)
	v.SetDefault("distribution.worker.poll_interval", 2*time.Second)
}

// Load reads ./config.yaml or ./config/config.yaml when present, then the environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path searches the defaults.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
