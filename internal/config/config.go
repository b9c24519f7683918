package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig
	Gin      *GinConfig
	Postgres *PostgresConfig
	Media    *MediaConfig
	Redis    *RedisConfig
	AMQP     *AMQPConfig
}

type APIConfig struct {
	Environment        string
	Port               string
	BaseURL            string
	LogLevel           string
	AllowedCORSDomains []string
	JWTSigningKey      string
	TokenTTL           time.Duration
}

type GinConfig struct {
	Mode string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
}

// MediaConfig points at the S3 compatible bucket event posters are uploaded to.
type MediaConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Folder         string
	UseSSL         bool
	PublicURL      string
	MaxUploadBytes int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type AMQPConfig struct {
	URL   string
	Queue string
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.DB, c.Port, c.SSLMode,
	)
}

// Load reads the yml file at path. Every key can be overridden by an
// environment variable, e.g. api.jwt_signing_key -> API_JWT_SIGNING_KEY.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return fromViper(v)
}

// Watch calls onChange with the reloaded config every time the file at path
// is written.
func Watch(path string, onChange func(conf *AppConfig, err error)) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		onChange(nil, fmt.Errorf("v.ReadInConfig -> %w", err))
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(fromViper(v))
	})
	v.WatchConfig()
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "4000")
	v.SetDefault("api.base_url", "localhost:4000")
	v.SetDefault("api.log_level", "info")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:5173"})
	v.SetDefault("api.token_ttl", "24h")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("media.bucket", "event-images")
	v.SetDefault("media.folder", "events")
	v.SetDefault("media.max_upload_bytes", 10<<20)
	v.SetDefault("redis.ttl", "30s")
	v.SetDefault("amqp.queue", "booking.created")
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{
		API: &APIConfig{
			Environment:        v.GetString("api.environment"),
			Port:               v.GetString("api.port"),
			BaseURL:            v.GetString("api.base_url"),
			LogLevel:           v.GetString("api.log_level"),
			AllowedCORSDomains: v.GetStringSlice("api.allowed_cors_domains"),
			JWTSigningKey:      v.GetString("api.jwt_signing_key"),
			TokenTTL:           v.GetDuration("api.token_ttl"),
		},
		Gin: &GinConfig{
			Mode: v.GetString("gin.mode"),
		},
		Postgres: &PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			DB:       v.GetString("postgres.db"),
			SSLMode:  v.GetString("postgres.sslmode"),
		},
		Media: &MediaConfig{
			Endpoint:       v.GetString("media.endpoint"),
			AccessKey:      v.GetString("media.access_key"),
			SecretKey:      v.GetString("media.secret_key"),
			Bucket:         v.GetString("media.bucket"),
			Folder:         v.GetString("media.folder"),
			UseSSL:         v.GetBool("media.use_ssl"),
			PublicURL:      v.GetString("media.public_url"),
			MaxUploadBytes: v.GetInt64("media.max_upload_bytes"),
		},
		Redis: &RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		AMQP: &AMQPConfig{
			URL:   v.GetString("amqp.url"),
			Queue: v.GetString("amqp.queue"),
		},
	}

	if conf.API.JWTSigningKey == "" {
		return nil, errMissingJWTSigningKey
	}
	if conf.API.TokenTTL <= 0 {
		return nil, fmt.Errorf("api.token_ttl must be positive, got %v", conf.API.TokenTTL)
	}

	return conf, nil
}

var errMissingJWTSigningKey = fmt.Errorf("api.jwt_signing_key is required")
