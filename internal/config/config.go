package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env        Env
	Minio      MinioConfig
	Upload     UploadConfig
	NATS       NATSConfig
	Redis      RedisConfig
	Gemini     GeminiConfig
	Processing ProcessingConfig
	Database   DatabaseConfig
	Server     ServerConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host        string   `envconfig:"SERVER_HOST" default:"localhost"`
	Port        string   `envconfig:"SERVER_PORT" default:"8080"`
	CorsOrigins []string `envconfig:"SERVER_CORS_ORIGINS" default:"http://localhost:*,http://127.0.0.1:*"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	MaxSize      int64         `envconfig:"UPLOAD_MAX_SIZE" default:"52428800"` // 50MB
	StaleAfter   time.Duration `envconfig:"UPLOAD_STALE_AFTER" default:"2h"`
	CleanupEvery time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"15m"`
}

type NATSConfig struct {
	URL          string        `envconfig:"NATS_URL" required:"true"`
	StreamName   string        `envconfig:"NATS_STREAM_NAME" default:"DOCUMENTS"`
	ConsumerName string        `envconfig:"NATS_CONSUMER_NAME" default:"document-processor"`
	Subject      string        `envconfig:"NATS_SUBJECT" default:"documents.process"`
	AckWait      time.Duration `envconfig:"NATS_ACK_WAIT" default:"30m"`
	MaxDeliver   int           `envconfig:"NATS_MAX_DELIVER" default:"3"`
}

type RedisConfig struct {
	Addr        string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password    string        `envconfig:"REDIS_PASSWORD" default:""`
	DB          int           `envconfig:"REDIS_DB" default:"0"`
	ProgressTTL time.Duration `envconfig:"REDIS_PROGRESS_TTL" default:"24h"`
	LockTTL     time.Duration `envconfig:"REDIS_LOCK_TTL" default:"30m"`
}

type GeminiConfig struct {
	ProjectID    string        `envconfig:"GEMINI_PROJECT_ID"` // required by the processor only
	Region       string        `envconfig:"GEMINI_REGION" default:"us-central1"`
	Model        string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-pro"`
	BatchTimeout time.Duration `envconfig:"GEMINI_BATCH_TIMEOUT" default:"10m"`
}

type ProcessingConfig struct {
	PagesPerBatch int `envconfig:"PROCESSING_PAGES_PER_BATCH" default:"20"`
	Concurrency   int `envconfig:"PROCESSING_CONCURRENCY" default:"2"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// PollerConfig is read by the watch CLI only, so it is loaded separately
type PollerConfig struct {
	BaseURL        string        `envconfig:"WATCH_API_URL" default:"http://localhost:8080/api/v1"`
	Interval       time.Duration `envconfig:"WATCH_INTERVAL" default:"5s"`
	RequestTimeout time.Duration `envconfig:"WATCH_REQUEST_TIMEOUT" default:"3s"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func LoadPoller() (*PollerConfig, error) {
	var cfg PollerConfig

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func LoadDatabase() (*DatabaseConfig, error) {
	var cfg DatabaseConfig

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
