package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Storage    Storage    `yaml:"storage"`
	PGSQL      PQSQL      `yaml:"pgsql"`
	MinIO      MinIO      `yaml:"minio"`
	Media      Media      `yaml:"media"`
	Redis      Redis      `yaml:"redis"`
	CORS       CORS       `yaml:"cors"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	Sweeper    Sweeper    `yaml:"sweeper"`
	Social     []Social   `yaml:"social"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"60s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"120s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"120s"`
}

// Storage selects the row store backend: "postgres" or "memory".
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type PQSQL struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"portfolio_db"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
	BucketName      string `yaml:"bucket_name" env:"MINIO_BUCKET" env-default:"portfolio-media"`
	// PublicBaseURL overrides the endpoint when building public object URLs,
	// e.g. a CDN in front of the bucket.
	PublicBaseURL string `yaml:"public_base_url" env:"MINIO_PUBLIC_BASE_URL"`
}

type Media struct {
	MaxFileSize  int64  `yaml:"max_file_size" env:"MEDIA_MAX_FILE_SIZE" env-default:"104857600"`
	CacheControl string `yaml:"cache_control" env-default:"max-age=3600"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"true"`
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type RateLimit struct {
	ContactPerMinute int64 `yaml:"contact_per_minute" env-default:"5"`
	UploadPerMinute  int64 `yaml:"upload_per_minute" env-default:"30"`
}

type Sweeper struct {
	Interval    time.Duration `yaml:"interval" env:"SWEEPER_INTERVAL" env-default:"1h"`
	GracePeriod time.Duration `yaml:"grace_period" env:"SWEEPER_GRACE_PERIOD" env-default:"24h"`
}

type Social struct {
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
}

// Load reads the YAML file at path and applies environment overrides.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist at path: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PGSQL.Host, c.PGSQL.Port, c.PGSQL.User, c.PGSQL.Password, c.PGSQL.DBName, c.PGSQL.SSLMode)
}
