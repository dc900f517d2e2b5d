package config

import (
	"flag"
	"os"
	"time"
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress  string
	DatabaseURI string

	JWTSecret       string
	TokenExpiration time.Duration

	// Настройки объектного хранилища (Cloudflare R2, S3-совместимое API).
	R2Endpoint        string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Bucket          string
	R2BaseFolder      string
	R2PublicDomain    string

	CatalogCacheTTL time.Duration
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
func Load() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.StringVar(&cfg.R2Endpoint, "r2-endpoint", "", "endpoint объектного хранилища R2")
	flag.StringVar(&cfg.R2Bucket, "r2-bucket", "rezon-produkty", "имя бакета R2")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		cfg.RunAddress = envRunAddr
	}
	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}
	if envEndpoint := os.Getenv("R2_ENDPOINT"); envEndpoint != "" {
		cfg.R2Endpoint = envEndpoint
	}
	if envBucket := os.Getenv("R2_BUCKET"); envBucket != "" {
		cfg.R2Bucket = envBucket
	}

	cfg.R2AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2PublicDomain = os.Getenv("R2_PUBLIC_DOMAIN")

	// Базовая папка с проектами локаций в бакете
	cfg.R2BaseFolder = os.Getenv("R2_BASE_FOLDER")
	if cfg.R2BaseFolder == "" {
		cfg.R2BaseFolder = "PROJEKTY MIEJSCOWOŚCI"
	}

	// JWT секрет
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "default-secret-change-in-production"
	}

	// Время жизни токена
	cfg.TokenExpiration = 24 * time.Hour
	if envExp := os.Getenv("TOKEN_EXPIRATION"); envExp != "" {
		if exp, err := time.ParseDuration(envExp); err == nil {
			cfg.TokenExpiration = exp
		}
	}

	// Время жизни кэша каталога
	cfg.CatalogCacheTTL = 10 * time.Minute
	if envTTL := os.Getenv("CATALOG_CACHE_TTL"); envTTL != "" {
		if ttl, err := time.ParseDuration(envTTL); err == nil {
			cfg.CatalogCacheTTL = ttl
		}
	}

	return cfg
}
