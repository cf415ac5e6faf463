package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress    string        `mapstructure:"SERVER_ADDRESS"`
	PostgresConn     string        `mapstructure:"POSTGRES_CONN"`
	MigrationURL     string        `mapstructure:"MIGRATION_URL"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	UploadDir        string        `mapstructure:"UPLOAD_DIR"`
	AllowedOrigins   []string      `mapstructure:"ALLOWED_ORIGINS"`
	PdfWorkers       int           `mapstructure:"PDF_WORKERS"`
	PdfQueueSize     int           `mapstructure:"PDF_QUEUE_SIZE"`
	PdfRenderTimeout time.Duration `mapstructure:"PDF_RENDER_TIMEOUT"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	QuoteCacheTTL    time.Duration `mapstructure:"QUOTE_CACHE_TTL"`
}

// LoadConfig загружает конфигурацию из файла
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("PDF_WORKERS", 2)
	viper.SetDefault("PDF_QUEUE_SIZE", 64)
	viper.SetDefault("PDF_RENDER_TIMEOUT", "30s")
	viper.SetDefault("REQUEST_TIMEOUT", "5s")
	viper.SetDefault("QUOTE_CACHE_TTL", "5m")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}
	err = viper.Unmarshal(&cfg)
	return
}
