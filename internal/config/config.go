package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"pgx"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	RabbitMQURL string `env:"RABBITMQ_URL"`
	RedisAddr   string `env:"REDIS_ADDR"`

	ImportReportTTL      time.Duration `env:"IMPORT_REPORT_TTL" envDefault:"24h"`
	ImportMaxUploadBytes int64         `env:"IMPORT_MAX_UPLOAD_BYTES" envDefault:"10485760"` // 10MiB
	ImportRatePerMinute  int           `env:"IMPORT_RATE_PER_MINUTE" envDefault:"6"`

	MailHost string `env:"MAIL_HOST"`
	MailPort int    `env:"MAIL_PORT" envDefault:"587"`
	MailUser string `env:"MAIL_USER"`
	MailPass string `env:"MAIL_PASS"`
	MailFrom string `env:"MAIL_FROM" envDefault:"nao-responda@ligue.com"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	PipelineGaugeInterval time.Duration `env:"PIPELINE_GAUGE_INTERVAL" envDefault:"1m"`
}

// Load lê o .env (se existir, para dev local) e depois as variáveis de ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return cfg, nil
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != ""
}
