package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Service  Service
	Postgres Postgres
	Redis    Redis
	JWT      JWT
	Logger   Logger
	WS       WS
}

type Service struct {
	Port            string        `env:"PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Postgres struct {
	DSN string `env:"DATABASE_URL" env-required:"true"`
}

type Redis struct {
	URL string `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
}

type JWT struct {
	Secret string        `env:"JWT_SECRET" env-required:"true"`
	TTL    time.Duration `env:"JWT_TTL" env-default:"24h"`
}

type Logger struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
	Dev   bool   `env:"LOG_DEV" env-default:"false"`
	File  string `env:"LOG_FILE"`
}

type WS struct {
	AllowedOrigins []string `env:"WS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	// Принимать ?userId без токена (старый протокол клиентов)
	AllowQueryIdentity bool `env:"WS_ALLOW_QUERY_IDENTITY" env-default:"false"`
	// Пускать в комнату только участников клуба
	RequireClubMembership bool `env:"WS_REQUIRE_CLUB_MEMBERSHIP" env-default:"false"`
	SendBuffer            int  `env:"WS_SEND_BUFFER" env-default:"256"`
}

// Load читает .env.local, затем .env, затем переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if cfg.WS.SendBuffer <= 0 {
		cfg.WS.SendBuffer = 256
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
