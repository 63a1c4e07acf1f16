package config

import (
	"errors"
	"os"
	"strconv"
)

const defaultJWTSecret = "dev-secret-change-me"

// Config 是进程级不可变配置,启动时加载一次后显式传入各构造函数。
type Config struct {
	Port                string
	DatabaseDSN         string
	JWTSecret           string
	Env                 string
	AccessTokenTTLHours int
	RefreshTokenTTLDays int
	OpenAIKey           string
	OpenAIModel         string
	SystemPrompt        string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func Load() Config {
	return Config{
		Port:                getenv("APP_PORT", "8080"),
		DatabaseDSN:         getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=weeclass port=5432 sslmode=disable TimeZone=UTC"),
		JWTSecret:           getenv("JWT_SECRET", defaultJWTSecret),
		Env:                 getenv("APP_ENV", "dev"),
		AccessTokenTTLHours: getenvInt("ACCESS_TOKEN_TTL_HOURS", 24),
		RefreshTokenTTLDays: getenvInt("REFRESH_TOKEN_TTL_DAYS", 7),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getenv("OPENAI_API_MODEL", "gpt-4o-mini"),
		SystemPrompt:        getenv("OPENAI_PROMPT", "You are a warm, supportive school counselor. Listen carefully and answer in the language the student uses."),
	}
}

// Validate 在启动阶段拦截明显不可用的配置。
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is empty")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: database dsn is empty")
	}
	if cfg.Env != "dev" && cfg.JWTSecret == defaultJWTSecret {
		return errors.New("config: default jwt secret outside dev")
	}
	if cfg.Env != "dev" && cfg.OpenAIKey == "" {
		return errors.New("config: openai api key is empty")
	}
	return nil
}
