package config

import (
	"flag"
	"os"
	"time"
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	CarrierAddress    string
	JWTSecret         string
	TokenExpiration   time.Duration
	StrictTransitions bool
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
func Load() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.StringVar(&cfg.CarrierAddress, "c", "", "адрес сервиса трекинга перевозчика")
	flag.BoolVar(&cfg.StrictTransitions, "strict", false, "жёсткая проверка переходов статусов заказа")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		cfg.RunAddress = envRunAddr
	}
	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}
	if envCarrier := os.Getenv("CARRIER_ADDRESS"); envCarrier != "" {
		cfg.CarrierAddress = envCarrier
	}

	// Strict-режим валидатора переходов. По умолчанию выключен:
	// валидатор только предупреждает, это осознанная политика.
	if envStrict := os.Getenv("STRICT_TRANSITIONS"); envStrict != "" {
		cfg.StrictTransitions = envStrict == "true" || envStrict == "1"
	}

	// JWT секрет
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "default-secret-change-in-production"
	}

	// Время жизни токена
	cfg.TokenExpiration = 24 * time.Hour
	if envExp := os.Getenv("TOKEN_EXPIRATION"); envExp != "" {
		if d, err := time.ParseDuration(envExp); err == nil {
			cfg.TokenExpiration = d
		}
	}

	return cfg
}
