package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port         string
	ShardCount   int
	RedisAddr    string
	JWTSecret    string
	KafkaBrokers []string
	OrderTopic   string
	WebhookURL   string
	SMTPFrom     string
	UsersDBName  string
}

func LoadConfig() *Config {
	// .env is optional; in containers plain environment variables are used.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Warn().Err(err).Msg("Error loading .env file")
		}
	}

	return &Config{
		Port:         getEnv("PORT", "8082"),
		ShardCount:   3,
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092,localhost:9093,localhost:9094"), ","),
		OrderTopic:   getEnv("ORDER_TOPIC", "order-topic"),
		WebhookURL:   getEnv("NOTIFY_WEBHOOK_URL", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "orders@crashkart.local"),
		UsersDBName:  getEnv("USERS_DB_NAME", "users-db"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
