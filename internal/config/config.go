package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Ingest   IngestConfig
	Email    EmailConfig
	Demo     DemoConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

type JWTConfig struct {
	PrivateKeyPath     string
	PublicKeyPath      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
}

type IngestConfig struct {
	SyntheticCount int
	SyntheticSeed  int64
	MQTTEnabled    bool
	MQTTBrokerURL  string
	MQTTClientID   string
	MQTTTopic      string
}

type EmailConfig struct {
	Enabled   bool
	APIKey    string
	FromName  string
	FromEmail string
	AppURL    string
}

type DemoConfig struct {
	Endpoint  string
	AccessKey string
	Timeout   time.Duration
}

func Load() (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "miti"),
			Password: getEnv("DB_PASSWORD", "miti"),
			DBName:   getEnv("DB_NAME", "mitidb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getIntEnv("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "miti"),
		},
		JWT: JWTConfig{
			PrivateKeyPath:     getEnv("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:      getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			AccessTokenExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshTokenExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
			Issuer:             getEnv("JWT_ISSUER", "miti"),
		},
		Ingest: IngestConfig{
			SyntheticCount: getIntEnv("INGEST_SYNTHETIC_COUNT", 50),
			SyntheticSeed:  int64(getIntEnv("INGEST_SYNTHETIC_SEED", 0)),
			MQTTEnabled:    getBoolEnv("INGEST_MQTT_ENABLED", false),
			MQTTBrokerURL:  getEnv("INGEST_MQTT_BROKER_URL", "tcp://localhost:1883"),
			MQTTClientID:   getEnv("INGEST_MQTT_CLIENT_ID", "miti-ingest"),
			MQTTTopic:      getEnv("INGEST_MQTT_TOPIC", "sensors/+/alerts"),
		},
		Email: EmailConfig{
			Enabled:   getBoolEnv("EMAIL_ENABLED", false),
			APIKey:    getEnv("RESEND_API_KEY", ""),
			FromName:  getEnv("EMAIL_FROM_NAME", "Miti"),
			FromEmail: getEnv("EMAIL_FROM_ADDRESS", ""),
			AppURL:    getEnv("APP_URL", "https://app.miti.io"),
		},
		Demo: DemoConfig{
			Endpoint:  getEnv("DEMO_FORM_ENDPOINT", "https://api.web3forms.com/submit"),
			AccessKey: getEnv("DEMO_FORM_ACCESS_KEY", ""),
			Timeout:   getDurationEnv("DEMO_FORM_TIMEOUT", 10*time.Second),
		},
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
