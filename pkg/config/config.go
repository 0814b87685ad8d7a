package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/subosito/gotenv"
)

// ProvideConfig reads the configuration from the environment. Variables found in a .env file in the
// working directory are loaded first without overriding the ones already set.
func ProvideConfig() Config {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Can't load .env file: %v", err)
	}

	return Config{
		BasePath:  getEnv("BASE_PATH", ""),
		Port:      getEnvAsInt("PORT", 3800),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Database: Database{
			Driver: getEnv("DATABASE_DRIVER", "postgres"),
			Path:   getEnv("DATABASE_PATH", "delegation.db"),
			Postgresql: Postgresql{
				Host:         getEnv("DATABASE_HOST", "localhost"),
				Port:         getEnvAsInt("DATABASE_PORT", 5432),
				Username:     getEnv("DATABASE_USERNAME", ""),
				Password:     getEnv("DATABASE_PASSWORD", ""),
				DatabaseName: getEnv("DATABASE_NAME", "delegation"),
			},
		},
		Storage: Storage{
			Backend:   getEnv("STORAGE_BACKEND", "local"),
			Directory: getEnv("STORAGE_DIRECTORY", "."),
			Bucket:    getEnv("STORAGE_BUCKET", ""),
			MinIO: MinIO{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Secure:    getEnvAsBool("MINIO_SECURE", false),
			},
		},
		RabbitMq: RabbitMq{
			Host:     getEnv("RABBITMQ_HOST", ""),
			Port:     getEnvAsInt("RABBITMQ_PORT", 5672),
			Username: getEnv("RABBITMQ_USERNAME", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "delegation"),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "Delegation <no-reply@delegation.local>"),
		},
		UIURL:          getEnv("UI_URL", "http://localhost:3000"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		Admin: Admin{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}
}

type Config struct {
	BasePath       string
	Port           int
	LogFormat      string
	LogLevel       string
	Database       Database
	Storage        Storage
	RabbitMq       RabbitMq
	SMTP           SMTP
	UIURL          string
	JaegerEndpoint string
	Admin          Admin
}

type Database struct {
	// Driver is either "postgres" or "sqlite"
	Driver     string
	Path       string
	Postgresql Postgresql
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

func (p Postgresql) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable", p.Host, p.Username, p.Password, p.DatabaseName, p.Port)
}

type Storage struct {
	// Backend is one of "local", "s3" or "minio"
	Backend   string
	Directory string
	Bucket    string
	MinIO     MinIO
}

type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

type RabbitMq struct {
	Host     string
	Port     int
	Username string
	Password string
	Exchange string
}

func (r RabbitMq) Enabled() bool {
	return r.Host != ""
}

func (r RabbitMq) GetUrl() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.Username, r.Password, r.Host, r.Port)
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s SMTP) Enabled() bool {
	return s.Host != ""
}

type Admin struct {
	Email    string
	Password string
}

func (a Admin) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value of %s as integer: %s", key, err.Error())
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value of %s as boolean: %s", key, err.Error())
	}
	return value
}
