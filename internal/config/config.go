package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

type Config struct {
	AppName           string
	AppVersion        string
	AppPort           string
	DbHost            string
	DbPort            string
	DbUser            string
	DbPassword        string
	DbName            string
	DbParams          string
	TrustedProxies    []string
	StoreDriver       string
	DefaultProgramID  string
	DefaultLanguage   string
	TranslationFolder string
	JWTSecret         string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	OutboxBuffer      int
	OutboxWorkers     int
	NotifyTimeout     time.Duration
	VapidPublicKey    string
	VapidPrivateKey   string
	VapidSubject      string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppName:           getEnv("APP_NAME", "volunteers-backend"),
		AppVersion:        getEnv("APP_VERSION", "dev"),
		AppPort:           getEnv("APP_PORT", "8080"),
		DbHost:            getEnv("MYSQL_HOST", "db"),
		DbPort:            getEnv("MYSQL_PORT", "3306"),
		DbUser:            getEnv("MYSQL_USER", "volunteers"),
		DbPassword:        getEnv("MYSQL_PASSWORD", "volunteers"),
		DbName:            getEnv("MYSQL_DATABASE", "volunteers"),
		DbParams:          getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		TrustedProxies:    parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
		StoreDriver:       getEnv("STORE_DRIVER", StoreMySQL),
		DefaultProgramID:  getEnv("DEFAULT_PROGRAM_ID", ""),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "he"),
		TranslationFolder: getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		RedisAddr:         strings.TrimSpace(getEnv("REDIS_ADDR", "")),
		RedisPassword:     getEnv("REDIS_PASS", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		OutboxBuffer:      getEnvInt("OUTBOX_BUFFER", 256),
		OutboxWorkers:     getEnvInt("OUTBOX_WORKERS", 2),
		NotifyTimeout:     getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
		VapidPublicKey:    getEnv("VAPID_PUBLIC_KEY", ""),
		VapidPrivateKey:   getEnv("VAPID_PRIVATE_KEY", ""),
		VapidSubject:      getEnv("VAPID_SUBJECT", "mailto:admin@example.org"),
	}
}

// WebPushEnabled reports whether both VAPID keys are set.
func (c *Config) WebPushEnabled() bool {
	return c.VapidPublicKey != "" && c.VapidPrivateKey != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(getEnv(key, "")))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(getEnv(key, "")))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
