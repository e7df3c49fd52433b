package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	GinMode          string
	DatabaseDriver   string
	DatabaseDSN      string
	SessionSecret    string
	UploadDir        string
	UploadURLPath    string
	SiteBaseURL      string
	SMTPHost         string
	SMTPPort         string
	SMTPFrom         string
	AdminEmail       string
	RevalidateSecret string
	SettingsCacheTTL time.Duration
	AdminUserName    string
	AdminPassword    string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 当前目录存在 .env 文件时优先加载（本地开发场景）。
func Load() AppConfig {
	_ = godotenv.Load()

	port := envOr("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	driver := strings.ToLower(envOr("DATABASE_DRIVER", "sqlite"))
	dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if dsn == "" {
		if driver == "postgres" {
			dsn = "host=localhost user=devfolio dbname=devfolio sslmode=disable"
		} else {
			dsn = "devfolio.db"
		}
	}

	ttl := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("SETTINGS_CACHE_TTL_SECONDS")); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		GinMode:          envOr("GIN_MODE", "release"),
		DatabaseDriver:   driver,
		DatabaseDSN:      dsn,
		SessionSecret:    envOr("SESSION_SECRET", "devfolio-dev-secret"),
		UploadDir:        envOr("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPath:    envOr("UPLOAD_URL_PATH", "/static/uploads"),
		SiteBaseURL:      envOr("SITE_BASE_URL", "https://devfolio.dev"),
		SMTPHost:         strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:         envOr("SMTP_PORT", "587"),
		SMTPFrom:         envOr("SMTP_FROM", "noreply@devfolio.dev"),
		AdminEmail:       strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		RevalidateSecret: strings.TrimSpace(os.Getenv("REVALIDATE_SECRET")),
		SettingsCacheTTL: ttl,
		AdminUserName:    strings.TrimSpace(os.Getenv("ADMIN_USER_NAME")),
		AdminPassword:    strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
	}
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
