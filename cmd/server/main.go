package main

import (
	"os"
	"time"

	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/handler"
	"github.com/devfolio/internal/router"
	"github.com/devfolio/internal/service"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	// 保证固定页面与管理员账号存在
	if err := service.NewPageService(db.DB).EnsureDefaults(); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed default pages")
	}
	if cfg.AdminUserName != "" && cfg.AdminPassword != "" {
		if err := db.EnsureUser(cfg.AdminUserName, cfg.AdminPassword); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure admin user")
		}
	}

	var mailer service.Mailer
	if cfg.SMTPHost != "" {
		mailer = service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	} else {
		mailer = service.NewNoopMailer(logger)
	}

	api := handler.NewAPI(db.DB, cfg, mailer, logger)
	r := router.Setup(api, cfg, logger)

	logger.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal().Err(err).Msg("failed to run server")
	}
}

// newLogger 在 debug 模式输出易读的控制台日志，线上输出 JSON。
func newLogger(mode string) zerolog.Logger {
	if mode == "debug" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
