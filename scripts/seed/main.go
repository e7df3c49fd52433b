package main

import (
	"flag"
	"log"

	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/service"
)

// 初始化数据库：建表、写入五个固定页面，并按需创建管理员账号。
// 用法：go run ./scripts/seed -username admin -password secret
func main() {
	username := flag.String("username", "", "管理员用户名")
	password := flag.String("password", "", "管理员密码")
	flag.Parse()

	cfg := config.Load()
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := service.NewPageService(db.DB).EnsureDefaults(); err != nil {
		log.Fatalf("failed to seed default pages: %v", err)
	}
	log.Println("default pages ready")

	if *username != "" && *password != "" {
		if err := db.EnsureUser(*username, *password); err != nil {
			log.Fatalf("failed to ensure admin user: %v", err)
		}
		log.Printf("admin user %q ready", *username)
	}
}
