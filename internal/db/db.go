package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
// driver 支持 sqlite（本地开发/测试）与 postgres（线上 Supabase）。
func Init(driver, dsn string) error {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		path := strings.TrimSpace(dsn)
		if path == "" {
			path = "devfolio.db"
		}
		if err := ensureParentDir(path); err != nil {
			return err
		}
		dialector = sqlite.Open(path)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate 为核心模型创建表，测试里也会直接复用。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Page{},
		&ExperienceItem{},
		&EducationItem{},
		&Certification{},
		&ServiceItem{},
		&ServiceBenefit{},
		&ProcessStep{},
		&ContactMethod{},
		&ContactFeature{},
		&Project{},
		&ProjectImage{},
		&ProjectTech{},
		&Testimonial{},
		&Lead{},
		&SiteSetting{},
		&PageVisit{},
		&PageStatistic{},
		&SecurityEvent{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
