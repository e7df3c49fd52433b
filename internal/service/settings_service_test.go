package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/devfolio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:settings-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func TestSettingsReadAfterWrite(t *testing.T) {
	gdb := setupSettingsTestDB(t)
	svc := NewSettingsService(gdb, time.Minute)

	// 先读一次把默认值放进缓存
	before, err := svc.Get()
	if err != nil {
		t.Fatalf("initial get: %v", err)
	}
	if before.SiteName != "Devfolio" {
		t.Fatalf("expected default site name, got %q", before.SiteName)
	}

	if _, err := svc.Update(SiteSettingsInput{SiteName: "My Studio", SiteBaseURL: "https://studio.dev/"}); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	// 更新必须击穿缓存，立即可见
	after, err := svc.Get()
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if after.SiteName != "My Studio" {
		t.Fatalf("update not visible after write: %q", after.SiteName)
	}
	if after.SiteBaseURL != "https://studio.dev" {
		t.Fatalf("base url should be stored without trailing slash: %q", after.SiteBaseURL)
	}
}

func TestSettingsCacheHonorsTTL(t *testing.T) {
	gdb := setupSettingsTestDB(t)

	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSettingsService(gdb, time.Minute).WithClock(func() time.Time { return current })

	if _, err := svc.Get(); err != nil {
		t.Fatalf("initial get: %v", err)
	}

	// 绕过服务直接改库，模拟缓存后面的数据变化
	if err := gdb.Create(&db.SiteSetting{Key: db.SettingKeySiteName, Value: "Changed Behind Cache"}).Error; err != nil {
		t.Fatalf("write setting row: %v", err)
	}

	// TTL 内仍返回缓存值
	current = current.Add(30 * time.Second)
	cached, err := svc.Get()
	if err != nil {
		t.Fatalf("get within ttl: %v", err)
	}
	if cached.SiteName != "Devfolio" {
		t.Fatalf("expected cached value within ttl, got %q", cached.SiteName)
	}

	// 过了 TTL 回源
	current = current.Add(time.Minute)
	fresh, err := svc.Get()
	if err != nil {
		t.Fatalf("get after ttl: %v", err)
	}
	if fresh.SiteName != "Changed Behind Cache" {
		t.Fatalf("expected fresh value after ttl, got %q", fresh.SiteName)
	}
}

func TestSettingsInvalidateForcesReload(t *testing.T) {
	gdb := setupSettingsTestDB(t)
	svc := NewSettingsService(gdb, time.Hour)

	if _, err := svc.Get(); err != nil {
		t.Fatalf("initial get: %v", err)
	}
	if err := gdb.Create(&db.SiteSetting{Key: db.SettingKeyFooterText, Value: "© 2026"}).Error; err != nil {
		t.Fatalf("write setting row: %v", err)
	}

	svc.Invalidate()

	settings, err := svc.Get()
	if err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if settings.FooterText != "© 2026" {
		t.Fatalf("invalidate must force a reload, got %q", settings.FooterText)
	}
}

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if !isStale(nil, now, now, time.Minute) {
		t.Fatal("nil cache must always be stale")
	}
	cached := &SiteSettings{}
	if isStale(cached, now, now.Add(30*time.Second), time.Minute) {
		t.Fatal("cache within ttl must not be stale")
	}
	if !isStale(cached, now, now.Add(time.Minute), time.Minute) {
		t.Fatal("cache at exactly ttl must be stale")
	}
}
