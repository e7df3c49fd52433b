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

func setupAnalyticsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:analytics-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

func TestRecordVisitDeduplicatesVisitors(t *testing.T) {
	gdb := setupAnalyticsTestDB(t)
	svc := NewAnalyticsService(gdb)
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	if _, err := svc.RecordVisit("/", "visitor-a", now); err != nil {
		t.Fatalf("first visit: %v", err)
	}
	if _, err := svc.RecordVisit("/", "visitor-a", now.Add(time.Minute)); err != nil {
		t.Fatalf("repeat visit: %v", err)
	}
	stat, err := svc.RecordVisit("/", "visitor-b", now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("second visitor: %v", err)
	}

	if stat.PageViews != 3 {
		t.Fatalf("expected 3 page views, got %d", stat.PageViews)
	}
	if stat.UniqueVisitors != 2 {
		t.Fatalf("repeat visitor must not bump uniques: got %d", stat.UniqueVisitors)
	}
}

func TestRecordVisitTracksRoutesIndependently(t *testing.T) {
	gdb := setupAnalyticsTestDB(t)
	svc := NewAnalyticsService(gdb)
	now := time.Now().UTC()

	if _, err := svc.RecordVisit("/", "visitor-a", now); err != nil {
		t.Fatalf("visit home: %v", err)
	}
	stat, err := svc.RecordVisit("/about", "visitor-a", now)
	if err != nil {
		t.Fatalf("visit about: %v", err)
	}

	if stat.Route != "/about" || stat.PageViews != 1 || stat.UniqueVisitors != 1 {
		t.Fatalf("routes must be counted independently: %+v", stat)
	}
}

func TestOverviewAggregatesTopRoutes(t *testing.T) {
	gdb := setupAnalyticsTestDB(t)
	svc := NewAnalyticsService(gdb)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordVisit("/", fmt.Sprintf("v-%d", i), now); err != nil {
			t.Fatalf("visit: %v", err)
		}
	}
	if _, err := svc.RecordVisit("/about", "v-0", now); err != nil {
		t.Fatalf("visit: %v", err)
	}

	overview, err := svc.Overview(10)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.TotalPageViews != 4 {
		t.Fatalf("expected 4 total views, got %d", overview.TotalPageViews)
	}
	if len(overview.TopRoutes) == 0 || overview.TopRoutes[0].Route != "/" {
		t.Fatalf("home must rank first: %+v", overview.TopRoutes)
	}
}

func TestSecurityEventsNewestFirst(t *testing.T) {
	gdb := setupAnalyticsTestDB(t)
	svc := NewAnalyticsService(gdb)

	if err := svc.RecordSecurityEvent(db.SecurityEventLoginFailed, "admin", "1.2.3.4", "curl", "bad password"); err != nil {
		t.Fatalf("record event: %v", err)
	}
	if err := svc.RecordSecurityEvent(db.SecurityEventLoginOK, "admin", "1.2.3.4", "curl", ""); err != nil {
		t.Fatalf("record event: %v", err)
	}

	events, err := svc.ListSecurityEvents(10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != db.SecurityEventLoginOK {
		t.Fatalf("newest event must come first, got %q", events[0].Kind)
	}
}
