package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/devfolio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPageTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:page-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

func TestEnsureDefaultsSeedsFixedPagesIdempotently(t *testing.T) {
	gdb := setupPageTestDB(t)
	svc := NewPageService(gdb)

	if err := svc.EnsureDefaults(); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := svc.EnsureDefaults(); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	var count int64
	gdb.Model(&db.Page{}).Count(&count)
	if count != int64(len(db.KnownPageSlugs())) {
		t.Fatalf("expected %d pages, got %d", len(db.KnownPageSlugs()), count)
	}

	for _, slug := range db.KnownPageSlugs() {
		if _, err := svc.GetBySlug(slug); err != nil {
			t.Fatalf("page %q missing after seed: %v", slug, err)
		}
	}
}

func TestGetBySlugUnknownReturnsNotFound(t *testing.T) {
	gdb := setupPageTestDB(t)
	svc := NewPageService(gdb)

	if _, err := svc.GetBySlug("pricing"); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestUpdateHeroTrimsAndPersists(t *testing.T) {
	gdb := setupPageTestDB(t)
	svc := NewPageService(gdb)
	if err := svc.EnsureDefaults(); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}

	page, err := svc.UpdateHero(db.PageSlugHome, HeroInput{
		Title:    "  Build things that last  ",
		Subtitle: "Backend engineer for hire",
		CTALabel: "Get in touch",
		CTAURL:   "/contact",
	})
	if err != nil {
		t.Fatalf("update hero: %v", err)
	}
	if page.HeroTitle != "Build things that last" {
		t.Fatalf("hero title not trimmed: %q", page.HeroTitle)
	}

	stored, err := svc.GetBySlug(db.PageSlugHome)
	if err != nil {
		t.Fatalf("reload page: %v", err)
	}
	if stored.HeroCTALabel != "Get in touch" || stored.HeroCTAURL != "/contact" {
		t.Fatalf("hero fields not persisted: %+v", stored)
	}
}

func TestUpdateTitleRejectsEmpty(t *testing.T) {
	gdb := setupPageTestDB(t)
	svc := NewPageService(gdb)
	if err := svc.EnsureDefaults(); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}

	if _, err := svc.UpdateTitle(db.PageSlugAbout, "   "); !errors.Is(err, ErrPageTitleEmpty) {
		t.Fatalf("expected ErrPageTitleEmpty, got %v", err)
	}
}

func TestUpdateSEOStoresOverrides(t *testing.T) {
	gdb := setupPageTestDB(t)
	svc := NewPageService(gdb)
	if err := svc.EnsureDefaults(); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}

	page, err := svc.UpdateSEO(db.PageSlugAbout, SEOInput{
		SEOTitle:    "About — Devfolio",
		SEOKeywords: "go, backend",
		OGImageURL:  "https://example.dev/about-og.png",
	})
	if err != nil {
		t.Fatalf("update seo: %v", err)
	}
	if page.SEOTitle != "About — Devfolio" || page.OGImageURL != "https://example.dev/about-og.png" {
		t.Fatalf("seo overrides not stored: %+v", page)
	}
}
