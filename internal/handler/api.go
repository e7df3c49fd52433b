package handler

import (
	"bytes"
	"fmt"

	"github.com/devfolio/internal/cache"
	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db           *gorm.DB
	pages        *service.PageService
	sections     *service.SectionService
	catalog      *service.CatalogService
	contacts     *service.ContactService
	projects     *service.ProjectService
	testimonials *service.TestimonialService
	leads        *service.LeadService
	settings     *service.SettingsService
	analytics    *service.AnalyticsService
	aggregator   *service.Aggregator
	revalidator  *service.Revalidator
	routes       *cache.RouteCache

	uploadDir        string
	uploadURL        string
	baseURL          string
	revalidateSecret string
	logger           zerolog.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig, mailer service.Mailer, logger zerolog.Logger) *API {
	routes := cache.NewRouteCache()

	return &API{
		db:           gdb,
		pages:        service.NewPageService(gdb),
		sections:     service.NewSectionService(gdb),
		catalog:      service.NewCatalogService(gdb),
		contacts:     service.NewContactService(gdb),
		projects:     service.NewProjectService(gdb),
		testimonials: service.NewTestimonialService(gdb),
		leads:        service.NewLeadService(gdb, mailer, cfg.AdminEmail, logger),
		settings:     service.NewSettingsService(gdb, cfg.SettingsCacheTTL),
		analytics:    service.NewAnalyticsService(gdb),
		aggregator:   service.NewAggregator(gdb, logger),
		revalidator:  service.NewRevalidator(routes, logger),
		routes:       routes,

		uploadDir:        cfg.UploadDir,
		uploadURL:        cfg.UploadURLPath,
		baseURL:          cfg.SiteBaseURL,
		revalidateSecret: cfg.RevalidateSecret,
		logger:           logger,
	}
}

// DB exposes the underlying gorm instance for maintenance paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Revalidator exposes the revalidation trigger for out-of-band callers.
func (a *API) Revalidator() *service.Revalidator {
	return a.revalidator
}

// siteSettings 读取站点设置，读取失败时回退默认值并记日志。
func (a *API) siteSettings() service.SiteSettings {
	settings, err := a.settings.Get()
	if err != nil {
		a.logger.Error().Err(err).Msg("load site settings failed, serving defaults")
	}
	return settings
}

// renderMarkdown 把 Markdown 渲染为净化后的 HTML。
func renderMarkdown(content string) (string, error) {
	if content == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}
