package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteSettings 描述后台可配置的站点信息与全局 SEO 兜底值。
type SiteSettings struct {
	SiteName              string `json:"siteName"`
	SiteLogoURL           string `json:"siteLogoUrl"`
	SiteBaseURL           string `json:"siteBaseUrl"`
	DefaultSEOTitle       string `json:"defaultSeoTitle"`
	DefaultSEODescription string `json:"defaultSeoDescription"`
	DefaultOGImageURL     string `json:"defaultOgImageUrl"`
	FooterText            string `json:"footerText"`
	GitHubURL             string `json:"githubUrl"`
	LinkedInURL           string `json:"linkedinUrl"`
	TwitterURL            string `json:"twitterUrl"`
}

// SiteSettingsInput 用于更新站点设置。
type SiteSettingsInput struct {
	SiteName              string
	SiteLogoURL           string
	SiteBaseURL           string
	DefaultSEOTitle       string
	DefaultSEODescription string
	DefaultOGImageURL     string
	FooterText            string
	GitHubURL             string
	LinkedInURL           string
	TwitterURL            string
}

var settingKeys = []string{
	db.SettingKeySiteName,
	db.SettingKeySiteLogoURL,
	db.SettingKeySiteBaseURL,
	db.SettingKeyDefaultSEOTitle,
	db.SettingKeyDefaultSEODescription,
	db.SettingKeyDefaultOGImageURL,
	db.SettingKeyFooterText,
	db.SettingKeyGitHubURL,
	db.SettingKeyLinkedInURL,
	db.SettingKeyTwitterURL,
}

// SettingsService 提供站点设置的读取与更新能力。
// 读取走进程内缓存：{value, fetchedAt}，惰性按 TTL 判定过期；
// 管理员更新后立即失效（写失效），下一次读取回源。
type SettingsService struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	cached    *SiteSettings
	fetchedAt time.Time
}

// NewSettingsService 构造 SettingsService，默认 TTL 为一分钟。
func NewSettingsService(gdb *gorm.DB, ttl time.Duration) *SettingsService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SettingsService{db: gdb, ttl: ttl, now: time.Now}
}

// WithClock 替换时间源，主要面向测试场景。
func (s *SettingsService) WithClock(now func() time.Time) *SettingsService {
	if now != nil {
		s.now = now
	}
	return s
}

// isStale 是纯函数：缓存为空或 fetchedAt 距 now 超过 ttl 即视为过期。
func isStale(cached *SiteSettings, fetchedAt, now time.Time, ttl time.Duration) bool {
	if cached == nil {
		return true
	}
	return now.Sub(fetchedAt) >= ttl
}

// Get 读取站点设置，优先使用缓存值。
func (s *SettingsService) Get() (SiteSettings, error) {
	s.mu.RLock()
	if !isStale(s.cached, s.fetchedAt, s.now(), s.ttl) {
		cached := *s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	settings, err := s.load()
	if err != nil {
		return settings, err
	}

	// 整体替换，读者要么看到旧值要么看到新值
	s.mu.Lock()
	s.cached = &settings
	s.fetchedAt = s.now()
	s.mu.Unlock()

	return settings, nil
}

// Invalidate 立即清空缓存，下一次读取回源。
func (s *SettingsService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *SettingsService) load() (SiteSettings, error) {
	result := SiteSettings{SiteName: "Devfolio"}

	var records []db.SiteSetting
	if err := s.db.Where("key IN ?", settingKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load site settings: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeySiteName:
			if strings.TrimSpace(record.Value) != "" {
				result.SiteName = record.Value
			}
		case db.SettingKeySiteLogoURL:
			result.SiteLogoURL = record.Value
		case db.SettingKeySiteBaseURL:
			result.SiteBaseURL = record.Value
		case db.SettingKeyDefaultSEOTitle:
			result.DefaultSEOTitle = record.Value
		case db.SettingKeyDefaultSEODescription:
			result.DefaultSEODescription = record.Value
		case db.SettingKeyDefaultOGImageURL:
			result.DefaultOGImageURL = record.Value
		case db.SettingKeyFooterText:
			result.FooterText = record.Value
		case db.SettingKeyGitHubURL:
			result.GitHubURL = record.Value
		case db.SettingKeyLinkedInURL:
			result.LinkedInURL = record.Value
		case db.SettingKeyTwitterURL:
			result.TwitterURL = record.Value
		}
	}

	return result, nil
}

// Update 保存站点设置并使缓存立即失效。
func (s *SettingsService) Update(input SiteSettingsInput) (SiteSettings, error) {
	sanitized := SiteSettings{
		SiteName:              strings.TrimSpace(input.SiteName),
		SiteLogoURL:           strings.TrimSpace(input.SiteLogoURL),
		SiteBaseURL:           strings.TrimRight(strings.TrimSpace(input.SiteBaseURL), "/"),
		DefaultSEOTitle:       strings.TrimSpace(input.DefaultSEOTitle),
		DefaultSEODescription: strings.TrimSpace(input.DefaultSEODescription),
		DefaultOGImageURL:     strings.TrimSpace(input.DefaultOGImageURL),
		FooterText:            strings.TrimSpace(input.FooterText),
		GitHubURL:             strings.TrimSpace(input.GitHubURL),
		LinkedInURL:           strings.TrimSpace(input.LinkedInURL),
		TwitterURL:            strings.TrimSpace(input.TwitterURL),
	}

	if sanitized.SiteName == "" {
		sanitized.SiteName = "Devfolio"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		pairs := map[string]string{
			db.SettingKeySiteName:              sanitized.SiteName,
			db.SettingKeySiteLogoURL:           sanitized.SiteLogoURL,
			db.SettingKeySiteBaseURL:           sanitized.SiteBaseURL,
			db.SettingKeyDefaultSEOTitle:       sanitized.DefaultSEOTitle,
			db.SettingKeyDefaultSEODescription: sanitized.DefaultSEODescription,
			db.SettingKeyDefaultOGImageURL:     sanitized.DefaultOGImageURL,
			db.SettingKeyFooterText:            sanitized.FooterText,
			db.SettingKeyGitHubURL:             sanitized.GitHubURL,
			db.SettingKeyLinkedInURL:           sanitized.LinkedInURL,
			db.SettingKeyTwitterURL:            sanitized.TwitterURL,
		}
		for _, key := range settingKeys {
			if err := upsertSetting(tx, key, pairs[key]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SiteSettings{}, fmt.Errorf("update site settings: %w", err)
	}

	s.Invalidate()

	return sanitized, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SiteSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
