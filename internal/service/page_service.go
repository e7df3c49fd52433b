package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrPageTitleEmpty  = errors.New("page title is required")
	ErrUnknownPageSlug = errors.New("unknown page slug")
)

// PageService provides access to the fixed set of content pages.
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// GetBySlug fetches a page for a given slug.
func (s *PageService) GetBySlug(slug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("get page %q: %w", slug, err)
	}
	return &page, nil
}

// HeroInput 描述首屏编辑时可设置的字段。
type HeroInput struct {
	Title     string
	Highlight string
	Subtitle  string
	CTALabel  string
	CTAURL    string
	ImageURL  string
}

// UpdateHero 更新指定页面的首屏字段。
func (s *PageService) UpdateHero(slug string, input HeroInput) (*db.Page, error) {
	page, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	page.HeroTitle = strings.TrimSpace(input.Title)
	page.HeroHighlight = strings.TrimSpace(input.Highlight)
	page.HeroSubtitle = strings.TrimSpace(input.Subtitle)
	page.HeroCTALabel = strings.TrimSpace(input.CTALabel)
	page.HeroCTAURL = strings.TrimSpace(input.CTAURL)
	page.HeroImageURL = strings.TrimSpace(input.ImageURL)

	if err := s.db.Save(page).Error; err != nil {
		return nil, fmt.Errorf("update hero for %q: %w", slug, err)
	}
	return page, nil
}

// SEOInput 描述 SEO/OG/Twitter 覆盖字段。
type SEOInput struct {
	SEOTitle           string
	SEODescription     string
	SEOKeywords        string
	CanonicalURL       string
	Robots             string
	OGTitle            string
	OGDescription      string
	OGImageURL         string
	TwitterTitle       string
	TwitterDescription string
	TwitterImageURL    string
}

// UpdateSEO 更新指定页面的 SEO 覆盖字段。
func (s *PageService) UpdateSEO(slug string, input SEOInput) (*db.Page, error) {
	page, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	page.SEOTitle = strings.TrimSpace(input.SEOTitle)
	page.SEODescription = strings.TrimSpace(input.SEODescription)
	page.SEOKeywords = strings.TrimSpace(input.SEOKeywords)
	page.CanonicalURL = strings.TrimSpace(input.CanonicalURL)
	page.Robots = strings.TrimSpace(input.Robots)
	page.OGTitle = strings.TrimSpace(input.OGTitle)
	page.OGDescription = strings.TrimSpace(input.OGDescription)
	page.OGImageURL = strings.TrimSpace(input.OGImageURL)
	page.TwitterTitle = strings.TrimSpace(input.TwitterTitle)
	page.TwitterDescription = strings.TrimSpace(input.TwitterDescription)
	page.TwitterImageURL = strings.TrimSpace(input.TwitterImageURL)

	if err := s.db.Save(page).Error; err != nil {
		return nil, fmt.Errorf("update seo for %q: %w", slug, err)
	}
	return page, nil
}

// UpdateBody 保存页面的 Markdown 正文（目前主要用于 about 页）。
func (s *PageService) UpdateBody(slug, body string) (*db.Page, error) {
	page, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	page.Body = strings.TrimSpace(body)

	if err := s.db.Save(page).Error; err != nil {
		return nil, fmt.Errorf("update body for %q: %w", slug, err)
	}
	return page, nil
}

// UpdateTitle 更新页面的通用标题。
func (s *PageService) UpdateTitle(slug, title string) (*db.Page, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrPageTitleEmpty
	}

	page, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	page.Title = trimmed
	if err := s.db.Save(page).Error; err != nil {
		return nil, fmt.Errorf("update title for %q: %w", slug, err)
	}
	return page, nil
}

// EnsureDefaults 为固定的页面集合补齐缺失的行。
// 页面在此范围内只会被播种，不会由用户在运行时创建。
func (s *PageService) EnsureDefaults() error {
	titles := map[string]string{
		db.PageSlugHome:     "Home",
		db.PageSlugAbout:    "About Me",
		db.PageSlugServices: "Services",
		db.PageSlugProjects: "Projects",
		db.PageSlugContact:  "Contact",
	}

	for _, slug := range db.KnownPageSlugs() {
		var page db.Page
		err := s.db.Where("slug = ?", slug).First(&page).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check page %q: %w", slug, err)
		}
		if err := s.db.Create(&db.Page{Slug: slug, Title: titles[slug]}).Error; err != nil {
			return fmt.Errorf("seed page %q: %w", slug, err)
		}
	}

	return nil
}
