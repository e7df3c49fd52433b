package db

import "gorm.io/gorm"

// 站点的固定页面集合，页面只被编辑，不在运行时创建或删除。
const (
	PageSlugHome     = "home"
	PageSlugAbout    = "about"
	PageSlugServices = "services"
	PageSlugProjects = "projects"
	PageSlugContact  = "contact"
)

// KnownPageSlugs 返回全部固定页面 slug，顺序即导航顺序。
func KnownPageSlugs() []string {
	return []string{PageSlugHome, PageSlugAbout, PageSlugServices, PageSlugProjects, PageSlugContact}
}

// Page 表示一个内容页面，持有首屏与 SEO 字段。
// Body 为 Markdown 原文，渲染为 HTML 在聚合阶段完成。
type Page struct {
	gorm.Model
	Slug  string `gorm:"uniqueIndex;not null" json:"slug"`
	Title string `gorm:"not null" json:"title"`
	Body  string `gorm:"type:text" json:"body"`

	HeroTitle     string `json:"heroTitle"`
	HeroHighlight string `json:"heroHighlight"`
	HeroSubtitle  string `gorm:"type:text" json:"heroSubtitle"`
	HeroCTALabel  string `json:"heroCtaLabel"`
	HeroCTAURL    string `json:"heroCtaUrl"`
	HeroImageURL  string `json:"heroImageUrl"`

	SEOTitle           string `json:"seoTitle"`
	SEODescription     string `gorm:"type:text" json:"seoDescription"`
	SEOKeywords        string `json:"seoKeywords"`
	CanonicalURL       string `json:"canonicalUrl"`
	Robots             string `json:"robots"`
	OGTitle            string `json:"ogTitle"`
	OGDescription      string `gorm:"type:text" json:"ogDescription"`
	OGImageURL         string `json:"ogImageUrl"`
	TwitterTitle       string `json:"twitterTitle"`
	TwitterDescription string `gorm:"type:text" json:"twitterDescription"`
	TwitterImageURL    string `json:"twitterImageUrl"`
}
