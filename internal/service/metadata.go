package service

import (
	"strings"

	"github.com/devfolio/internal/db"
)

// productName 是回退链末端的兜底标题。
const productName = "Devfolio"

// SocialCard 描述单个社交网络（Open Graph 或 Twitter）的头部字段。
type SocialCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Metadata 是元数据合成器的输出：渲染 head 标签所需的全部字段。
type Metadata struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Canonical   string     `json:"canonical"`
	Robots      string     `json:"robots"`
	Keywords    []string   `json:"keywords"`
	OpenGraph   SocialCard `json:"openGraph"`
	Twitter     SocialCard `json:"twitter"`
}

// seoSource 把 Page 与 Project 的 SEO 字段拍平成同一个输入，
// 保证两种实体走完全相同的回退链。
type seoSource struct {
	PlainTitle         string
	ShortDescription   string
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
	Path               string
}

// SynthesizePage 为页面文档计算最终元数据。
func SynthesizePage(page *db.Page, settings SiteSettings, configBaseURL string) Metadata {
	path := "/" + page.Slug
	if page.Slug == db.PageSlugHome {
		path = "/"
	}
	return synthesize(seoSource{
		PlainTitle:         page.Title,
		SEOTitle:           page.SEOTitle,
		SEODescription:     page.SEODescription,
		SEOKeywords:        page.SEOKeywords,
		CanonicalURL:       page.CanonicalURL,
		Robots:             page.Robots,
		OGTitle:            page.OGTitle,
		OGDescription:      page.OGDescription,
		OGImageURL:         page.OGImageURL,
		TwitterTitle:       page.TwitterTitle,
		TwitterDescription: page.TwitterDescription,
		TwitterImageURL:    page.TwitterImageURL,
		Path:               path,
	}, settings, configBaseURL)
}

// SynthesizeProject 为项目文档计算最终元数据，与页面走同一条回退链。
func SynthesizeProject(project *db.Project, settings SiteSettings, configBaseURL string) Metadata {
	return synthesize(seoSource{
		PlainTitle:         project.Title,
		ShortDescription:   project.ShortDescription,
		SEOTitle:           project.SEOTitle,
		SEODescription:     project.SEODescription,
		SEOKeywords:        project.SEOKeywords,
		CanonicalURL:       project.CanonicalURL,
		Robots:             project.Robots,
		OGTitle:            project.OGTitle,
		OGDescription:      project.OGDescription,
		OGImageURL:         project.OGImageURL,
		TwitterTitle:       project.TwitterTitle,
		TwitterDescription: project.TwitterDescription,
		TwitterImageURL:    project.TwitterImageURL,
		Path:               "/projects/" + project.Slug,
	}, settings, configBaseURL)
}

func synthesize(src seoSource, settings SiteSettings, configBaseURL string) Metadata {
	title := firstNonEmpty(src.OGTitle, src.SEOTitle, src.PlainTitle, settings.DefaultSEOTitle, productName)
	description := firstNonEmpty(src.OGDescription, src.SEODescription, src.ShortDescription, settings.DefaultSEODescription)

	base := strings.TrimRight(firstNonEmpty(settings.SiteBaseURL, configBaseURL), "/")
	canonical := strings.TrimSpace(src.CanonicalURL)
	if canonical == "" {
		canonical = base + src.Path
	}

	ogImage := firstNonEmpty(src.OGImageURL, settings.DefaultOGImageURL)
	twitterImage := firstNonEmpty(src.TwitterImageURL, src.OGImageURL, settings.DefaultOGImageURL)

	return Metadata{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Robots:      firstNonEmpty(src.Robots, "index, follow"),
		Keywords:    splitKeywords(src.SEOKeywords),
		OpenGraph: SocialCard{
			Title:       title,
			Description: description,
			ImageURL:    ogImage,
		},
		Twitter: SocialCard{
			Title:       firstNonEmpty(src.TwitterTitle, title),
			Description: firstNonEmpty(src.TwitterDescription, description),
			ImageURL:    twitterImage,
		},
	}
}

// splitKeywords 把逗号分隔的关键字串切成去空格的非空列表。
// 空串返回空列表，而不是包含一个空 token 的列表。
func splitKeywords(raw string) []string {
	keywords := []string{}
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
