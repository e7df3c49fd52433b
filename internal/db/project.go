package db

import "gorm.io/gorm"

const (
	ProjectStatusPublished = "published"
	ProjectStatusDraft     = "draft"
)

// Project 表示一个独立的项目条目，不归属任何页面。
// SEO 覆盖字段与 Page 遵循同一条回退链。
type Project struct {
	gorm.Model
	Slug             string `gorm:"uniqueIndex;not null" json:"slug"`
	Title            string `gorm:"not null" json:"title"`
	ShortDescription string `gorm:"size:500" json:"shortDescription"`
	Body             string `gorm:"type:text" json:"body"`
	CoverImageURL    string `gorm:"size:255" json:"coverImageUrl"`
	RepoURL          string `gorm:"size:255" json:"repoUrl"`
	LiveURL          string `gorm:"size:255" json:"liveUrl"`
	Featured         bool   `json:"featured"`
	Status           string `gorm:"size:20;default:published" json:"status"`
	Sort             int    `gorm:"default:0" json:"sort"`

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

// ProjectImage 定义项目图库图片模型
type ProjectImage struct {
	gorm.Model
	ProjectID   uint   `gorm:"index;not null" json:"projectId"`
	ImageURL    string `gorm:"size:255;not null" json:"imageUrl"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
	Caption     string `gorm:"size:255" json:"caption"`
	Sort        int    `gorm:"default:0" json:"sort"`
}

// ProjectTech 记录项目的技术栈条目，Icon 匹配内置图标注册表
type ProjectTech struct {
	gorm.Model
	ProjectID uint   `gorm:"index;not null" json:"projectId"`
	Name      string `gorm:"size:80;not null" json:"name"`
	Icon      string `gorm:"size:50" json:"icon"`
	Sort      int    `gorm:"default:0" json:"sort"`
}

// Testimonial 为客户评价，可选关联到某个项目。
// 删除项目时级联删除其评价（归属关系在后台界面中按所有权呈现）。
type Testimonial struct {
	gorm.Model
	ProjectID *uint  `gorm:"index" json:"projectId"`
	Author    string `gorm:"size:120;not null" json:"author"`
	RoleLine  string `gorm:"size:160" json:"roleLine"`
	Quote     string `gorm:"type:text;not null" json:"quote"`
	AvatarURL string `gorm:"size:255" json:"avatarUrl"`
	Rating    int    `gorm:"default:5" json:"rating"`
	Featured  bool   `json:"featured"`
	Sort      int    `gorm:"default:0" json:"sort"`
}
