package db

import "gorm.io/gorm"

// SiteSetting 存储后台可配置的站点级键值对。
type SiteSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SiteSetting) TableName() string {
	return "site_settings"
}

const (
	// SettingKeySiteName 表示站点名称。
	SettingKeySiteName = "site_name"
	// SettingKeySiteLogoURL 表示站点 Logo 链接。
	SettingKeySiteLogoURL = "site_logo_url"
	// SettingKeySiteBaseURL 覆盖配置中的站点根地址。
	SettingKeySiteBaseURL = "site_base_url"
	// SettingKeyDefaultSEOTitle 表示全局默认 SEO 标题。
	SettingKeyDefaultSEOTitle = "default_seo_title"
	// SettingKeyDefaultSEODescription 表示全局默认 SEO 描述。
	SettingKeyDefaultSEODescription = "default_seo_description"
	// SettingKeyDefaultOGImageURL 表示全局默认 Open Graph 图片。
	SettingKeyDefaultOGImageURL = "default_og_image_url"
	// SettingKeyFooterText 表示前台页脚文案。
	SettingKeyFooterText = "footer_text"
	// SettingKeyGitHubURL 表示页脚 GitHub 链接。
	SettingKeyGitHubURL = "github_url"
	// SettingKeyLinkedInURL 表示页脚 LinkedIn 链接。
	SettingKeyLinkedInURL = "linkedin_url"
	// SettingKeyTwitterURL 表示页脚 X / Twitter 链接。
	SettingKeyTwitterURL = "twitter_url"
)
