package db

import "gorm.io/gorm"

// ExperienceItem 记录关于页的工作经历条目
// Sort 值越小越靠前
type ExperienceItem struct {
	gorm.Model
	PageID  uint   `gorm:"index;not null" json:"pageId"`
	Role    string `gorm:"size:120;not null" json:"role"`
	Company string `gorm:"size:120" json:"company"`
	Period  string `gorm:"size:60" json:"period"`
	Summary string `gorm:"type:text" json:"summary"`
	Sort    int    `gorm:"default:0" json:"sort"`
}

// EducationItem 记录关于页的教育经历条目
type EducationItem struct {
	gorm.Model
	PageID  uint   `gorm:"index;not null" json:"pageId"`
	Degree  string `gorm:"size:120;not null" json:"degree"`
	School  string `gorm:"size:120" json:"school"`
	Period  string `gorm:"size:60" json:"period"`
	Summary string `gorm:"type:text" json:"summary"`
	Sort    int    `gorm:"default:0" json:"sort"`
}

// Certification 记录关于页的认证条目
type Certification struct {
	gorm.Model
	PageID uint   `gorm:"index;not null" json:"pageId"`
	Name   string `gorm:"size:120;not null" json:"name"`
	Issuer string `gorm:"size:120" json:"issuer"`
	Year   string `gorm:"size:20" json:"year"`
	URL    string `gorm:"size:255" json:"url"`
	Sort   int    `gorm:"default:0" json:"sort"`
}

// ServiceItem 记录服务页的服务条目，Icon 匹配内置图标注册表
type ServiceItem struct {
	gorm.Model
	PageID      uint   `gorm:"index;not null" json:"pageId"`
	Title       string `gorm:"size:120;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:50" json:"icon"`
	Sort        int    `gorm:"default:0" json:"sort"`
}

// ServiceBenefit 归属于某个服务条目
type ServiceBenefit struct {
	gorm.Model
	ServiceItemID uint   `gorm:"index;not null" json:"serviceItemId"`
	Text          string `gorm:"size:255;not null" json:"text"`
	Sort          int    `gorm:"default:0" json:"sort"`
}

// ProcessStep 记录服务页的工作流程步骤
type ProcessStep struct {
	gorm.Model
	PageID      uint   `gorm:"index;not null" json:"pageId"`
	Title       string `gorm:"size:120;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Sort        int    `gorm:"default:0" json:"sort"`
}

// ContactMethod 保存联系页展示的联系与社交方式
// Visible 标记是否在前台展示
type ContactMethod struct {
	gorm.Model
	PageID   uint   `gorm:"index;not null" json:"pageId"`
	Platform string `gorm:"size:50;not null" json:"platform"`
	Label    string `gorm:"size:80;not null" json:"label"`
	Value    string `gorm:"size:255;not null" json:"value"`
	Link     string `gorm:"size:255" json:"link"`
	Icon     string `gorm:"size:50" json:"icon"`
	Sort     int    `gorm:"default:0" json:"sort"`
	Visible  bool   `json:"visible"`
}

// ContactFeature 记录联系页的卖点文案
type ContactFeature struct {
	gorm.Model
	PageID uint   `gorm:"index;not null" json:"pageId"`
	Text   string `gorm:"size:255;not null" json:"text"`
	Sort   int    `gorm:"default:0" json:"sort"`
}
