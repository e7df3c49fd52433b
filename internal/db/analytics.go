package db

import "time"

// PageStatistic 汇总路由维度的浏览数据。
type PageStatistic struct {
	ID             uint   `gorm:"primaryKey"`
	Route          string `gorm:"size:160;uniqueIndex"`
	PageViews      uint64 `gorm:"default:0"`
	UniqueVisitors uint64 `gorm:"default:0"`
	LastViewedAt   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 指定自定义表名。
func (PageStatistic) TableName() string {
	return "page_statistics"
}

// PageVisit 记录访客与路由的访问关系，用于 UV 去重。
type PageVisit struct {
	ID            uint   `gorm:"primaryKey"`
	Route         string `gorm:"size:160;uniqueIndex:idx_page_visit_route_visitor"`
	VisitorID     string `gorm:"size:64;uniqueIndex:idx_page_visit_route_visitor"`
	LastViewedAt  time.Time
	LastCountedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName 指定自定义表名。
func (PageVisit) TableName() string {
	return "page_visits"
}
