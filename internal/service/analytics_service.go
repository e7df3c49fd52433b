package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnalyticsService 负责页面浏览统计与安全事件记录。
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService 创建 AnalyticsService。
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// RecordVisit 记录访客对路由的浏览，并返回最新的统计数据。
func (s *AnalyticsService) RecordVisit(route, visitorID string, now time.Time) (*db.PageStatistic, error) {
	route = strings.TrimSpace(route)
	if visitorID == "" || route == "" {
		return nil, errors.New("invalid visitor or route")
	}

	var stats db.PageStatistic

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		visit := db.PageVisit{
			Route:         route,
			VisitorID:     visitorID,
			LastViewedAt:  now,
			LastCountedAt: now,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "route"}, {Name: "visitor_id"}},
			DoNothing: true,
		}).Create(&visit)
		if insert.Error != nil {
			return insert.Error
		}

		isNewVisitor := insert.RowsAffected == 1
		if !isNewVisitor {
			if err := tx.Where("route = ? AND visitor_id = ?", route, visitorID).
				First(&visit).Error; err != nil {
				return err
			}
			visit.LastViewedAt = now
			visit.LastCountedAt = now
			if err := tx.Save(&visit).Error; err != nil {
				return err
			}
		}

		statsResult := tx.Where("route = ?", route).First(&stats)
		switch {
		case errors.Is(statsResult.Error, gorm.ErrRecordNotFound):
			stats = db.PageStatistic{Route: route}
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		case statsResult.Error != nil:
			return statsResult.Error
		}

		stats.PageViews++
		if isNewVisitor {
			stats.UniqueVisitors++
		}
		stats.LastViewedAt = now

		return tx.Save(&stats).Error
	}); err != nil {
		return nil, fmt.Errorf("record visit: %w", err)
	}

	return &stats, nil
}

// SiteOverview 聚合站点层面的 UV/PV 数据及热门路由。
type SiteOverview struct {
	TotalPageViews      uint64         `json:"totalPageViews"`
	TotalUniqueVisitors uint64         `json:"totalUniqueVisitors"`
	TopRoutes           []TopRouteStat `json:"topRoutes"`
}

// TopRouteStat 描述热门路由的统计信息。
type TopRouteStat struct {
	Route          string `json:"route"`
	PageViews      uint64 `json:"pageViews"`
	UniqueVisitors uint64 `json:"uniqueVisitors"`
}

// Overview 汇总全站 UV/PV 与热门路由。
func (s *AnalyticsService) Overview(limit int) (SiteOverview, error) {
	if limit <= 0 {
		limit = 5
	}

	var overview SiteOverview

	var totals struct {
		PageViews uint64
	}
	if err := s.db.Model(&db.PageStatistic{}).
		Select("COALESCE(SUM(page_views), 0) AS page_views").
		Scan(&totals).Error; err != nil {
		return overview, fmt.Errorf("sum page views: %w", err)
	}
	overview.TotalPageViews = totals.PageViews

	var uniqueVisitors int64
	if err := s.db.Model(&db.PageVisit{}).Distinct("visitor_id").Count(&uniqueVisitors).Error; err != nil {
		return overview, fmt.Errorf("count unique visitors: %w", err)
	}
	overview.TotalUniqueVisitors = uint64(uniqueVisitors)

	var topRoutes []TopRouteStat
	if err := s.db.Model(&db.PageStatistic{}).
		Select("route, page_views, unique_visitors").
		Order("page_views DESC").
		Limit(limit).
		Scan(&topRoutes).Error; err != nil {
		return overview, fmt.Errorf("list top routes: %w", err)
	}
	if topRoutes == nil {
		topRoutes = []TopRouteStat{}
	}
	overview.TopRoutes = topRoutes

	return overview, nil
}

// RecordSecurityEvent 记录一条安全事件，失败只返回错误由调用方记日志。
func (s *AnalyticsService) RecordSecurityEvent(kind, username, ip, userAgent, detail string) error {
	event := db.SecurityEvent{
		Kind:      kind,
		Username:  strings.TrimSpace(username),
		IP:        ip,
		UserAgent: userAgent,
		Detail:    detail,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return fmt.Errorf("record security event: %w", err)
	}
	return nil
}

// ListSecurityEvents 返回最近的安全事件，按时间倒序。
func (s *AnalyticsService) ListSecurityEvents(limit int) ([]db.SecurityEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var events []db.SecurityEvent
	if err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list security events: %w", err)
	}
	return events, nil
}
