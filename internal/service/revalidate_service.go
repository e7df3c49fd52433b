package service

import (
	"github.com/devfolio/internal/cache"
	"github.com/devfolio/internal/db"
	"github.com/rs/zerolog"
)

const (
	// RevalidateKindPage 表示页面内容变更。
	RevalidateKindPage = "page"
	// RevalidateKindProject 表示项目内容变更。
	RevalidateKindProject = "project"
)

// Revalidator 在内容变更后使对应路由的缓存条目失效。
// 对调用方是 fire-and-forget：失效本身出问题只记日志，从不让变更请求失败，
// 最坏情况是一个会随缓存 TTL 自愈的旧页面。
type Revalidator struct {
	routes *cache.RouteCache
	logger zerolog.Logger
}

// NewRevalidator 构造 Revalidator。
func NewRevalidator(routes *cache.RouteCache, logger zerolog.Logger) *Revalidator {
	return &Revalidator{routes: routes, logger: logger}
}

// RouteForPage 返回页面 slug 对应的公开路由。
func RouteForPage(slug string) string {
	if slug == db.PageSlugHome {
		return "/"
	}
	return "/" + slug
}

// Invalidate 使内容类型与 slug 对应的路由缓存失效。
// 项目会同时失效详情路由与列表路由（项目出现在 /projects 列表中）。
func (r *Revalidator) Invalidate(kind, slug string) {
	switch kind {
	case RevalidateKindPage:
		route := RouteForPage(slug)
		r.routes.Invalidate(route)
		r.logger.Info().Str("route", route).Msg("route revalidated")
	case RevalidateKindProject:
		detail := "/projects/" + slug
		r.routes.Invalidate(detail)
		r.routes.Invalidate("/projects")
		r.logger.Info().Str("route", detail).Msg("project routes revalidated")
	default:
		r.logger.Warn().Str("kind", kind).Str("slug", slug).Msg("unknown revalidation kind ignored")
	}
}

// InvalidateAll 清空整个路由缓存，用于站点级变更（如站点设置更新）
// 以及 CI 触发的批量外部内容变更。
func (r *Revalidator) InvalidateAll() {
	r.routes.Clear()
	r.logger.Info().Msg("all routes revalidated")
}
