package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	visitorCookieName   = "df_visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60

	// 首页文档允许走短 TTL 的路由缓存，其余页面保证后台编辑下一次请求即生效。
	homeCacheTTL = 30 * time.Second
)

type pageResponse struct {
	*service.PageDocument
	Meta service.Metadata     `json:"meta"`
	Site service.SiteSettings `json:"site"`
}

type projectResponse struct {
	*service.ProjectDocument
	Meta service.Metadata     `json:"meta"`
	Site service.SiteSettings `json:"site"`
}

// GetPage 返回一个页面的聚合文档，包含合成后的元数据与站点设置。
func (a *API) GetPage(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	route := service.RouteForPage(slug)

	a.recordVisit(c, route)

	if slug == db.PageSlugHome {
		if payload, ok := a.routes.Get(route); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	doc, err := a.aggregator.Aggregate(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "页面不存在")
			return
		}
		a.logger.Error().Err(err).Str("slug", slug).Msg("aggregate page failed")
		respondError(c, http.StatusInternalServerError, "获取页面失败")
		return
	}

	if doc.BodyHTML, err = renderMarkdown(doc.Page.Body); err != nil {
		a.logger.Error().Err(err).Str("slug", slug).Msg("render page body failed")
		respondError(c, http.StatusInternalServerError, "渲染内容失败")
		return
	}

	settings := a.siteSettings()
	response := pageResponse{
		PageDocument: doc,
		Meta:         service.SynthesizePage(&doc.Page, settings, a.baseURL),
		Site:         settings,
	}

	if slug == db.PageSlugHome {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			a.routes.Set(route, payload, homeCacheTTL)
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	c.JSON(http.StatusOK, response)
}

// ListProjects 返回已发布的项目列表。
func (a *API) ListProjects(c *gin.Context) {
	projects, err := a.projects.ListPublished()
	if err != nil {
		a.logger.Error().Err(err).Msg("list projects failed")
		respondError(c, http.StatusInternalServerError, "获取项目失败")
		return
	}

	a.recordVisit(c, "/projects")

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject 返回单个已发布项目的聚合文档。
func (a *API) GetProject(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	doc, err := a.aggregator.AggregateProject(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "项目不存在")
			return
		}
		a.logger.Error().Err(err).Str("slug", slug).Msg("aggregate project failed")
		respondError(c, http.StatusInternalServerError, "获取项目失败")
		return
	}
	if doc.Project.Status != db.ProjectStatusPublished {
		respondError(c, http.StatusNotFound, "项目不存在")
		return
	}

	if doc.BodyHTML, err = renderMarkdown(doc.Project.Body); err != nil {
		a.logger.Error().Err(err).Str("slug", slug).Msg("render project body failed")
		respondError(c, http.StatusInternalServerError, "渲染内容失败")
		return
	}

	a.recordVisit(c, "/projects/"+slug)

	settings := a.siteSettings()
	c.JSON(http.StatusOK, projectResponse{
		ProjectDocument: doc,
		Meta:            service.SynthesizeProject(&doc.Project, settings, a.baseURL),
		Site:            settings,
	})
}

// ListTestimonials 返回精选评价，供首页之外的场景复用。
func (a *API) ListTestimonials(c *gin.Context) {
	limit := parsePositiveInt(c.DefaultQuery("limit", "0"), 0)
	items, err := a.testimonials.ListFeatured(limit)
	if err != nil {
		a.logger.Error().Err(err).Msg("list testimonials failed")
		respondError(c, http.StatusInternalServerError, "获取评价失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": items})
}

// recordVisit 记录一次页面访问，失败不中断请求。
func (a *API) recordVisit(c *gin.Context, route string) {
	visitorID := a.ensureVisitorID(c)
	if _, err := a.analytics.RecordVisit(route, visitorID, time.Now().UTC()); err != nil {
		a.logger.Warn().Err(err).Str("route", route).Msg("record visit failed")
	}
}

func (a *API) ensureVisitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	visitorID := uuid.NewString()
	secure := c.Request.TLS != nil

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   visitorCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})

	return visitorID
}
