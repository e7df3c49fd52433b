package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AnalyticsOverview 返回站点访问概览与热门路由。
func (a *API) AnalyticsOverview(c *gin.Context) {
	limit := parsePositiveInt(c.DefaultQuery("limit", "10"), 10)
	overview, err := a.analytics.Overview(limit)
	if err != nil {
		a.logger.Error().Err(err).Msg("analytics overview failed")
		respondError(c, http.StatusInternalServerError, "获取访问统计失败")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// ListSecurityEvents 返回最近的安全事件，按时间倒序。
func (a *API) ListSecurityEvents(c *gin.Context) {
	limit := parsePositiveInt(c.DefaultQuery("limit", "50"), 50)
	events, err := a.analytics.ListSecurityEvents(limit)
	if err != nil {
		a.logger.Error().Err(err).Msg("list security events failed")
		respondError(c, http.StatusInternalServerError, "获取安全事件失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
