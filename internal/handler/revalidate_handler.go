package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/devfolio/internal/db"
	"github.com/gin-gonic/gin"
)

type revalidatePayload struct {
	Kind string `json:"kind"`
	Slug string `json:"slug"`
	All  bool   `json:"all"`
}

// Revalidate 供部署流水线或外部系统主动触发路由缓存失效。
// 校验共享密钥，失败会记录安全事件并返回 401。
func (a *API) Revalidate(c *gin.Context) {
	if a.revalidateSecret == "" {
		respondError(c, http.StatusServiceUnavailable, "重新验证未启用")
		return
	}

	secret := c.GetHeader("X-Revalidate-Secret")
	if secret == "" {
		secret = c.Query("secret")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.revalidateSecret)) != 1 {
		a.recordSecurityEvent(c, db.SecurityEventRevalidateDenied, "", "bad or missing secret")
		respondError(c, http.StatusUnauthorized, "密钥无效")
		return
	}

	var payload revalidatePayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	if payload.All {
		a.revalidator.InvalidateAll()
		c.JSON(http.StatusOK, gin.H{"message": "已失效全部路由"})
		return
	}

	kind := strings.TrimSpace(payload.Kind)
	slug := strings.TrimSpace(payload.Slug)
	if kind == "" || slug == "" {
		respondError(c, http.StatusBadRequest, "请指定 kind 与 slug，或使用 all")
		return
	}

	a.revalidator.Invalidate(kind, slug)
	c.JSON(http.StatusOK, gin.H{"message": "已触发重新验证", "kind": kind, "slug": slug})
}
