package handler

import (
	"net/http"

	"github.com/devfolio/internal/view"
	"github.com/gin-gonic/gin"
)

// ListIcons 返回后台可选的图标清单，供下拉选择使用。
func (a *API) ListIcons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"icons": view.IconOptions()})
}

// GetIconSVG 按键名返回内联 SVG，未知键名回退为默认图标。
func (a *API) GetIconSVG(c *gin.Context) {
	c.Data(http.StatusOK, "image/svg+xml", []byte(view.IconSVG(c.Param("key"))))
}
