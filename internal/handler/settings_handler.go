package handler

import (
	"net/http"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// GetSettings 返回站点设置，后台表单直接回显。
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		a.logger.Error().Err(err).Msg("load settings failed")
		respondError(c, http.StatusInternalServerError, "获取站点设置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type settingsPayload struct {
	SiteName              string `json:"siteName"`
	SiteLogoURL           string `json:"siteLogoUrl"`
	SiteBaseURL           string `json:"siteBaseUrl"`
	DefaultSEOTitle       string `json:"defaultSeoTitle"`
	DefaultSEODescription string `json:"defaultSeoDescription"`
	DefaultOGImageURL     string `json:"defaultOgImageUrl"`
	FooterText            string `json:"footerText"`
	GitHubURL             string `json:"githubUrl"`
	LinkedInURL           string `json:"linkedinUrl"`
	TwitterURL            string `json:"twitterUrl"`
}

// UpdateSettings 保存站点设置。
// 设置影响所有页面的元数据，保存后整个路由缓存一并失效。
func (a *API) UpdateSettings(c *gin.Context) {
	var payload settingsPayload
	if !bindJSON(c, &payload, "站点设置格式不正确") {
		return
	}

	settings, err := a.settings.Update(service.SiteSettingsInput{
		SiteName:              payload.SiteName,
		SiteLogoURL:           payload.SiteLogoURL,
		SiteBaseURL:           payload.SiteBaseURL,
		DefaultSEOTitle:       payload.DefaultSEOTitle,
		DefaultSEODescription: payload.DefaultSEODescription,
		DefaultOGImageURL:     payload.DefaultOGImageURL,
		FooterText:            payload.FooterText,
		GitHubURL:             payload.GitHubURL,
		LinkedInURL:           payload.LinkedInURL,
		TwitterURL:            payload.TwitterURL,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("update settings failed")
		respondError(c, http.StatusInternalServerError, "保存站点设置失败")
		return
	}

	a.revalidator.InvalidateAll()

	c.JSON(http.StatusOK, gin.H{"message": "站点设置已更新", "settings": settings})
}
