package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/devfolio/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 处理管理员登录请求，失败会记录安全事件。
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "登录信息格式不正确") {
		return
	}

	username := strings.TrimSpace(payload.Username)

	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			a.logger.Error().Err(err).Msg("lookup user failed")
		}
		a.recordSecurityEvent(c, db.SecurityEventLoginFailed, username, "unknown user or bad password")
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		a.recordSecurityEvent(c, db.SecurityEventLoginFailed, username, "unknown user or bad password")
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		a.logger.Error().Err(err).Msg("save session failed")
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	a.recordSecurityEvent(c, db.SecurityEventLoginOK, username, "")

	c.JSON(http.StatusOK, gin.H{"message": "登录成功", "username": user.Username})
}

// Logout 处理管理员登出。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		a.logger.Error().Err(err).Msg("clear session failed")
	}
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// AuthRequired 保护后台写路径：没有有效会话的请求在触达存储前被拒绝。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Dashboard 返回后台首页的汇总数据。
func (a *API) Dashboard(c *gin.Context) {
	var projectCount, leadCount, newLeadCount int64
	a.db.Model(&db.Project{}).Count(&projectCount)
	a.db.Model(&db.Lead{}).Count(&leadCount)
	a.db.Model(&db.Lead{}).Where("status = ?", db.LeadStatusNew).Count(&newLeadCount)

	overview, err := a.analytics.Overview(5)
	if err != nil {
		a.logger.Warn().Err(err).Msg("analytics overview failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"projectCount": projectCount,
		"leadCount":    leadCount,
		"newLeadCount": newLeadCount,
		"analytics":    overview,
	})
}

func (a *API) recordSecurityEvent(c *gin.Context, kind, username, detail string) {
	if err := a.analytics.RecordSecurityEvent(kind, username, c.ClientIP(), c.Request.UserAgent(), detail); err != nil {
		a.logger.Warn().Err(err).Str("kind", kind).Msg("record security event failed")
	}
}
