package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// SubmitContact 处理公开联系表单提交。
// 线索落库成功即视为成功，通知邮件失败不影响返回结果。
func (a *API) SubmitContact(c *gin.Context) {
	var input service.LeadInput
	if !bindJSON(c, &input, "提交内容格式不正确") {
		return
	}
	input.IP = c.ClientIP()
	input.UserAgent = c.Request.UserAgent()

	lead, notify, err := a.leads.Create(c.Request.Context(), input)
	if err != nil {
		var fieldErrors validation.Errors
		if errors.As(err, &fieldErrors) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "请检查表单内容", "fields": fieldErrors})
			return
		}
		a.logger.Error().Err(err).Msg("create lead failed")
		respondError(c, http.StatusInternalServerError, "提交失败，请稍后重试")
		return
	}

	// 通知失败已在服务层记日志，这里不向访客暴露
	_ = notify

	c.JSON(http.StatusOK, gin.H{
		"message": "消息已发送，我会尽快回复你",
		"id":      lead.ID,
	})
}
