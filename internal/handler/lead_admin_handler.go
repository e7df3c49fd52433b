package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// ListLeads 返回线索列表，支持按状态过滤与分页。
func (a *API) ListLeads(c *gin.Context) {
	filter := service.LeadFilter{
		Status:  c.Query("status"),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("perPage", "20"), 20),
	}

	result, err := a.leads.List(filter)
	if err != nil {
		a.logger.Error().Err(err).Msg("list leads failed")
		respondError(c, http.StatusInternalServerError, "获取线索失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      result.Items,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

// GetLead 返回单条线索详情。
func (a *API) GetLead(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}

	lead, err := a.leads.Get(id)
	if err != nil {
		a.respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// MarkLeadRead 将新线索标记为已读，其他状态保持不变。
func (a *API) MarkLeadRead(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}

	lead, err := a.leads.MarkRead(id)
	if err != nil {
		a.respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

type leadReplyPayload struct {
	Message string `json:"message"`
}

// ReplyLead 回复一条线索。
// 回复内容落库即视为成功，邮件发送结果单独返回给后台展示。
func (a *API) ReplyLead(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload leadReplyPayload
	if !bindJSON(c, &payload, "回复内容格式不正确") {
		return
	}

	lead, notify, err := a.leads.Reply(c.Request.Context(), id, payload.Message)
	if err != nil {
		a.respondLeadError(c, err)
		return
	}

	response := gin.H{"message": "回复已保存", "lead": lead}
	if notify.Attempted && notify.Err != nil {
		response["mailSent"] = false
	} else if notify.Attempted {
		response["mailSent"] = true
	}

	c.JSON(http.StatusOK, response)
}

func (a *API) respondLeadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeadNotFound):
		respondError(c, http.StatusNotFound, "线索不存在")
	case errors.Is(err, service.ErrLeadAlreadyReplied):
		respondError(c, http.StatusConflict, "该线索已回复过")
	case errors.Is(err, service.ErrReplyMessageEmpty):
		respondError(c, http.StatusBadRequest, "请填写回复内容")
	default:
		a.logger.Error().Err(err).Msg("lead mutation failed")
		respondError(c, http.StatusInternalServerError, "操作失败，请稍后重试")
	}
}
