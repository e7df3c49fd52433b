package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// contactPage 解析 contact 页面行，联系方式与卖点文案都挂在它下面。
func (a *API) contactPage(c *gin.Context) (*db.Page, bool) {
	page, err := a.pages.GetBySlug(db.PageSlugContact)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载页面失败")
		return nil, false
	}
	return page, true
}

type contactMethodPayload struct {
	Platform string `json:"platform"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Link     string `json:"link"`
	Icon     string `json:"icon"`
	Sort     *int   `json:"sort"`
	Visible  *bool  `json:"visible"`
}

func (p contactMethodPayload) toInput() service.ContactMethodInput {
	return service.ContactMethodInput{
		Platform: p.Platform,
		Label:    p.Label,
		Value:    p.Value,
		Link:     p.Link,
		Icon:     p.Icon,
		Sort:     p.Sort,
		Visible:  p.Visible,
	}
}

// ListContactMethodsAdmin 返回全部联系方式，包含隐藏条目。
func (a *API) ListContactMethodsAdmin(c *gin.Context) {
	page, ok := a.contactPage(c)
	if !ok {
		return
	}
	items, err := a.contacts.ListMethods(page.ID, true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取联系方式失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateContactMethod 新增联系方式并触发 contact 页重新验证。
func (a *API) CreateContactMethod(c *gin.Context) {
	var payload contactMethodPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.contactPage(c)
	if !ok {
		return
	}

	item, err := a.contacts.CreateMethod(page.ID, payload.toInput())
	if err != nil {
		a.respondContactError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugContact)
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateContactMethod 更新联系方式。
func (a *API) UpdateContactMethod(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload contactMethodPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}

	item, err := a.contacts.UpdateMethod(id, payload.toInput())
	if err != nil {
		a.respondContactError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugContact)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteContactMethod 删除联系方式。
func (a *API) DeleteContactMethod(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	if err := a.contacts.DeleteMethod(id); err != nil {
		a.respondContactError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugContact)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

type contactFeaturePayload struct {
	Text string `json:"text"`
	Sort *int   `json:"sort"`
}

// ListContactFeaturesAdmin 返回联系页卖点文案列表。
func (a *API) ListContactFeaturesAdmin(c *gin.Context) {
	page, ok := a.contactPage(c)
	if !ok {
		return
	}
	items, err := a.contacts.ListFeatures(page.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取卖点文案失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateContactFeature 新增卖点文案。
func (a *API) CreateContactFeature(c *gin.Context) {
	var payload contactFeaturePayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.contactPage(c)
	if !ok {
		return
	}

	item, err := a.contacts.SaveFeature(page.ID, 0, service.ContactFeatureInput{Text: payload.Text, Sort: payload.Sort})
	if err != nil {
		a.respondContactError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugContact)
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateContactFeature 更新卖点文案。
func (a *API) UpdateContactFeature(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload contactFeaturePayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.contactPage(c)
	if !ok {
		return
	}

	item, err := a.contacts.SaveFeature(page.ID, id, service.ContactFeatureInput{Text: payload.Text, Sort: payload.Sort})
	if err != nil {
		a.respondContactError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugContact)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteContactFeature 删除卖点文案。
func (a *API) DeleteContactFeature(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	if err := a.contacts.DeleteFeature(id); err != nil {
		a.respondContactError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugContact)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

func (a *API) respondContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrContactMethodNotFound):
		respondError(c, http.StatusNotFound, "联系方式不存在")
	case errors.Is(err, service.ErrContactFeatureNotFound):
		respondError(c, http.StatusNotFound, "卖点文案不存在")
	case errors.Is(err, service.ErrContactInvalidInput):
		respondError(c, http.StatusBadRequest, "请填写必填字段")
	default:
		a.logger.Error().Err(err).Msg("contact mutation failed")
		respondError(c, http.StatusInternalServerError, "保存失败，请稍后重试")
	}
}
