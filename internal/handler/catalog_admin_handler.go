package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// servicesPage 解析 services 页面行，服务条目与流程步骤都挂在它下面。
func (a *API) servicesPage(c *gin.Context) (*db.Page, bool) {
	page, err := a.pages.GetBySlug(db.PageSlugServices)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载页面失败")
		return nil, false
	}
	return page, true
}

type serviceItemPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Sort        *int     `json:"sort"`
	Benefits    []string `json:"benefits"`
}

func (p serviceItemPayload) toInput() service.ServiceItemInput {
	return service.ServiceItemInput{
		Title:       p.Title,
		Description: p.Description,
		Icon:        p.Icon,
		Sort:        p.Sort,
		Benefits:    p.Benefits,
	}
}

// ListServicesAdmin 返回服务条目及卖点列表。
func (a *API) ListServicesAdmin(c *gin.Context) {
	page, ok := a.servicesPage(c)
	if !ok {
		return
	}
	items, err := a.catalog.ListServices(page.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取服务条目失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateServiceItem 新增服务条目并触发 services 页重新验证。
func (a *API) CreateServiceItem(c *gin.Context) {
	var payload serviceItemPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.servicesPage(c)
	if !ok {
		return
	}

	item, err := a.catalog.SaveService(page.ID, 0, payload.toInput())
	if err != nil {
		a.respondCatalogError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugServices)
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateServiceItem 更新服务条目，卖点整体替换。
func (a *API) UpdateServiceItem(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload serviceItemPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.servicesPage(c)
	if !ok {
		return
	}

	item, err := a.catalog.SaveService(page.ID, id, payload.toInput())
	if err != nil {
		a.respondCatalogError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugServices)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteServiceItem 删除服务条目及其卖点。
func (a *API) DeleteServiceItem(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	if err := a.catalog.DeleteService(id); err != nil {
		a.respondCatalogError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugServices)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

type processStepPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Sort        *int   `json:"sort"`
}

// ListProcessStepsAdmin 返回流程步骤列表。
func (a *API) ListProcessStepsAdmin(c *gin.Context) {
	page, ok := a.servicesPage(c)
	if !ok {
		return
	}
	steps, err := a.catalog.ListProcessSteps(page.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取流程步骤失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": steps})
}

// CreateProcessStep 新增流程步骤。
func (a *API) CreateProcessStep(c *gin.Context) {
	var payload processStepPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.servicesPage(c)
	if !ok {
		return
	}

	step, err := a.catalog.SaveProcessStep(page.ID, 0, service.ProcessStepInput{
		Title:       payload.Title,
		Description: payload.Description,
		Sort:        payload.Sort,
	})
	if err != nil {
		a.respondCatalogError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugServices)
	c.JSON(http.StatusCreated, gin.H{"item": step})
}

// UpdateProcessStep 更新流程步骤。
func (a *API) UpdateProcessStep(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload processStepPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.servicesPage(c)
	if !ok {
		return
	}

	step, err := a.catalog.SaveProcessStep(page.ID, id, service.ProcessStepInput{
		Title:       payload.Title,
		Description: payload.Description,
		Sort:        payload.Sort,
	})
	if err != nil {
		a.respondCatalogError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugServices)
	c.JSON(http.StatusOK, gin.H{"item": step})
}

// DeleteProcessStep 删除流程步骤。
func (a *API) DeleteProcessStep(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	if err := a.catalog.DeleteProcessStep(id); err != nil {
		a.respondCatalogError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugServices)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

func (a *API) respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrServiceItemNotFound):
		respondError(c, http.StatusNotFound, "服务条目不存在")
	case errors.Is(err, service.ErrProcessStepNotFound):
		respondError(c, http.StatusNotFound, "流程步骤不存在")
	case errors.Is(err, service.ErrCatalogInvalidInput):
		respondError(c, http.StatusBadRequest, "请填写必填字段")
	default:
		a.logger.Error().Err(err).Msg("catalog mutation failed")
		respondError(c, http.StatusInternalServerError, "保存失败，请稍后重试")
	}
}
