package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

type testimonialPayload struct {
	ProjectID *uint  `json:"projectId"`
	Author    string `json:"author"`
	RoleLine  string `json:"roleLine"`
	Quote     string `json:"quote"`
	AvatarURL string `json:"avatarUrl"`
	Rating    *int   `json:"rating"`
	Featured  *bool  `json:"featured"`
	Sort      *int   `json:"sort"`
}

func (p testimonialPayload) toInput() service.TestimonialInput {
	return service.TestimonialInput{
		ProjectID: p.ProjectID,
		Author:    p.Author,
		RoleLine:  p.RoleLine,
		Quote:     p.Quote,
		AvatarURL: p.AvatarURL,
		Rating:    p.Rating,
		Featured:  p.Featured,
		Sort:      p.Sort,
	}
}

// ListTestimonialsAdmin 返回全部评价。
func (a *API) ListTestimonialsAdmin(c *gin.Context) {
	items, err := a.testimonials.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取评价失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateTestimonial 新增评价，首页精选区会随之刷新。
func (a *API) CreateTestimonial(c *gin.Context) {
	var payload testimonialPayload
	if !bindJSON(c, &payload, "评价内容格式不正确") {
		return
	}

	item, err := a.testimonials.Save(0, payload.toInput())
	if err != nil {
		a.respondTestimonialError(c, err)
		return
	}

	a.invalidateTestimonialRoutes(item)
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateTestimonial 更新评价。
func (a *API) UpdateTestimonial(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload testimonialPayload
	if !bindJSON(c, &payload, "评价内容格式不正确") {
		return
	}

	item, err := a.testimonials.Save(id, payload.toInput())
	if err != nil {
		a.respondTestimonialError(c, err)
		return
	}

	a.invalidateTestimonialRoutes(item)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteTestimonial 删除评价。
func (a *API) DeleteTestimonial(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	if err := a.testimonials.Delete(id); err != nil {
		a.respondTestimonialError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugHome)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

// invalidateTestimonialRoutes 让首页与关联项目的详情路由失效。
func (a *API) invalidateTestimonialRoutes(item *db.Testimonial) {
	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugHome)
	if item.ProjectID != nil {
		a.invalidateProjectByID(*item.ProjectID)
	}
}

func (a *API) respondTestimonialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestimonialNotFound):
		respondError(c, http.StatusNotFound, "评价不存在")
	case errors.Is(err, service.ErrProjectNotFound):
		respondError(c, http.StatusBadRequest, "关联的项目不存在")
	case errors.Is(err, service.ErrTestimonialInvalidInput):
		respondError(c, http.StatusBadRequest, "请填写必填字段")
	default:
		a.logger.Error().Err(err).Msg("testimonial mutation failed")
		respondError(c, http.StatusInternalServerError, "保存失败，请稍后重试")
	}
}
