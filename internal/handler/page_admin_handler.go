package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

type heroPayload struct {
	Title     string `json:"title"`
	Highlight string `json:"highlight"`
	Subtitle  string `json:"subtitle"`
	CTALabel  string `json:"ctaLabel"`
	CTAURL    string `json:"ctaUrl"`
	ImageURL  string `json:"imageUrl"`
}

type seoPayload struct {
	SEOTitle           string `json:"seoTitle"`
	SEODescription     string `json:"seoDescription"`
	SEOKeywords        string `json:"seoKeywords"`
	CanonicalURL       string `json:"canonicalUrl"`
	Robots             string `json:"robots"`
	OGTitle            string `json:"ogTitle"`
	OGDescription      string `json:"ogDescription"`
	OGImageURL         string `json:"ogImageUrl"`
	TwitterTitle       string `json:"twitterTitle"`
	TwitterDescription string `json:"twitterDescription"`
	TwitterImageURL    string `json:"twitterImageUrl"`
}

func (p seoPayload) toInput() service.SEOInput {
	return service.SEOInput{
		SEOTitle:           p.SEOTitle,
		SEODescription:     p.SEODescription,
		SEOKeywords:        p.SEOKeywords,
		CanonicalURL:       p.CanonicalURL,
		Robots:             p.Robots,
		OGTitle:            p.OGTitle,
		OGDescription:      p.OGDescription,
		OGImageURL:         p.OGImageURL,
		TwitterTitle:       p.TwitterTitle,
		TwitterDescription: p.TwitterDescription,
		TwitterImageURL:    p.TwitterImageURL,
	}
}

type bodyPayload struct {
	Body string `json:"body"`
}

// GetPageAdmin 返回页面原始行，供后台编辑表单使用。
func (a *API) GetPageAdmin(c *gin.Context) {
	page, err := a.pages.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "页面不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "加载页面失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

// UpdateHero 保存页面首屏字段并触发对应路由的重新验证。
func (a *API) UpdateHero(c *gin.Context) {
	var payload heroPayload
	if !bindJSON(c, &payload, "首屏内容格式不正确") {
		return
	}

	page, err := a.pages.UpdateHero(c.Param("slug"), service.HeroInput{
		Title:     payload.Title,
		Highlight: payload.Highlight,
		Subtitle:  payload.Subtitle,
		CTALabel:  payload.CTALabel,
		CTAURL:    payload.CTAURL,
		ImageURL:  payload.ImageURL,
	})
	if err != nil {
		a.respondPageError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, page.Slug)

	c.JSON(http.StatusOK, gin.H{"message": "首屏已更新", "page": page})
}

// UpdatePageSEO 保存页面 SEO 覆盖字段并触发重新验证。
func (a *API) UpdatePageSEO(c *gin.Context) {
	var payload seoPayload
	if !bindJSON(c, &payload, "SEO 内容格式不正确") {
		return
	}

	page, err := a.pages.UpdateSEO(c.Param("slug"), payload.toInput())
	if err != nil {
		a.respondPageError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, page.Slug)

	c.JSON(http.StatusOK, gin.H{"message": "SEO 已更新", "page": page})
}

// UpdatePageBody 保存页面 Markdown 正文并触发重新验证。
func (a *API) UpdatePageBody(c *gin.Context) {
	var payload bodyPayload
	if !bindJSON(c, &payload, "正文格式不正确") {
		return
	}

	page, err := a.pages.UpdateBody(c.Param("slug"), payload.Body)
	if err != nil {
		a.respondPageError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, page.Slug)

	c.JSON(http.StatusOK, gin.H{"message": "正文已更新", "page": page})
}

type titlePayload struct {
	Title string `json:"title"`
}

// UpdatePageTitle 保存页面通用标题并触发重新验证。
func (a *API) UpdatePageTitle(c *gin.Context) {
	var payload titlePayload
	if !bindJSON(c, &payload, "标题格式不正确") {
		return
	}

	page, err := a.pages.UpdateTitle(c.Param("slug"), payload.Title)
	if err != nil {
		a.respondPageError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, page.Slug)

	c.JSON(http.StatusOK, gin.H{"message": "标题已更新", "page": page})
}

func (a *API) respondPageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPageNotFound):
		respondError(c, http.StatusNotFound, "页面不存在")
	case errors.Is(err, service.ErrPageTitleEmpty):
		respondError(c, http.StatusBadRequest, "请填写页面标题")
	default:
		a.logger.Error().Err(err).Msg("update page failed")
		respondError(c, http.StatusInternalServerError, "保存失败，请稍后重试")
	}
}

// aboutPage 解析 about 页面行，about 页的子集合都挂在它下面。
func (a *API) aboutPage(c *gin.Context) (*db.Page, bool) {
	page, err := a.pages.GetBySlug(db.PageSlugAbout)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载页面失败")
		return nil, false
	}
	return page, true
}

type experiencePayload struct {
	Role    string `json:"role"`
	Company string `json:"company"`
	Period  string `json:"period"`
	Summary string `json:"summary"`
	Sort    *int   `json:"sort"`
}

func (p experiencePayload) toInput() service.ExperienceInput {
	return service.ExperienceInput{
		Role:    p.Role,
		Company: p.Company,
		Period:  p.Period,
		Summary: p.Summary,
		Sort:    p.Sort,
	}
}

// ListExperienceAdmin 返回工作经历列表。
func (a *API) ListExperienceAdmin(c *gin.Context) {
	page, ok := a.aboutPage(c)
	if !ok {
		return
	}
	items, err := a.sections.ListExperience(page.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取工作经历失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateExperience 新增工作经历并触发 about 页重新验证。
func (a *API) CreateExperience(c *gin.Context) {
	var payload experiencePayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.aboutPage(c)
	if !ok {
		return
	}

	item, err := a.sections.CreateExperience(page.ID, payload.toInput())
	if err != nil {
		a.respondSectionError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugAbout)
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateExperience 更新工作经历并触发 about 页重新验证。
func (a *API) UpdateExperience(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload experiencePayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}

	item, err := a.sections.UpdateExperience(id, payload.toInput())
	if err != nil {
		a.respondSectionError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugAbout)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteExperience 删除工作经历并触发 about 页重新验证。
func (a *API) DeleteExperience(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	if err := a.sections.DeleteExperience(id); err != nil {
		a.respondSectionError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugAbout)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

type educationPayload struct {
	Degree  string `json:"degree"`
	School  string `json:"school"`
	Period  string `json:"period"`
	Summary string `json:"summary"`
	Sort    *int   `json:"sort"`
}

func (p educationPayload) toInput() service.EducationInput {
	return service.EducationInput{
		Degree:  p.Degree,
		School:  p.School,
		Period:  p.Period,
		Summary: p.Summary,
		Sort:    p.Sort,
	}
}

// ListEducationAdmin 返回教育经历列表。
func (a *API) ListEducationAdmin(c *gin.Context) {
	page, ok := a.aboutPage(c)
	if !ok {
		return
	}
	items, err := a.sections.ListEducation(page.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取教育经历失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateEducation 新增教育经历。
func (a *API) CreateEducation(c *gin.Context) {
	var payload educationPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.aboutPage(c)
	if !ok {
		return
	}

	item, err := a.sections.CreateEducation(page.ID, payload.toInput())
	if err != nil {
		a.respondSectionError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugAbout)
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateEducation 更新教育经历。
func (a *API) UpdateEducation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload educationPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}

	item, err := a.sections.UpdateEducation(id, payload.toInput())
	if err != nil {
		a.respondSectionError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugAbout)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteEducation 删除教育经历。
func (a *API) DeleteEducation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	if err := a.sections.DeleteEducation(id); err != nil {
		a.respondSectionError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugAbout)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

type certificationPayload struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
	URL    string `json:"url"`
	Sort   *int   `json:"sort"`
}

func (p certificationPayload) toInput() service.CertificationInput {
	return service.CertificationInput{
		Name:   p.Name,
		Issuer: p.Issuer,
		Year:   p.Year,
		URL:    p.URL,
		Sort:   p.Sort,
	}
}

// ListCertificationsAdmin 返回认证列表。
func (a *API) ListCertificationsAdmin(c *gin.Context) {
	page, ok := a.aboutPage(c)
	if !ok {
		return
	}
	items, err := a.sections.ListCertifications(page.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取认证失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateCertification 新增认证。
func (a *API) CreateCertification(c *gin.Context) {
	var payload certificationPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}
	page, ok := a.aboutPage(c)
	if !ok {
		return
	}

	item, err := a.sections.CreateCertification(page.ID, payload.toInput())
	if err != nil {
		a.respondSectionError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugAbout)
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateCertification 更新认证。
func (a *API) UpdateCertification(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload certificationPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}

	item, err := a.sections.UpdateCertification(id, payload.toInput())
	if err != nil {
		a.respondSectionError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugAbout)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteCertification 删除认证。
func (a *API) DeleteCertification(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	if err := a.sections.DeleteCertification(id); err != nil {
		a.respondSectionError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindPage, db.PageSlugAbout)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

func (a *API) respondSectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSectionItemNotFound):
		respondError(c, http.StatusNotFound, "条目不存在")
	case errors.Is(err, service.ErrSectionItemInvalidInput):
		respondError(c, http.StatusBadRequest, "请填写必填字段")
	default:
		a.logger.Error().Err(err).Msg("section mutation failed")
		respondError(c, http.StatusInternalServerError, "保存失败，请稍后重试")
	}
}
