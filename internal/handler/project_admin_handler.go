package handler

import (
	"errors"
	"net/http"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

type projectPayload struct {
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	ShortDescription string     `json:"shortDescription"`
	Body             string     `json:"body"`
	CoverImageURL    string     `json:"coverImageUrl"`
	RepoURL          string     `json:"repoUrl"`
	LiveURL          string     `json:"liveUrl"`
	Featured         *bool      `json:"featured"`
	Status           string     `json:"status"`
	Sort             *int       `json:"sort"`
	SEO              seoPayload `json:"seo"`
}

func (p projectPayload) toInput() service.ProjectInput {
	return service.ProjectInput{
		Slug:             p.Slug,
		Title:            p.Title,
		ShortDescription: p.ShortDescription,
		Body:             p.Body,
		CoverImageURL:    p.CoverImageURL,
		RepoURL:          p.RepoURL,
		LiveURL:          p.LiveURL,
		Featured:         p.Featured,
		Status:           p.Status,
		Sort:             p.Sort,
		SEO:              p.SEO.toInput(),
	}
}

// ListProjectsAdmin 返回项目列表，支持关键字、状态与分页过滤。
func (a *API) ListProjectsAdmin(c *gin.Context) {
	filter := service.ProjectFilter{
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		FeaturedOnly: c.Query("featured") == "true",
		Page:         parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:      parsePositiveInt(c.DefaultQuery("perPage", "20"), 20),
	}

	result, err := a.projects.List(filter)
	if err != nil {
		a.logger.Error().Err(err).Msg("list projects failed")
		respondError(c, http.StatusInternalServerError, "获取项目失败")
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

// GetProjectAdmin 返回单个项目行及其图集、技术栈和关联评价。
func (a *API) GetProjectAdmin(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}

	project, err := a.projects.Get(id)
	if err != nil {
		a.respondProjectError(c, err)
		return
	}

	images, err := a.projects.ListImages(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取项目图片失败")
		return
	}
	tech, err := a.projects.ListTech(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取技术栈失败")
		return
	}
	testimonials, err := a.testimonials.ListForProject(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取评价失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":      project,
		"images":       images,
		"tech":         tech,
		"testimonials": testimonials,
	})
}

// CreateProject 新增项目并触发项目路由重新验证。
func (a *API) CreateProject(c *gin.Context) {
	var payload projectPayload
	if !bindJSON(c, &payload, "项目内容格式不正确") {
		return
	}

	project, err := a.projects.Save(0, payload.toInput())
	if err != nil {
		a.respondProjectError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindProject, project.Slug)
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// UpdateProject 更新项目并触发项目路由重新验证。
// slug 变更时旧详情路由也会失效，避免缓存残留。
func (a *API) UpdateProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload projectPayload
	if !bindJSON(c, &payload, "项目内容格式不正确") {
		return
	}

	before, err := a.projects.Get(id)
	if err != nil {
		a.respondProjectError(c, err)
		return
	}
	oldSlug := before.Slug

	project, err := a.projects.Save(id, payload.toInput())
	if err != nil {
		a.respondProjectError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindProject, project.Slug)
	if oldSlug != project.Slug {
		a.revalidator.Invalidate(service.RevalidateKindProject, oldSlug)
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject 删除项目及其图集、技术栈和关联评价。
func (a *API) DeleteProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}

	project, err := a.projects.Get(id)
	if err != nil {
		a.respondProjectError(c, err)
		return
	}

	if err := a.projects.Delete(id); err != nil {
		a.respondProjectError(c, err)
		return
	}

	a.revalidator.Invalidate(service.RevalidateKindProject, project.Slug)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

type projectImagePayload struct {
	ImageURL    string `json:"imageUrl"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
	Caption     string `json:"caption"`
	Sort        *int   `json:"sort"`
}

// AddProjectImage 为项目图集追加一张图片。
func (a *API) AddProjectImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload projectImagePayload
	if !bindJSON(c, &payload, "图片内容格式不正确") {
		return
	}

	image, err := a.projects.AddImage(id, service.ProjectImageInput{
		ImageURL:    payload.ImageURL,
		ImageWidth:  payload.ImageWidth,
		ImageHeight: payload.ImageHeight,
		Caption:     payload.Caption,
		Sort:        payload.Sort,
	})
	if err != nil {
		a.respondProjectError(c, err)
		return
	}

	a.invalidateProjectByID(id)
	c.JSON(http.StatusCreated, gin.H{"image": image})
}

// DeleteProjectImage 删除项目图集中的一张图片。
func (a *API) DeleteProjectImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	imageID, err := parseUintParam(c, "imageId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的图片编号")
		return
	}

	if err := a.projects.DeleteImage(imageID); err != nil {
		a.respondProjectError(c, err)
		return
	}

	a.invalidateProjectByID(id)
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

type techListPayload struct {
	Items []struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	} `json:"items"`
}

// ReplaceProjectTech 整体替换项目技术栈，顺序即排序。
func (a *API) ReplaceProjectTech(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的编号")
		return
	}
	var payload techListPayload
	if !bindJSON(c, &payload, "技术栈内容格式不正确") {
		return
	}

	inputs := make([]service.TechInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		inputs = append(inputs, service.TechInput{Name: item.Name, Icon: item.Icon})
	}

	tech, err := a.projects.ReplaceTech(id, inputs)
	if err != nil {
		a.respondProjectError(c, err)
		return
	}

	a.invalidateProjectByID(id)
	c.JSON(http.StatusOK, gin.H{"tech": tech})
}

func (a *API) invalidateProjectByID(id uint) {
	project, err := a.projects.Get(id)
	if err != nil {
		return
	}
	a.revalidator.Invalidate(service.RevalidateKindProject, project.Slug)
}

func (a *API) respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondError(c, http.StatusNotFound, "项目不存在")
	case errors.Is(err, service.ErrProjectImageUnknown):
		respondError(c, http.StatusNotFound, "项目图片不存在")
	case errors.Is(err, service.ErrProjectSlugTaken):
		respondError(c, http.StatusConflict, "该 slug 已被使用")
	case errors.Is(err, service.ErrProjectTitleMissing),
		errors.Is(err, service.ErrProjectSlugMissing),
		errors.Is(err, service.ErrProjectImageMissing):
		respondError(c, http.StatusBadRequest, "请填写必填字段")
	default:
		a.logger.Error().Err(err).Msg("project mutation failed")
		respondError(c, http.StatusInternalServerError, "保存失败，请稍后重试")
	}
}
