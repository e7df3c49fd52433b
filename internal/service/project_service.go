package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectTitleMissing = errors.New("project title is required")
	ErrProjectSlugMissing  = errors.New("project slug is required")
	ErrProjectSlugTaken    = errors.New("project slug already in use")
	ErrProjectImageMissing = errors.New("project image is required")
	ErrProjectImageUnknown = errors.New("project image not found")
)

// ProjectService handles project CRUD including gallery and tech stack rows.
type ProjectService struct {
	db *gorm.DB
}

// NewProjectService creates a ProjectService instance.
func NewProjectService(gdb *gorm.DB) *ProjectService {
	return &ProjectService{db: gdb}
}

// ProjectFilter describes filters for listing projects.
type ProjectFilter struct {
	Search       string
	Status       string
	FeaturedOnly bool
	Page         int
	PerPage      int
}

// ProjectListResult aggregates paginated project results.
type ProjectListResult struct {
	Items      []db.Project
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// ProjectInput represents fields accepted when creating or updating a project.
type ProjectInput struct {
	Slug             string
	Title            string
	ShortDescription string
	Body             string
	CoverImageURL    string
	RepoURL          string
	LiveURL          string
	Featured         *bool
	Status           string
	Sort             *int
	SEO              SEOInput
}

// List returns projects matching the filter, ordered by sort index ascending.
func (s *ProjectService) List(filter ProjectFilter) (ProjectListResult, error) {
	result := ProjectListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 12),
	}

	query := s.db.Model(&db.Project{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR short_description LIKE ?", like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, fmt.Errorf("count projects: %w", err)
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("sort ASC, id ASC").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, fmt.Errorf("list projects: %w", err)
	}

	return result, nil
}

// ListPublished returns published projects without pagination, for the listing page.
func (s *ProjectService) ListPublished() ([]db.Project, error) {
	var items []db.Project
	if err := s.db.Where("status = ?", db.ProjectStatusPublished).
		Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list published projects: %w", err)
	}
	return items, nil
}

// ListFeatured returns published featured projects for the home page.
func (s *ProjectService) ListFeatured(limit int) ([]db.Project, error) {
	if limit <= 0 {
		limit = 3
	}
	var items []db.Project
	if err := s.db.Where("status = ? AND featured = ?", db.ProjectStatusPublished, true).
		Order("sort ASC, id ASC").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list featured projects: %w", err)
	}
	return items, nil
}

// GetBySlug fetches a project for a given slug.
func (s *ProjectService) GetBySlug(slug string) (*db.Project, error) {
	var project db.Project
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project %q: %w", slug, err)
	}
	return &project, nil
}

// Get fetches a project by id.
func (s *ProjectService) Get(id uint) (*db.Project, error) {
	var project db.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return &project, nil
}

// Save creates or updates a project. id 为 0 时创建。
func (s *ProjectService) Save(id uint, input ProjectInput) (*db.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrProjectTitleMissing
	}
	slug := normalizeSlug(input.Slug)
	if slug == "" {
		return nil, ErrProjectSlugMissing
	}

	var project db.Project
	if id == 0 {
		project = db.Project{}
	} else {
		if err := s.db.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("get project %d: %w", id, err)
		}
	}

	// slug 唯一性检查，排除自身
	var count int64
	if err := s.db.Model(&db.Project{}).
		Where("slug = ? AND id <> ?", slug, project.ID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check project slug: %w", err)
	}
	if count > 0 {
		return nil, ErrProjectSlugTaken
	}

	project.Slug = slug
	project.Title = title
	project.ShortDescription = strings.TrimSpace(input.ShortDescription)
	project.Body = strings.TrimSpace(input.Body)
	project.CoverImageURL = strings.TrimSpace(input.CoverImageURL)
	project.RepoURL = strings.TrimSpace(input.RepoURL)
	project.LiveURL = strings.TrimSpace(input.LiveURL)
	if input.Featured != nil {
		project.Featured = *input.Featured
	}
	project.Status = normalizeProjectStatus(input.Status)
	if input.Sort != nil {
		project.Sort = *input.Sort
	}

	project.SEOTitle = strings.TrimSpace(input.SEO.SEOTitle)
	project.SEODescription = strings.TrimSpace(input.SEO.SEODescription)
	project.SEOKeywords = strings.TrimSpace(input.SEO.SEOKeywords)
	project.CanonicalURL = strings.TrimSpace(input.SEO.CanonicalURL)
	project.Robots = strings.TrimSpace(input.SEO.Robots)
	project.OGTitle = strings.TrimSpace(input.SEO.OGTitle)
	project.OGDescription = strings.TrimSpace(input.SEO.OGDescription)
	project.OGImageURL = strings.TrimSpace(input.SEO.OGImageURL)
	project.TwitterTitle = strings.TrimSpace(input.SEO.TwitterTitle)
	project.TwitterDescription = strings.TrimSpace(input.SEO.TwitterDescription)
	project.TwitterImageURL = strings.TrimSpace(input.SEO.TwitterImageURL)

	if err := s.db.Save(&project).Error; err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	return &project, nil
}

// Delete 删除项目并级联删除其图库、技术栈与评价。
func (s *ProjectService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&db.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		if err := tx.Where("project_id = ?", id).Delete(&db.ProjectImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&db.ProjectTech{}).Error; err != nil {
			return err
		}
		return tx.Where("project_id = ?", id).Delete(&db.Testimonial{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return err
		}
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// ListImages returns the project's gallery ordered by sort index.
func (s *ProjectService) ListImages(projectID uint) ([]db.ProjectImage, error) {
	var images []db.ProjectImage
	if err := s.db.Where("project_id = ?", projectID).
		Order("sort ASC, id ASC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("list project images: %w", err)
	}
	return images, nil
}

// ProjectImageInput represents fields accepted when attaching a gallery image.
type ProjectImageInput struct {
	ImageURL    string
	ImageWidth  int
	ImageHeight int
	Caption     string
	Sort        *int
}

// AddImage attaches an image to the project's gallery.
func (s *ProjectService) AddImage(projectID uint, input ProjectImageInput) (*db.ProjectImage, error) {
	url := strings.TrimSpace(input.ImageURL)
	if url == "" {
		return nil, ErrProjectImageMissing
	}

	if _, err := s.Get(projectID); err != nil {
		return nil, err
	}

	image := db.ProjectImage{
		ProjectID:   projectID,
		ImageURL:    url,
		ImageWidth:  input.ImageWidth,
		ImageHeight: input.ImageHeight,
		Caption:     strings.TrimSpace(input.Caption),
		Sort:        sortOrDefault(input.Sort),
	}
	if err := s.db.Create(&image).Error; err != nil {
		return nil, fmt.Errorf("add project image: %w", err)
	}
	return &image, nil
}

// DeleteImage removes an image from the gallery.
func (s *ProjectService) DeleteImage(id uint) error {
	result := s.db.Delete(&db.ProjectImage{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete project image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProjectImageUnknown
	}
	return nil
}

// ListTech returns the project's tech stack ordered by sort index.
func (s *ProjectService) ListTech(projectID uint) ([]db.ProjectTech, error) {
	var tech []db.ProjectTech
	if err := s.db.Where("project_id = ?", projectID).
		Order("sort ASC, id ASC").Find(&tech).Error; err != nil {
		return nil, fmt.Errorf("list project tech: %w", err)
	}
	return tech, nil
}

// TechInput 描述技术栈条目。
type TechInput struct {
	Name string
	Icon string
}

// ReplaceTech 整体替换项目的技术栈，排序沿用传入顺序。
func (s *ProjectService) ReplaceTech(projectID uint, inputs []TechInput) ([]db.ProjectTech, error) {
	if _, err := s.Get(projectID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&db.ProjectTech{}).Error; err != nil {
			return err
		}
		for i, input := range inputs {
			name := strings.TrimSpace(input.Name)
			if name == "" {
				continue
			}
			row := db.ProjectTech{
				ProjectID: projectID,
				Name:      name,
				Icon:      strings.ToLower(strings.TrimSpace(input.Icon)),
				Sort:      i,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replace project tech: %w", err)
	}

	return s.ListTech(projectID)
}

func normalizeProjectStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case db.ProjectStatusDraft:
		return db.ProjectStatusDraft
	default:
		return db.ProjectStatusPublished
	}
}

func normalizeSlug(slug string) string {
	trimmed := strings.ToLower(strings.TrimSpace(slug))
	trimmed = strings.ReplaceAll(trimmed, " ", "-")
	return strings.Trim(trimmed, "-")
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage < 1 {
		return fallback
	}
	if perPage > 100 {
		return 100
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if total == 0 {
		return 0
	}
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}
