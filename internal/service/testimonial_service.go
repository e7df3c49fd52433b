package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrTestimonialNotFound 在指定的评价不存在时返回
	ErrTestimonialNotFound = errors.New("testimonial not found")
	// ErrTestimonialInvalidInput 在输入数据不完整时返回
	ErrTestimonialInvalidInput = errors.New("invalid testimonial input")
)

// TestimonialService 负责维护客户评价，评价可选关联项目。
type TestimonialService struct {
	db *gorm.DB
}

// NewTestimonialService 构造 TestimonialService
func NewTestimonialService(gdb *gorm.DB) *TestimonialService {
	return &TestimonialService{db: gdb}
}

// TestimonialInput 描述创建或更新评价时可设置的字段
type TestimonialInput struct {
	ProjectID *uint
	Author    string
	RoleLine  string
	Quote     string
	AvatarURL string
	Rating    *int
	Featured  *bool
	Sort      *int
}

// List 返回全部评价，按排序值升序。
func (s *TestimonialService) List() ([]db.Testimonial, error) {
	var items []db.Testimonial
	if err := s.db.Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return items, nil
}

// ListFeatured 返回首页展示的精选评价。
func (s *TestimonialService) ListFeatured(limit int) ([]db.Testimonial, error) {
	if limit <= 0 {
		limit = 4
	}
	var items []db.Testimonial
	if err := s.db.Where("featured = ?", true).
		Order("sort ASC, id ASC").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list featured testimonials: %w", err)
	}
	return items, nil
}

// ListForProject 返回关联到某个项目的评价。
func (s *TestimonialService) ListForProject(projectID uint) ([]db.Testimonial, error) {
	var items []db.Testimonial
	if err := s.db.Where("project_id = ?", projectID).
		Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list project testimonials: %w", err)
	}
	return items, nil
}

// Save 创建或更新一条评价，id 为 0 时创建。
func (s *TestimonialService) Save(id uint, input TestimonialInput) (*db.Testimonial, error) {
	author := strings.TrimSpace(input.Author)
	quote := strings.TrimSpace(input.Quote)
	if author == "" || quote == "" {
		return nil, ErrTestimonialInvalidInput
	}

	var item db.Testimonial
	if id == 0 {
		item = db.Testimonial{}
	} else {
		if err := s.db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTestimonialNotFound
			}
			return nil, fmt.Errorf("get testimonial: %w", err)
		}
	}

	// 关联的项目必须真实存在
	if input.ProjectID != nil && *input.ProjectID != 0 {
		var count int64
		if err := s.db.Model(&db.Project{}).Where("id = ?", *input.ProjectID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check testimonial project: %w", err)
		}
		if count == 0 {
			return nil, ErrProjectNotFound
		}
		item.ProjectID = input.ProjectID
	} else {
		item.ProjectID = nil
	}

	item.Author = author
	item.RoleLine = strings.TrimSpace(input.RoleLine)
	item.Quote = quote
	item.AvatarURL = strings.TrimSpace(input.AvatarURL)
	if input.Rating != nil {
		rating := *input.Rating
		if rating < 1 {
			rating = 1
		}
		if rating > 5 {
			rating = 5
		}
		item.Rating = rating
	} else if item.Rating == 0 {
		item.Rating = 5
	}
	if input.Featured != nil {
		item.Featured = *input.Featured
	}
	if input.Sort != nil {
		item.Sort = *input.Sort
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("save testimonial: %w", err)
	}
	return &item, nil
}

// Delete 删除一条评价。
func (s *TestimonialService) Delete(id uint) error {
	result := s.db.Delete(&db.Testimonial{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete testimonial: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTestimonialNotFound
	}
	return nil
}
