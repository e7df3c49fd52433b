package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrSectionItemNotFound 在指定的子集合条目不存在时返回
	ErrSectionItemNotFound = errors.New("section item not found")
	// ErrSectionItemInvalidInput 在输入数据不完整时返回
	ErrSectionItemInvalidInput = errors.New("invalid section item input")
)

// SectionService 负责维护关于页的子集合：工作经历、教育经历与认证。
// 提供排序、增删改查能力，与 handler 解耦。
type SectionService struct {
	db *gorm.DB
}

// NewSectionService 构造 SectionService
func NewSectionService(gdb *gorm.DB) *SectionService {
	return &SectionService{db: gdb}
}

// ExperienceInput 描述创建或更新工作经历时可设置的字段
// Sort 使用指针判断是否显式传入
type ExperienceInput struct {
	Role    string
	Company string
	Period  string
	Summary string
	Sort    *int
}

// ListExperience 返回指定页面的工作经历，按排序值升序，相同排序按插入顺序。
func (s *SectionService) ListExperience(pageID uint) ([]db.ExperienceItem, error) {
	var items []db.ExperienceItem
	if err := s.db.Where("page_id = ?", pageID).
		Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	return items, nil
}

// CreateExperience 新增一条工作经历。
func (s *SectionService) CreateExperience(pageID uint, input ExperienceInput) (*db.ExperienceItem, error) {
	role := strings.TrimSpace(input.Role)
	if role == "" {
		return nil, ErrSectionItemInvalidInput
	}

	item := db.ExperienceItem{
		PageID:  pageID,
		Role:    role,
		Company: strings.TrimSpace(input.Company),
		Period:  strings.TrimSpace(input.Period),
		Summary: strings.TrimSpace(input.Summary),
		Sort:    sortOrDefault(input.Sort),
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}
	return &item, nil
}

// UpdateExperience 更新一条工作经历。
func (s *SectionService) UpdateExperience(id uint, input ExperienceInput) (*db.ExperienceItem, error) {
	var item db.ExperienceItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionItemNotFound
		}
		return nil, fmt.Errorf("get experience: %w", err)
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		return nil, ErrSectionItemInvalidInput
	}

	item.Role = role
	item.Company = strings.TrimSpace(input.Company)
	item.Period = strings.TrimSpace(input.Period)
	item.Summary = strings.TrimSpace(input.Summary)
	if input.Sort != nil {
		item.Sort = *input.Sort
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}
	return &item, nil
}

// DeleteExperience 删除一条工作经历。
func (s *SectionService) DeleteExperience(id uint) error {
	result := s.db.Delete(&db.ExperienceItem{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete experience: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSectionItemNotFound
	}
	return nil
}

// EducationInput 描述创建或更新教育经历时可设置的字段
type EducationInput struct {
	Degree  string
	School  string
	Period  string
	Summary string
	Sort    *int
}

// ListEducation 返回指定页面的教育经历，按排序值升序。
func (s *SectionService) ListEducation(pageID uint) ([]db.EducationItem, error) {
	var items []db.EducationItem
	if err := s.db.Where("page_id = ?", pageID).
		Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	return items, nil
}

// CreateEducation 新增一条教育经历。
func (s *SectionService) CreateEducation(pageID uint, input EducationInput) (*db.EducationItem, error) {
	degree := strings.TrimSpace(input.Degree)
	if degree == "" {
		return nil, ErrSectionItemInvalidInput
	}

	item := db.EducationItem{
		PageID:  pageID,
		Degree:  degree,
		School:  strings.TrimSpace(input.School),
		Period:  strings.TrimSpace(input.Period),
		Summary: strings.TrimSpace(input.Summary),
		Sort:    sortOrDefault(input.Sort),
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create education: %w", err)
	}
	return &item, nil
}

// UpdateEducation 更新一条教育经历。
func (s *SectionService) UpdateEducation(id uint, input EducationInput) (*db.EducationItem, error) {
	var item db.EducationItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionItemNotFound
		}
		return nil, fmt.Errorf("get education: %w", err)
	}

	degree := strings.TrimSpace(input.Degree)
	if degree == "" {
		return nil, ErrSectionItemInvalidInput
	}

	item.Degree = degree
	item.School = strings.TrimSpace(input.School)
	item.Period = strings.TrimSpace(input.Period)
	item.Summary = strings.TrimSpace(input.Summary)
	if input.Sort != nil {
		item.Sort = *input.Sort
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("update education: %w", err)
	}
	return &item, nil
}

// DeleteEducation 删除一条教育经历。
func (s *SectionService) DeleteEducation(id uint) error {
	result := s.db.Delete(&db.EducationItem{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete education: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSectionItemNotFound
	}
	return nil
}

// CertificationInput 描述创建或更新认证条目时可设置的字段
type CertificationInput struct {
	Name   string
	Issuer string
	Year   string
	URL    string
	Sort   *int
}

// ListCertifications 返回指定页面的认证条目，按排序值升序。
func (s *SectionService) ListCertifications(pageID uint) ([]db.Certification, error) {
	var items []db.Certification
	if err := s.db.Where("page_id = ?", pageID).
		Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}
	return items, nil
}

// CreateCertification 新增一条认证。
func (s *SectionService) CreateCertification(pageID uint, input CertificationInput) (*db.Certification, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSectionItemInvalidInput
	}

	item := db.Certification{
		PageID: pageID,
		Name:   name,
		Issuer: strings.TrimSpace(input.Issuer),
		Year:   strings.TrimSpace(input.Year),
		URL:    strings.TrimSpace(input.URL),
		Sort:   sortOrDefault(input.Sort),
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create certification: %w", err)
	}
	return &item, nil
}

// UpdateCertification 更新一条认证。
func (s *SectionService) UpdateCertification(id uint, input CertificationInput) (*db.Certification, error) {
	var item db.Certification
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionItemNotFound
		}
		return nil, fmt.Errorf("get certification: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSectionItemInvalidInput
	}

	item.Name = name
	item.Issuer = strings.TrimSpace(input.Issuer)
	item.Year = strings.TrimSpace(input.Year)
	item.URL = strings.TrimSpace(input.URL)
	if input.Sort != nil {
		item.Sort = *input.Sort
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("update certification: %w", err)
	}
	return &item, nil
}

// DeleteCertification 删除一条认证。
func (s *SectionService) DeleteCertification(id uint) error {
	result := s.db.Delete(&db.Certification{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete certification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSectionItemNotFound
	}
	return nil
}

func sortOrDefault(sort *int) int {
	if sort == nil {
		return 0
	}
	return *sort
}
