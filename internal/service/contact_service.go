package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrContactMethodNotFound 在指定的联系方式不存在时返回
	ErrContactMethodNotFound = errors.New("contact method not found")
	// ErrContactFeatureNotFound 在指定的卖点文案不存在时返回
	ErrContactFeatureNotFound = errors.New("contact feature not found")
	// ErrContactInvalidInput 在输入数据不完整时返回
	ErrContactInvalidInput = errors.New("invalid contact input")
)

// ContactService 负责维护联系页展示的联系方式与卖点文案。
type ContactService struct {
	db *gorm.DB
}

// NewContactService 构造 ContactService
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{db: gdb}
}

// ContactMethodInput 描述创建或更新联系方式时可设置的字段
// Sort/Visible 使用指针判断是否显式传入
type ContactMethodInput struct {
	Platform string
	Label    string
	Value    string
	Link     string
	Icon     string
	Sort     *int
	Visible  *bool
}

// ListMethods 返回联系方式集合，按排序值升序。
// includeHidden 为 false 时过滤掉 Visible=false 的条目。
func (s *ContactService) ListMethods(pageID uint, includeHidden bool) ([]db.ContactMethod, error) {
	query := s.db.Where("page_id = ?", pageID)
	if !includeHidden {
		query = query.Where("visible = ?", true)
	}

	var items []db.ContactMethod
	if err := query.Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list contact methods: %w", err)
	}
	return items, nil
}

// CreateMethod 新增一条联系方式，默认可见。
func (s *ContactService) CreateMethod(pageID uint, input ContactMethodInput) (*db.ContactMethod, error) {
	platform := strings.TrimSpace(input.Platform)
	label := strings.TrimSpace(input.Label)
	value := strings.TrimSpace(input.Value)
	if platform == "" || label == "" || value == "" {
		return nil, ErrContactInvalidInput
	}

	visible := true
	if input.Visible != nil {
		visible = *input.Visible
	}

	item := db.ContactMethod{
		PageID:   pageID,
		Platform: platform,
		Label:    label,
		Value:    value,
		Link:     strings.TrimSpace(input.Link),
		Icon:     strings.ToLower(strings.TrimSpace(input.Icon)),
		Sort:     sortOrDefault(input.Sort),
		Visible:  visible,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create contact method: %w", err)
	}
	return &item, nil
}

// UpdateMethod 更新一条联系方式。
func (s *ContactService) UpdateMethod(id uint, input ContactMethodInput) (*db.ContactMethod, error) {
	var item db.ContactMethod
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactMethodNotFound
		}
		return nil, fmt.Errorf("get contact method: %w", err)
	}

	platform := strings.TrimSpace(input.Platform)
	label := strings.TrimSpace(input.Label)
	value := strings.TrimSpace(input.Value)
	if platform == "" || label == "" || value == "" {
		return nil, ErrContactInvalidInput
	}

	item.Platform = platform
	item.Label = label
	item.Value = value
	item.Link = strings.TrimSpace(input.Link)
	item.Icon = strings.ToLower(strings.TrimSpace(input.Icon))
	if input.Sort != nil {
		item.Sort = *input.Sort
	}
	if input.Visible != nil {
		item.Visible = *input.Visible
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("update contact method: %w", err)
	}
	return &item, nil
}

// DeleteMethod 删除一条联系方式。
func (s *ContactService) DeleteMethod(id uint) error {
	result := s.db.Delete(&db.ContactMethod{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete contact method: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContactMethodNotFound
	}
	return nil
}

// ContactFeatureInput 描述创建或更新卖点文案时可设置的字段
type ContactFeatureInput struct {
	Text string
	Sort *int
}

// ListFeatures 返回联系页的卖点文案，按排序值升序。
func (s *ContactService) ListFeatures(pageID uint) ([]db.ContactFeature, error) {
	var items []db.ContactFeature
	if err := s.db.Where("page_id = ?", pageID).
		Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list contact features: %w", err)
	}
	return items, nil
}

// SaveFeature 创建或更新一条卖点文案，id 为 0 时创建。
func (s *ContactService) SaveFeature(pageID, id uint, input ContactFeatureInput) (*db.ContactFeature, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrContactInvalidInput
	}

	var item db.ContactFeature
	if id == 0 {
		item = db.ContactFeature{PageID: pageID}
	} else {
		if err := s.db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrContactFeatureNotFound
			}
			return nil, fmt.Errorf("get contact feature: %w", err)
		}
	}

	item.Text = text
	if input.Sort != nil {
		item.Sort = *input.Sort
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("save contact feature: %w", err)
	}
	return &item, nil
}

// DeleteFeature 删除一条卖点文案。
func (s *ContactService) DeleteFeature(id uint) error {
	result := s.db.Delete(&db.ContactFeature{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete contact feature: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContactFeatureNotFound
	}
	return nil
}
