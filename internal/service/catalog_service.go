package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrServiceItemNotFound 在指定的服务条目不存在时返回
	ErrServiceItemNotFound = errors.New("service item not found")
	// ErrProcessStepNotFound 在指定的流程步骤不存在时返回
	ErrProcessStepNotFound = errors.New("process step not found")
	// ErrCatalogInvalidInput 在输入数据不完整时返回
	ErrCatalogInvalidInput = errors.New("invalid catalog input")
)

// CatalogService 负责维护服务页的子集合：服务条目（含卖点）与流程步骤。
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService 构造 CatalogService
func NewCatalogService(gdb *gorm.DB) *CatalogService {
	return &CatalogService{db: gdb}
}

// ServiceWithBenefits 将服务条目与其卖点合并为一个展示单元。
type ServiceWithBenefits struct {
	db.ServiceItem
	Benefits []db.ServiceBenefit `json:"benefits"`
}

// ServiceItemInput 描述创建或更新服务条目时可设置的字段
type ServiceItemInput struct {
	Title       string
	Description string
	Icon        string
	Sort        *int
	Benefits    []string
}

// ListServices 返回指定页面的服务条目及卖点，两层均按排序值升序。
func (s *CatalogService) ListServices(pageID uint) ([]ServiceWithBenefits, error) {
	var items []db.ServiceItem
	if err := s.db.Where("page_id = ?", pageID).
		Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	result := make([]ServiceWithBenefits, 0, len(items))
	if len(items) == 0 {
		return result, nil
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	var benefits []db.ServiceBenefit
	if err := s.db.Where("service_item_id IN ?", ids).
		Order("sort ASC, id ASC").Find(&benefits).Error; err != nil {
		return nil, fmt.Errorf("list service benefits: %w", err)
	}

	grouped := make(map[uint][]db.ServiceBenefit, len(items))
	for _, benefit := range benefits {
		grouped[benefit.ServiceItemID] = append(grouped[benefit.ServiceItemID], benefit)
	}

	for _, item := range items {
		entry := ServiceWithBenefits{ServiceItem: item, Benefits: grouped[item.ID]}
		if entry.Benefits == nil {
			entry.Benefits = []db.ServiceBenefit{}
		}
		result = append(result, entry)
	}

	return result, nil
}

// SaveService 创建或更新一个服务条目，卖点列表整体替换。
// id 为 0 时创建新条目。
func (s *CatalogService) SaveService(pageID, id uint, input ServiceItemInput) (*ServiceWithBenefits, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrCatalogInvalidInput
	}

	var item db.ServiceItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if id == 0 {
			item = db.ServiceItem{PageID: pageID}
		} else {
			if err := tx.First(&item, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrServiceItemNotFound
				}
				return err
			}
		}

		item.Title = title
		item.Description = strings.TrimSpace(input.Description)
		item.Icon = strings.ToLower(strings.TrimSpace(input.Icon))
		if input.Sort != nil {
			item.Sort = *input.Sort
		}

		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		// 卖点整体替换，排序沿用传入顺序
		if err := tx.Where("service_item_id = ?", item.ID).
			Delete(&db.ServiceBenefit{}).Error; err != nil {
			return err
		}
		for i, text := range input.Benefits {
			trimmed := strings.TrimSpace(text)
			if trimmed == "" {
				continue
			}
			benefit := db.ServiceBenefit{ServiceItemID: item.ID, Text: trimmed, Sort: i}
			if err := tx.Create(&benefit).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrServiceItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("save service item: %w", err)
	}

	var benefits []db.ServiceBenefit
	if err := s.db.Where("service_item_id = ?", item.ID).
		Order("sort ASC, id ASC").Find(&benefits).Error; err != nil {
		return nil, fmt.Errorf("reload service benefits: %w", err)
	}

	return &ServiceWithBenefits{ServiceItem: item, Benefits: benefits}, nil
}

// DeleteService 删除服务条目及其卖点。
func (s *CatalogService) DeleteService(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&db.ServiceItem{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrServiceItemNotFound
		}
		return tx.Where("service_item_id = ?", id).Delete(&db.ServiceBenefit{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrServiceItemNotFound) {
			return err
		}
		return fmt.Errorf("delete service item: %w", err)
	}
	return nil
}

// ProcessStepInput 描述创建或更新流程步骤时可设置的字段
type ProcessStepInput struct {
	Title       string
	Description string
	Sort        *int
}

// ListProcessSteps 返回指定页面的流程步骤，按排序值升序。
func (s *CatalogService) ListProcessSteps(pageID uint) ([]db.ProcessStep, error) {
	var steps []db.ProcessStep
	if err := s.db.Where("page_id = ?", pageID).
		Order("sort ASC, id ASC").Find(&steps).Error; err != nil {
		return nil, fmt.Errorf("list process steps: %w", err)
	}
	return steps, nil
}

// SaveProcessStep 创建或更新一个流程步骤，id 为 0 时创建。
func (s *CatalogService) SaveProcessStep(pageID, id uint, input ProcessStepInput) (*db.ProcessStep, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrCatalogInvalidInput
	}

	var step db.ProcessStep
	if id == 0 {
		step = db.ProcessStep{PageID: pageID}
	} else {
		if err := s.db.First(&step, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProcessStepNotFound
			}
			return nil, fmt.Errorf("get process step: %w", err)
		}
	}

	step.Title = title
	step.Description = strings.TrimSpace(input.Description)
	if input.Sort != nil {
		step.Sort = *input.Sort
	}

	if err := s.db.Save(&step).Error; err != nil {
		return nil, fmt.Errorf("save process step: %w", err)
	}
	return &step, nil
}

// DeleteProcessStep 删除一个流程步骤。
func (s *CatalogService) DeleteProcessStep(id uint) error {
	result := s.db.Delete(&db.ProcessStep{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete process step: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProcessStepNotFound
	}
	return nil
}
