package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/devfolio/internal/db"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrLeadAlreadyReplied = errors.New("lead already replied")
	ErrReplyMessageEmpty  = errors.New("reply message is required")
)

// LeadInput 描述公开联系表单提交的字段。
type LeadInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// Validate 校验联系表单输入，错误可按字段展开给调用方。
func (input LeadInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&input.Email, validation.Required, is.Email),
		validation.Field(&input.Subject, validation.Length(0, 255)),
		validation.Field(&input.Message, validation.Required, validation.Length(1, 5000)),
	)
}

// NotifyResult 描述主写入之后尽力而为的通知结果。
// 通知失败不影响主写入的成功。
type NotifyResult struct {
	Attempted bool
	Err       error
}

// LeadFilter describes filters for listing leads.
type LeadFilter struct {
	Status  string
	Page    int
	PerPage int
}

// LeadListResult aggregates paginated lead results.
type LeadListResult struct {
	Items      []db.Lead
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// LeadService 负责联系表单线索的创建、状态流转与回复。
type LeadService struct {
	db         *gorm.DB
	mailer     Mailer
	adminEmail string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewLeadService 构造 LeadService。
func NewLeadService(gdb *gorm.DB, mailer Mailer, adminEmail string, logger zerolog.Logger) *LeadService {
	return &LeadService{
		db:         gdb,
		mailer:     mailer,
		adminEmail: adminEmail,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock 替换时间源，主要面向测试场景。
func (s *LeadService) WithClock(now func() time.Time) *LeadService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create 落库一条新线索，然后尽力通知管理员。
// 两阶段动作：写入失败整体失败；通知失败只反映在 NotifyResult 中。
func (s *LeadService) Create(ctx context.Context, input LeadInput) (*db.Lead, NotifyResult, error) {
	if err := input.Validate(); err != nil {
		return nil, NotifyResult{}, err
	}

	lead := db.Lead{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   strings.TrimSpace(input.Message),
		Status:    db.LeadStatusNew,
		IP:        input.IP,
		UserAgent: input.UserAgent,
	}
	if err := s.db.WithContext(ctx).Create(&lead).Error; err != nil {
		return nil, NotifyResult{}, fmt.Errorf("create lead: %w", err)
	}

	notify := NotifyResult{}
	if s.adminEmail != "" {
		notify.Attempted = true
		subject := fmt.Sprintf("New contact message from %s", lead.Name)
		body := fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s", lead.Name, lead.Email, lead.Subject, lead.Message)
		if err := s.mailer.Send(ctx, s.adminEmail, subject, body); err != nil {
			notify.Err = err
			s.logger.Error().Err(err).Uint("lead", lead.ID).Msg("admin notification failed")
		}
	}

	return &lead, notify, nil
}

// List 返回线索列表，按创建时间倒序。
func (s *LeadService) List(filter LeadFilter) (LeadListResult, error) {
	result := LeadListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 20),
	}

	query := s.db.Model(&db.Lead{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, fmt.Errorf("count leads: %w", err)
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("created_at DESC, id DESC").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, fmt.Errorf("list leads: %w", err)
	}

	return result, nil
}

// Get 按主键获取线索。
func (s *LeadService) Get(id uint) (*db.Lead, error) {
	var lead db.Lead
	if err := s.db.First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &lead, nil
}

// MarkRead 把 new 状态的线索置为 read，其余状态保持不变。
func (s *LeadService) MarkRead(id uint) (*db.Lead, error) {
	lead, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if lead.Status == db.LeadStatusNew {
		lead.Status = db.LeadStatusRead
		if err := s.db.Save(lead).Error; err != nil {
			return nil, fmt.Errorf("mark lead read: %w", err)
		}
	}

	return lead, nil
}

// Reply 记录管理员回复并尽力把回复发给线索邮箱。
// 先持久化状态与回复内容，再尝试发信；发信失败不回滚写入。
func (s *LeadService) Reply(ctx context.Context, id uint, message string) (*db.Lead, NotifyResult, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, NotifyResult{}, ErrReplyMessageEmpty
	}

	lead, err := s.Get(id)
	if err != nil {
		return nil, NotifyResult{}, err
	}
	if lead.Status == db.LeadStatusReplied {
		return nil, NotifyResult{}, ErrLeadAlreadyReplied
	}

	now := s.now()
	lead.Status = db.LeadStatusReplied
	lead.ReplyMessage = trimmed
	lead.RepliedAt = &now
	if err := s.db.WithContext(ctx).Save(lead).Error; err != nil {
		return nil, NotifyResult{}, fmt.Errorf("save lead reply: %w", err)
	}

	notify := NotifyResult{Attempted: true}
	subject := "Re: " + firstNonEmpty(lead.Subject, "your message")
	if err := s.mailer.Send(ctx, lead.Email, subject, trimmed); err != nil {
		notify.Err = err
		s.logger.Error().Err(err).Uint("lead", lead.ID).Msg("reply delivery failed")
	}

	return lead, notify, nil
}
