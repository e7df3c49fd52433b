package db

import (
	"time"

	"gorm.io/gorm"
)

const (
	LeadStatusNew     = "new"
	LeadStatusRead    = "read"
	LeadStatusReplied = "replied"
)

// Lead 保存公开联系表单提交的线索，状态流转 new → read → replied。
// 线索不会被自动删除。
type Lead struct {
	gorm.Model
	Name         string `gorm:"size:120;not null" json:"name"`
	Email        string `gorm:"size:255;not null" json:"email"`
	Subject      string `gorm:"size:255" json:"subject"`
	Message      string `gorm:"type:text;not null" json:"message"`
	Status       string `gorm:"size:20;default:new;index" json:"status"`
	ReplyMessage string `gorm:"type:text" json:"replyMessage"`
	RepliedAt    *time.Time `json:"repliedAt"`
	IP           string `gorm:"size:64" json:"ip"`
	UserAgent    string `gorm:"size:255" json:"userAgent"`
}
