package db

import "gorm.io/gorm"

const (
	// SecurityEventLoginOK 表示管理员登录成功。
	SecurityEventLoginOK = "login_ok"
	// SecurityEventLoginFailed 表示管理员登录失败。
	SecurityEventLoginFailed = "login_failed"
	// SecurityEventRevalidateDenied 表示重新验证接口鉴权失败。
	SecurityEventRevalidateDenied = "revalidate_denied"
)

// SecurityEvent 记录后台关心的安全相关事件，供管理面板查看。
type SecurityEvent struct {
	gorm.Model
	Kind      string `gorm:"size:40;index;not null" json:"kind"`
	Username  string `gorm:"size:120" json:"username"`
	IP        string `gorm:"size:64" json:"ip"`
	UserAgent string `gorm:"size:255" json:"userAgent"`
	Detail    string `gorm:"size:255" json:"detail"`
}
