package models

import "time"

// 分享目标类型
const (
	ShareTypeUser    = "user"    // 分享给内部用户
	ShareTypeContact = "contact" // 分享给外部联系人（生成外链）
)

// 条目类型
const (
	ItemTypeFile   = "file"
	ItemTypeFolder = "folder"
)

// SharingAttempt 对应 sharing_attempts 表
// 每次分享请求都会留下一条审计记录，无论放行还是拦截，写入后不再修改
// 被用户确认绕过的请求保留 gdpr_compliant=false，审计数据里能看出谁绕过了拦截
type SharingAttempt struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint64    `gorm:"not null;index" json:"user_id"`
	ItemPath          string    `gorm:"type:varchar(1024);not null;index:idx_attempt_path,length:255" json:"item_path"`
	ItemName          string    `gorm:"type:varchar(255);not null" json:"item_name"`
	ItemType          string    `gorm:"type:varchar(16);not null" json:"item_type"`    // file/folder
	SharingType       string    `gorm:"type:varchar(16);not null" json:"sharing_type"` // user/contact
	TargetID          uint64    `gorm:"not null" json:"target_id"`
	TargetType        string    `gorm:"type:varchar(16);not null" json:"target_type"`
	GdprCompliant     bool      `gorm:"not null" json:"gdpr_compliant"`
	BlockedReason     *string   `gorm:"type:text" json:"blocked_reason,omitempty"` // 非空当且仅当被拦截
	ScanRequired      bool      `gorm:"not null;default:false" json:"scan_required"`
	ScanCompleted     bool      `gorm:"not null;default:false" json:"scan_completed"`
	UserAcknowledged  bool      `gorm:"not null;default:false" json:"user_acknowledged"`
	UserJustification *string   `gorm:"type:text" json:"user_justification,omitempty"`
	ScanResultID      *uint64   `gorm:"index" json:"scan_result_id,omitempty"`
	AttemptDate       time.Time `gorm:"not null;index" json:"attempt_date"`
	RequestIP         string    `gorm:"type:varchar(64)" json:"request_ip"`
	UserAgent         string    `gorm:"type:varchar(255)" json:"user_agent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	ScanResult *ScanResult `gorm:"foreignKey:ScanResultID" json:"scan_result,omitempty"`
}

func (SharingAttempt) TableName() string {
	return "sharing_attempts"
}
