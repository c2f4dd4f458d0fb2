package models

import (
	"time"

	"gorm.io/gorm"
)

// SharedItem 对应 shared_items 表
// SharingType 决定目标字段：user 填 SharedWithUserID，contact 填 SharedWithContactID
// 外链令牌只在联系人分享时生成
type SharedItem struct {
	ID                  uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemPath            string     `gorm:"type:varchar(1024);not null;index:idx_shared_path,length:255" json:"item_path"`
	ItemName            string     `gorm:"type:varchar(255);not null" json:"item_name"`
	ItemType            string     `gorm:"type:varchar(16);not null" json:"item_type"` // file/folder
	SharedByUserID      uint64     `gorm:"not null;index" json:"shared_by_user_id"`
	SharingType         string     `gorm:"type:varchar(16);not null" json:"sharing_type"`
	SharedWithUserID    *uint64    `gorm:"index" json:"shared_with_user_id,omitempty"`
	SharedWithContactID *uint64    `gorm:"index" json:"shared_with_contact_id,omitempty"`
	ShareLink           *string    `gorm:"type:varchar(64);uniqueIndex" json:"share_link,omitempty"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
	ShareLinkExpiresAt  *time.Time `json:"share_link_expires_at,omitempty"`
	CanView             bool       `gorm:"not null;default:true" json:"can_view"`
	CanDownload         bool       `gorm:"not null;default:false" json:"can_download"`
	CanEdit             bool       `gorm:"not null;default:false" json:"can_edit"`
	CanDelete           bool       `gorm:"not null;default:false" json:"can_delete"`
	Description         string     `gorm:"type:varchar(512)" json:"description"`
	IsActive            bool       `gorm:"not null;default:true" json:"is_active"`
	SharedAt            time.Time  `gorm:"not null" json:"shared_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SharedItem) TableName() string {
	return "shared_items"
}
