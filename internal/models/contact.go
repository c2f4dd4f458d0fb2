package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact 对应 contacts 表，联系人分享的目标
type Contact struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ErpCode   string  `gorm:"type:varchar(64);uniqueIndex" json:"erp_code"` // ERP 同步来源时非空
	CompanyID *uint64 `gorm:"index" json:"company_id,omitempty"`
	Name      string  `gorm:"type:varchar(255);not null" json:"name"`
	Email     string  `gorm:"type:varchar(255)" json:"email"` // 可能为空，发送通知前必须检查
	Phone     string  `gorm:"type:varchar(32)" json:"phone"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (Contact) TableName() string {
	return "contacts"
}
