package models

import (
	"time"

	"gorm.io/gorm"
)

// Company 对应 companies 表，由 ERP 同步维护
type Company struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ErpCode string `gorm:"type:varchar(64);uniqueIndex;not null" json:"erp_code"` // ERP 侧主键，同步去重依据
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	VatNo   string `gorm:"type:varchar(32)" json:"vat_no"`
	Phone   string `gorm:"type:varchar(32)" json:"phone"`
	Address string `gorm:"type:varchar(255)" json:"address"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Company) TableName() string {
	return "companies"
}
