package models

import (
	"time"

	"gorm.io/gorm"
)

// Department 对应 departments 表
// CDN 目录引导会为每个部门创建一个存储目录
type Department struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"type:varchar(128);unique;not null" json:"name"`
	Status uint8  `gorm:"type:tinyint unsigned;not null;default:1" json:"status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}
