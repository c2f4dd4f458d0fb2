package models

import "time"

// UserSharedFolder 对应 user_shared_folders 表
// (user_id, folder_path) 唯一，重复分享幂等不产生新行
type UserSharedFolder struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_user_folder" json:"user_id"`
	FolderPath string    `gorm:"type:varchar(768);not null;uniqueIndex:idx_user_folder,length:255" json:"folder_path"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserSharedFolder) TableName() string {
	return "user_shared_folders"
}
