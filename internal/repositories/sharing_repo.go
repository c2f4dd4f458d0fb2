package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SharingRepository interface {
	// WithTx 返回绑定到指定事务的仓库，放行路径的三步写入在一个事务内完成
	WithTx(tx *gorm.DB) SharingRepository

	CreateAttempt(attempt *models.SharingAttempt) error
	CreateSharedItem(item *models.SharedItem) error
	UpsertUserSharedFolder(userID uint64, folderPath string) error

	FindSharedItemByID(id uint64) (*models.SharedItem, error)
	FindSharedByOwner(userID uint64) ([]models.SharedItem, error)
	FindSharedWithUser(userID uint64) ([]models.SharedItem, error)
	DeactivateSharedItem(item *models.SharedItem) error

	FindAttemptsInRange(start, end time.Time) ([]models.SharingAttempt, error)
}

type sharingRepository struct {
	db *gorm.DB
}

// NewSharingRepository 创建新的 sharingRepository 实例
func NewSharingRepository(db *gorm.DB) SharingRepository {
	return &sharingRepository{db: db}
}

func (r *sharingRepository) WithTx(tx *gorm.DB) SharingRepository {
	return &sharingRepository{db: tx}
}

// CreateAttempt 写入一条审计记录，记录不可变
func (r *sharingRepository) CreateAttempt(attempt *models.SharingAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *sharingRepository) CreateSharedItem(item *models.SharedItem) error {
	return r.db.Create(item).Error
}

// UpsertUserSharedFolder 幂等写入 (user_id, folder_path) 标记，重复分享不产生新行
func (r *sharingRepository) UpsertUserSharedFolder(userID uint64, folderPath string) error {
	marker := models.UserSharedFolder{
		UserID:     userID,
		FolderPath: folderPath,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "folder_path"}},
		DoUpdates: clause.Assignments(map[string]any{"updated_at": time.Now()}),
	}).Create(&marker).Error
}

func (r *sharingRepository) FindSharedItemByID(id uint64) (*models.SharedItem, error) {
	var item models.SharedItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询分享记录失败: %w", err)
	}
	return &item, nil
}

// FindSharedByOwner 列出用户发起的所有有效分享
func (r *sharingRepository) FindSharedByOwner(userID uint64) ([]models.SharedItem, error) {
	var items []models.SharedItem
	err := r.db.
		Where("shared_by_user_id = ? AND is_active = true", userID).
		Order("shared_at desc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("查询分享列表失败: %w", err)
	}
	return items, nil
}

// FindSharedWithUser 列出分享给该用户的所有有效条目
func (r *sharingRepository) FindSharedWithUser(userID uint64) ([]models.SharedItem, error) {
	var items []models.SharedItem
	err := r.db.
		Where("shared_with_user_id = ? AND sharing_type = ? AND is_active = true", userID, models.ShareTypeUser).
		Order("shared_at desc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("查询分享列表失败: %w", err)
	}
	return items, nil
}

// DeactivateSharedItem 软撤销，只翻转 is_active，不物理删除
func (r *sharingRepository) DeactivateSharedItem(item *models.SharedItem) error {
	item.IsActive = false
	return r.db.Save(item).Error
}

func (r *sharingRepository) FindAttemptsInRange(start, end time.Time) ([]models.SharingAttempt, error) {
	var attempts []models.SharingAttempt
	err := r.db.
		Where("attempt_date >= ? AND attempt_date <= ?", start, end).
		Order("attempt_date asc").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("查询分享审计记录失败: %w", err)
	}
	return attempts, nil
}
