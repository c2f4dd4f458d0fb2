package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"gorm.io/gorm"
)

type ScanResultRepository interface {
	Create(result *models.ScanResult) error
	// FindLatestByPath 返回该路径在 since 之后最近一次的扫描结果，没有则返回 nil
	FindLatestByPath(filePath string, since time.Time) (*models.ScanResult, error)
	FindInRange(start, end time.Time) ([]models.ScanResult, error)
}

type scanResultRepository struct {
	db *gorm.DB
}

// NewScanResultRepository 创建新的 scanResultRepository 实例
func NewScanResultRepository(db *gorm.DB) ScanResultRepository {
	return &scanResultRepository{db: db}
}

// Create 写入一条新的扫描记录，记录不可变，重新扫描产生新行
func (r *scanResultRepository) Create(result *models.ScanResult) error {
	return r.db.Create(result).Error
}

func (r *scanResultRepository) FindLatestByPath(filePath string, since time.Time) (*models.ScanResult, error) {
	var result models.ScanResult
	err := r.db.
		Where("file_path = ? AND scan_date >= ?", filePath, since).
		Order("scan_date desc").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询扫描结果失败: %w", err)
	}
	return &result, nil
}

func (r *scanResultRepository) FindInRange(start, end time.Time) ([]models.ScanResult, error) {
	var results []models.ScanResult
	err := r.db.
		Where("scan_date >= ? AND scan_date <= ?", start, end).
		Order("scan_date asc").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("查询扫描记录失败: %w", err)
	}
	return results, nil
}
