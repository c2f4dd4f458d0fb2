package repositories

import (
	"errors"
	"fmt"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(report *models.GdprReport) error
	FindByID(id uint64) (*models.GdprReport, error)
	FindAll(page, pageSize int) ([]models.GdprReport, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建新的 reportRepository 实例
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create 写入一份报告快照，报告生成后不再修改
func (r *reportRepository) Create(report *models.GdprReport) error {
	return r.db.Create(report).Error
}

func (r *reportRepository) FindByID(id uint64) (*models.GdprReport, error) {
	var report models.GdprReport
	err := r.db.Where("id = ?", id).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询合规报告失败: %w", err)
	}
	return &report, nil
}

// FindAll 按生成时间倒序分页列出报告，列表不携带完整负载
func (r *reportRepository) FindAll(page, pageSize int) ([]models.GdprReport, int64, error) {
	var reports []models.GdprReport
	var total int64

	offset := (page - 1) * pageSize
	query := r.db.Model(&models.GdprReport{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计报告总数失败: %w", err)
	}

	err := query.
		Select("id", "report_type", "start_date", "end_date", "generated_by", "generated_at", "status", "created_at").
		Order("generated_at desc").
		Offset(offset).Limit(pageSize).
		Find(&reports).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询报告列表失败: %w", err)
	}
	return reports, total, nil
}
