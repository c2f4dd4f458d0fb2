package models

import "time"

// 报告状态
const (
	ReportStatusCompleted = "completed"
	ReportStatusFailed    = "failed"
)

// GdprReport 对应 gdpr_reports 表
// ReportData 保存聚合结果的完整 JSON 快照，生成后不再重算
type GdprReport struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportType  string    `gorm:"type:varchar(32);not null;default:'sharing'" json:"report_type"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	GeneratedBy uint64    `gorm:"not null;index" json:"generated_by"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`
	Status      string    `gorm:"type:varchar(16);not null" json:"status"`
	ReportData  string    `gorm:"type:longtext" json:"-"` // 序列化的聚合负载，导出接口原样返回

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (GdprReport) TableName() string {
	return "gdpr_reports"
}
