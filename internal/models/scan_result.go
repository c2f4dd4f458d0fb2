package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 风险等级，由扫描命中的类别唯一确定
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// StringList 以 JSON 数组形式存储的字符串列表列
// 取代旧系统里手工拼接的序列化文本
type StringList []string

// Value 实现 driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("序列化字符串列表失败: %w", err)
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("无法将 %T 解析为 StringList", value)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// ScanResult 对应 scan_results 表
// 每次扫描产生一条新记录，写入后不再修改
type ScanResult struct {
	ID                uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FilePath          string     `gorm:"type:varchar(1024);not null;index:idx_scan_path,length:255" json:"file_path"`
	FileName          string     `gorm:"type:varchar(255);not null" json:"file_name"`
	ScanDate          time.Time  `gorm:"not null;index" json:"scan_date"`
	HasPersonalData   bool       `gorm:"not null;default:false" json:"has_personal_data"`
	PersonalDataTypes StringList `gorm:"type:json" json:"personal_data_types"`
	RiskLevel         string     `gorm:"type:varchar(16);not null;default:'low'" json:"risk_level"` // low/medium/high/critical
	FileType          string     `gorm:"type:varchar(64)" json:"file_type"`
	FileSize          int64      `gorm:"not null;default:0" json:"file_size"`
	ScanDuration      int64      `gorm:"not null;default:0" json:"scan_duration_ms"`
	ScanErrors        *string    `gorm:"type:text" json:"scan_errors,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ScanResult) TableName() string {
	return "scan_results"
}
