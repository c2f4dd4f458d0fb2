package gdpr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/cache"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// ReportSummary 汇总统计
type ReportSummary struct {
	TotalAttempts         int    `json:"totalAttempts"`
	BlockedAttempts       int    `json:"blockedAttempts"`
	SuccessfulAttempts    int    `json:"successfulAttempts"`
	ComplianceRate        string `json:"complianceRate"` // 两位小数的百分比，总数为 0 时为 "0.00"
	FilesWithPersonalData int    `json:"filesWithPersonalData"`
	CriticalRiskFiles     int    `json:"criticalRiskFiles"`
}

// UserStatistics 按用户聚合的统计
type UserStatistics struct {
	UserID             uint64 `json:"userId"`
	TotalAttempts      int    `json:"totalAttempts"`
	BlockedAttempts    int    `json:"blockedAttempts"`
	SuccessfulAttempts int    `json:"successfulAttempts"`
	ScanRequired       int    `json:"scanRequired"`
	ScanCompleted      int    `json:"scanCompleted"`
}

// RiskLevelStats 单个风险等级的统计
type RiskLevelStats struct {
	Count int      `json:"count"`
	Files []string `json:"files"`
}

// TopBlockedFile 被拦截最多的条目
type TopBlockedFile struct {
	ItemPath     string   `json:"itemPath"`
	BlockedCount int      `json:"blockedCount"`
	Reasons      []string `json:"reasons"` // 去重后的拦截原因
}

// ReportPayload 报告的完整负载
// 键名是持久化契约，存量报告的消费方依赖这个结构
type ReportPayload struct {
	Summary                   ReportSummary             `json:"summary"`
	UserStatistics            []UserStatistics          `json:"userStatistics"`
	RiskLevelBreakdown        map[string]RiskLevelStats `json:"riskLevelBreakdown"`
	PersonalDataTypeBreakdown map[string]int            `json:"personalDataTypeBreakdown"`
	TopBlockedFiles           []TopBlockedFile          `json:"topBlockedFiles"`
	DetailedSharingAttempts   []models.SharingAttempt   `json:"detailedSharingAttempts"`
	FileScanResults           []models.ScanResult       `json:"fileScanResults"`
}

// reportListPage 报告列表的缓存载体
type reportListPage struct {
	Reports []models.GdprReport `json:"reports"`
	Total   int64               `json:"total"`
}

// ReportService 合规报告的生成、查询与导出
type ReportService interface {
	// GenerateReport 聚合时间范围内的审计与扫描数据，落一条不可变报告快照
	// 仅限 manager/admin 角色
	GenerateReport(ctx context.Context, user *models.User, start, end time.Time) (*models.GdprReport, *ReportPayload, error)
	ListReports(ctx context.Context, page, pageSize int) ([]models.GdprReport, int64, error)
	GetReport(ctx context.Context, id uint64) (*models.GdprReport, error)
	// ExportReport 以 gzip 压缩流导出报告负载，返回附件文件名和压缩内容
	ExportReport(ctx context.Context, id uint64) (string, []byte, error)
}

type reportService struct {
	reportRepo     repositories.ReportRepository
	sharingRepo    repositories.SharingRepository
	scanResultRepo repositories.ScanResultRepository
	cacheService   cache.Cache
}

var _ ReportService = (*reportService)(nil)

// NewReportService 创建一个新的 ReportService 实例
func NewReportService(
	reportRepo repositories.ReportRepository,
	sharingRepo repositories.SharingRepository,
	scanResultRepo repositories.ScanResultRepository,
	cacheService cache.Cache,
) ReportService {
	return &reportService{
		reportRepo:     reportRepo,
		sharingRepo:    sharingRepo,
		scanResultRepo: scanResultRepo,
		cacheService:   cacheService,
	}
}

func (s *reportService) GenerateReport(ctx context.Context, user *models.User, start, end time.Time) (*models.GdprReport, *ReportPayload, error) {
	if !user.IsManagerOrAdmin() {
		return nil, nil, xerr.ErrRoleRequired
	}
	if !start.Before(end) {
		return nil, nil, xerr.ErrInvalidDateRange
	}

	attempts, err := s.sharingRepo.FindAttemptsInRange(start, end)
	if err != nil {
		logger.Error("读取审计记录失败", zap.Error(err))
		return nil, nil, xerr.ErrDatabaseError
	}
	scans, err := s.scanResultRepo.FindInRange(start, end)
	if err != nil {
		logger.Error("读取扫描记录失败", zap.Error(err))
		return nil, nil, xerr.ErrDatabaseError
	}

	payload := BuildReportPayload(attempts, scans)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("序列化报告负载失败: %w", err)
	}

	report := &models.GdprReport{
		ReportType:  "sharing",
		StartDate:   start,
		EndDate:     end,
		GeneratedBy: user.ID,
		GeneratedAt: time.Now(),
		Status:      models.ReportStatusCompleted,
		ReportData:  string(data),
	}
	if err := s.reportRepo.Create(report); err != nil {
		logger.Error("写入报告失败", zap.Error(err))
		return nil, nil, xerr.ErrDatabaseError
	}

	// 新报告生成后首页缓存作废
	if s.cacheService != nil {
		if err := s.cacheService.Del(ctx, cache.GenerateReportListKey(1, 10)); err != nil {
			logger.Warn("清理报告列表缓存失败", zap.Error(err))
		}
	}

	logger.Info("合规报告已生成",
		zap.Uint64("reportID", report.ID),
		zap.Uint64("generatedBy", user.ID),
		zap.Int("attempts", len(attempts)),
		zap.Int("scans", len(scans)))
	return report, payload, nil
}

func (s *reportService) ListReports(ctx context.Context, page, pageSize int) ([]models.GdprReport, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	cacheKey := cache.GenerateReportListKey(page, pageSize)
	if s.cacheService != nil {
		var cached reportListPage
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached.Reports, cached.Total, nil
		}
	}

	reports, total, err := s.reportRepo.FindAll(page, pageSize)
	if err != nil {
		logger.Error("查询报告列表失败", zap.Error(err))
		return nil, 0, xerr.ErrDatabaseError
	}

	if s.cacheService != nil {
		entry := reportListPage{Reports: reports, Total: total}
		if err := s.cacheService.Set(ctx, cacheKey, entry, cache.ReportListTTL); err != nil {
			logger.Warn("写入报告列表缓存失败", zap.Error(err))
		}
	}
	return reports, total, nil
}

func (s *reportService) GetReport(ctx context.Context, id uint64) (*models.GdprReport, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		return nil, xerr.ErrDatabaseError
	}
	if report == nil {
		return nil, xerr.ErrReportNotFound
	}
	return report, nil
}

func (s *reportService) ExportReport(ctx context.Context, id uint64) (string, []byte, error) {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(report.ReportData)); err != nil {
		gw.Close()
		return "", nil, fmt.Errorf("压缩报告失败: %w", err)
	}
	if err := gw.Close(); err != nil {
		return "", nil, fmt.Errorf("压缩报告失败: %w", err)
	}

	filename := fmt.Sprintf("gdpr-report-%d-%s.json.gz", report.ID, report.GeneratedAt.Format("20060102"))
	return filename, buf.Bytes(), nil
}

// BuildReportPayload 纯聚合函数，相同输入产生等价输出
func BuildReportPayload(attempts []models.SharingAttempt, scans []models.ScanResult) *ReportPayload {
	payload := &ReportPayload{
		UserStatistics:            []UserStatistics{},
		RiskLevelBreakdown:        map[string]RiskLevelStats{},
		PersonalDataTypeBreakdown: map[string]int{},
		TopBlockedFiles:           []TopBlockedFile{},
		DetailedSharingAttempts:   attempts,
		FileScanResults:           scans,
	}
	if payload.DetailedSharingAttempts == nil {
		payload.DetailedSharingAttempts = []models.SharingAttempt{}
	}
	if payload.FileScanResults == nil {
		payload.FileScanResults = []models.ScanResult{}
	}

	// 汇总与按用户聚合
	userStats := map[uint64]*UserStatistics{}
	blocked := 0
	for _, attempt := range attempts {
		stat, ok := userStats[attempt.UserID]
		if !ok {
			stat = &UserStatistics{UserID: attempt.UserID}
			userStats[attempt.UserID] = stat
		}
		stat.TotalAttempts++
		if attempt.GdprCompliant {
			stat.SuccessfulAttempts++
		} else {
			stat.BlockedAttempts++
			blocked++
		}
		if attempt.ScanRequired {
			stat.ScanRequired++
		}
		if attempt.ScanCompleted {
			stat.ScanCompleted++
		}
	}

	total := len(attempts)
	successful := total - blocked
	payload.Summary = ReportSummary{
		TotalAttempts:      total,
		BlockedAttempts:    blocked,
		SuccessfulAttempts: successful,
		ComplianceRate:     complianceRate(successful, total),
	}

	// 输出按用户 ID 升序，保证结果确定
	userIDs := make([]uint64, 0, len(userStats))
	for id := range userStats {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	for _, id := range userIDs {
		payload.UserStatistics = append(payload.UserStatistics, *userStats[id])
	}

	// 扫描维度：风险等级与个人数据类型
	for _, scan := range scans {
		if scan.HasPersonalData {
			payload.Summary.FilesWithPersonalData++
		}
		if scan.RiskLevel == models.RiskCritical {
			payload.Summary.CriticalRiskFiles++
		}

		stats := payload.RiskLevelBreakdown[scan.RiskLevel]
		stats.Count++
		stats.Files = append(stats.Files, scan.FilePath)
		payload.RiskLevelBreakdown[scan.RiskLevel] = stats

		// 一个文件命中多个类别时每个桶都计数
		for _, dataType := range scan.PersonalDataTypes {
			payload.PersonalDataTypeBreakdown[dataType]++
		}
	}

	payload.TopBlockedFiles = topBlockedFiles(attempts, 10)
	return payload
}

// complianceRate 合规率百分比，保留两位小数，总数为 0 时返回 "0.00"
func complianceRate(successful, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(successful)/float64(total)*100)
}

// topBlockedFiles 按拦截次数倒序取前 limit 条，次数相同时按路径升序
func topBlockedFiles(attempts []models.SharingAttempt, limit int) []TopBlockedFile {
	type bucket struct {
		count   int
		reasons map[string]bool
	}
	buckets := map[string]*bucket{}
	for _, attempt := range attempts {
		if attempt.GdprCompliant {
			continue
		}
		b, ok := buckets[attempt.ItemPath]
		if !ok {
			b = &bucket{reasons: map[string]bool{}}
			buckets[attempt.ItemPath] = b
		}
		b.count++
		if attempt.BlockedReason != nil {
			b.reasons[*attempt.BlockedReason] = true
		}
	}

	result := make([]TopBlockedFile, 0, len(buckets))
	for path, b := range buckets {
		reasons := make([]string, 0, len(b.reasons))
		for reason := range b.reasons {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		result = append(result, TopBlockedFile{
			ItemPath:     path,
			BlockedCount: b.count,
			Reasons:      reasons,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].BlockedCount != result[j].BlockedCount {
			return result[i].BlockedCount > result[j].BlockedCount
		}
		return result[i].ItemPath < result[j].ItemPath
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
