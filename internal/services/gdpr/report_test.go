package gdpr

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func blockedAttempt(userID uint64, path, reason string) models.SharingAttempt {
	return models.SharingAttempt{
		UserID:        userID,
		ItemPath:      path,
		ItemType:      models.ItemTypeFile,
		GdprCompliant: false,
		BlockedReason: strPtr(reason),
	}
}

func allowedAttempt(userID uint64, path string) models.SharingAttempt {
	return models.SharingAttempt{
		UserID:        userID,
		ItemPath:      path,
		ItemType:      models.ItemTypeFile,
		GdprCompliant: true,
		ScanCompleted: true,
	}
}

func TestBuildReportPayloadEmpty(t *testing.T) {
	payload := BuildReportPayload(nil, nil)

	assert.Equal(t, 0, payload.Summary.TotalAttempts)
	assert.Equal(t, "0.00", payload.Summary.ComplianceRate)
	assert.Empty(t, payload.UserStatistics)
	assert.Empty(t, payload.TopBlockedFiles)
	assert.NotNil(t, payload.DetailedSharingAttempts)
	assert.NotNil(t, payload.FileScanResults)
}

func TestBuildReportPayloadSummary(t *testing.T) {
	attempts := []models.SharingAttempt{
		allowedAttempt(1, "/docs/a.pdf"),
		allowedAttempt(1, "/docs/b.pdf"),
		allowedAttempt(2, "/docs/c.pdf"),
		blockedAttempt(2, "/docs/d.pdf", "requires scan"),
	}
	payload := BuildReportPayload(attempts, nil)

	assert.Equal(t, 4, payload.Summary.TotalAttempts)
	assert.Equal(t, 1, payload.Summary.BlockedAttempts)
	assert.Equal(t, 3, payload.Summary.SuccessfulAttempts)
	assert.Equal(t, "75.00", payload.Summary.ComplianceRate)
}

func TestBuildReportPayloadUserStatistics(t *testing.T) {
	attempts := []models.SharingAttempt{
		blockedAttempt(7, "/docs/x.pdf", "requires scan"),
		allowedAttempt(3, "/docs/y.pdf"),
		allowedAttempt(7, "/docs/z.pdf"),
	}
	attempts[0].ScanRequired = true
	payload := BuildReportPayload(attempts, nil)

	// 按用户 ID 升序
	require.Len(t, payload.UserStatistics, 2)
	assert.Equal(t, uint64(3), payload.UserStatistics[0].UserID)
	assert.Equal(t, uint64(7), payload.UserStatistics[1].UserID)

	stat := payload.UserStatistics[1]
	assert.Equal(t, 2, stat.TotalAttempts)
	assert.Equal(t, 1, stat.BlockedAttempts)
	assert.Equal(t, 1, stat.SuccessfulAttempts)
	assert.Equal(t, 1, stat.ScanRequired)
	assert.Equal(t, 1, stat.ScanCompleted)
}

func TestBuildReportPayloadScanBreakdowns(t *testing.T) {
	scans := []models.ScanResult{
		{
			FilePath:          "/docs/a.pdf",
			HasPersonalData:   true,
			PersonalDataTypes: models.StringList{"email", "tax-id"},
			RiskLevel:         models.RiskCritical,
		},
		{
			FilePath:          "/docs/b.pdf",
			HasPersonalData:   true,
			PersonalDataTypes: models.StringList{"email"},
			RiskLevel:         models.RiskMedium,
		},
		{
			FilePath:  "/docs/c.pdf",
			RiskLevel: models.RiskLow,
		},
	}
	payload := BuildReportPayload(nil, scans)

	assert.Equal(t, 2, payload.Summary.FilesWithPersonalData)
	assert.Equal(t, 1, payload.Summary.CriticalRiskFiles)

	// 一个文件命中多个类别时每个桶都计数
	assert.Equal(t, 2, payload.PersonalDataTypeBreakdown["email"])
	assert.Equal(t, 1, payload.PersonalDataTypeBreakdown["tax-id"])

	critical := payload.RiskLevelBreakdown[models.RiskCritical]
	assert.Equal(t, 1, critical.Count)
	assert.Equal(t, []string{"/docs/a.pdf"}, critical.Files)
}

func TestTopBlockedFilesOrderingAndDedup(t *testing.T) {
	attempts := []models.SharingAttempt{
		blockedAttempt(1, "/docs/b.pdf", "requires scan"),
		blockedAttempt(1, "/docs/b.pdf", "requires scan"), // 重复原因去重
		blockedAttempt(2, "/docs/a.pdf", "requires scan"),
		blockedAttempt(2, "/docs/a.pdf", "personal data detected: risk level critical, types tax-id"),
		blockedAttempt(3, "/docs/c.pdf", "requires scan"),
		allowedAttempt(3, "/docs/c.pdf"), // 放行的不计入
	}
	top := topBlockedFiles(attempts, 10)

	require.Len(t, top, 3)
	// 次数相同按路径升序
	assert.Equal(t, "/docs/a.pdf", top[0].ItemPath)
	assert.Equal(t, 2, top[0].BlockedCount)
	assert.Len(t, top[0].Reasons, 2)
	assert.Equal(t, "/docs/b.pdf", top[1].ItemPath)
	assert.Equal(t, []string{"requires scan"}, top[1].Reasons)
	assert.Equal(t, "/docs/c.pdf", top[2].ItemPath)
	assert.Equal(t, 1, top[2].BlockedCount)
}

func TestTopBlockedFilesTruncatedToTen(t *testing.T) {
	var attempts []models.SharingAttempt
	for i := 0; i < 15; i++ {
		attempts = append(attempts, blockedAttempt(1, fmt.Sprintf("/docs/%02d.pdf", i), "requires scan"))
	}
	top := topBlockedFiles(attempts, 10)

	assert.Len(t, top, 10)
}

func TestReportPayloadJSONKeyContract(t *testing.T) {
	payload := BuildReportPayload(
		[]models.SharingAttempt{allowedAttempt(1, "/docs/a.pdf")},
		[]models.ScanResult{{FilePath: "/docs/a.pdf", RiskLevel: models.RiskLow}},
	)
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	// 持久化契约的顶层键名
	for _, key := range []string{
		"summary", "userStatistics", "riskLevelBreakdown",
		"personalDataTypeBreakdown", "topBlockedFiles",
		"detailedSharingAttempts", "fileScanResults",
	} {
		assert.Contains(t, decoded, key)
	}

	var summary map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["summary"], &summary))
	assert.Contains(t, summary, "complianceRate")
}

func TestComplianceRateFormat(t *testing.T) {
	assert.Equal(t, "0.00", complianceRate(0, 0))
	assert.Equal(t, "100.00", complianceRate(5, 5))
	assert.Equal(t, "33.33", complianceRate(1, 3))
	assert.Equal(t, "66.67", complianceRate(2, 3))
}
