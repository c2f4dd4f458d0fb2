package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/gdpr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GdprHandler struct {
	scanService   gdpr.ScanService
	reportService gdpr.ReportService
	searchService gdpr.SearchService
}

func NewGdprHandler(scanService gdpr.ScanService, reportService gdpr.ReportService, searchService gdpr.SearchService) *GdprHandler {
	return &GdprHandler{
		scanService:   scanService,
		reportService: reportService,
		searchService: searchService,
	}
}

type ScanFileRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

type GenerateReportRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// @Summary 扫描文件
// @Description 立即扫描一个 CDN 文件并持久化扫描结果
// @Tags GDPR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param data body ScanFileRequest true "文件路径"
// @Success 200 {object} xerr.Response "扫描结果"
// @Failure 400 {object} xerr.Response "参数错误"
// @Failure 404 {object} xerr.Response "文件不存在"
// @Router /api/v1/gdpr/scan [post]
func (h *GdprHandler) ScanFile(c *gin.Context) {
	var req ScanFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	result, err := h.scanService.ScanFile(c.Request.Context(), req.FilePath)
	if err != nil {
		switch {
		case errors.Is(err, xerr.ErrInvalidParams):
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
		case errors.Is(err, xerr.ErrCdnPathNotFound):
			xerr.Error(c, http.StatusNotFound, xerr.CdnPathNotFoundCode, err.Error())
		default:
			logger.Error("ScanFile: 扫描失败", zap.String("filePath", req.FilePath), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "文件扫描失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "扫描完成", result)
}

// @Summary 生成合规报告
// @Description 聚合时间范围内的审计与扫描数据并落一份不可变报告，仅限 manager/admin
// @Tags GDPR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param data body GenerateReportRequest true "报告时间范围"
// @Success 200 {object} xerr.Response "报告与聚合负载"
// @Failure 400 {object} xerr.Response "时间范围无效"
// @Failure 403 {object} xerr.Response "角色不足"
// @Router /api/v1/gdpr/reports [post]
func (h *GdprHandler) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	report, payload, err := h.reportService.GenerateReport(c.Request.Context(), user, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, xerr.ErrRoleRequired):
			xerr.Error(c, http.StatusForbidden, xerr.RoleRequiredCode, err.Error())
		case errors.Is(err, xerr.ErrInvalidDateRange):
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidDateRangeCode, err.Error())
		default:
			logger.Error("GenerateReport: 生成报告失败", zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "生成报告失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "报告生成成功", gin.H{
		"report":  report,
		"payload": payload,
	})
}

// @Summary 报告列表
// @Description 分页列出历史报告（不含完整负载），仅限 manager/admin
// @Tags GDPR
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码，默认 1"
// @Param page_size query int false "每页条数，默认 10"
// @Success 200 {object} xerr.Response "报告列表"
// @Router /api/v1/gdpr/reports [get]
func (h *GdprHandler) ListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	reports, total, err := h.reportService.ListReports(c.Request.Context(), page, pageSize)
	if err != nil {
		logger.Error("ListReports: 查询报告列表失败", zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.DatabaseErrorCode, "查询报告列表失败")
		return
	}

	xerr.Success(c, http.StatusOK, "查询成功", gin.H{
		"reports": reports,
		"total":   total,
	})
}

// @Summary 导出报告
// @Description 以 gzip 附件导出报告的完整聚合负载，仅限 manager/admin
// @Tags GDPR
// @Produce application/gzip
// @Security BearerAuth
// @Param id path int true "报告 ID"
// @Success 200 {file} binary "gzip 压缩的报告负载"
// @Failure 404 {object} xerr.Response "报告不存在"
// @Router /api/v1/gdpr/reports/{id}/export [get]
func (h *GdprHandler) ExportReport(c *gin.Context) {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "无效的报告 ID")
		return
	}

	filename, data, err := h.reportService.ExportReport(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, xerr.ErrReportNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.ReportNotFoundCode, err.Error())
			return
		}
		logger.Error("ExportReport: 导出报告失败", zap.Uint64("reportID", reportID), zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "导出报告失败")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/gzip", data)
}

// @Summary 审计检索
// @Description 对分享审计索引做全文检索，仅限 manager/admin
// @Tags GDPR
// @Produce json
// @Security BearerAuth
// @Param q query string true "检索关键词"
// @Param size query int false "返回条数，默认 20"
// @Success 200 {object} xerr.Response "检索结果"
// @Failure 400 {object} xerr.Response "缺少关键词"
// @Failure 500 {object} xerr.Response "检索服务失败"
// @Router /api/v1/gdpr/attempts/search [get]
func (h *GdprHandler) SearchAttempts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	result, err := h.searchService.SearchAttempts(c.Request.Context(), user, c.Query("q"), size)
	if err != nil {
		switch {
		case errors.Is(err, xerr.ErrRoleRequired):
			xerr.Error(c, http.StatusForbidden, xerr.RoleRequiredCode, err.Error())
		case errors.Is(err, xerr.ErrInvalidParams):
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "检索关键词不能为空")
		default:
			logger.Error("SearchAttempts: 检索失败", zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.SearchErrorCode, "审计检索服务失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "查询成功", result)
}
