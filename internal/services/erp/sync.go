package erp

import (
	"context"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"go.uber.org/zap"
)

// SyncStats 一次同步的结果统计
type SyncStats struct {
	Companies       int `json:"companies"`
	Contacts        int `json:"contacts"`
	SkippedContacts int `json:"skipped_contacts"` // 找不到所属公司的联系人
}

// ErpFetcher 抽掉 HTTP 客户端，便于测试替换
type ErpFetcher interface {
	Login(ctx context.Context) (string, error)
	FetchCompanies(ctx context.Context, token string, page int) ([]CompanyRecord, error)
	FetchContacts(ctx context.Context, token string, page int) ([]ContactRecord, error)
}

var _ ErpFetcher = (*Client)(nil)

// SyncService 把 ERP 的公司与联系人同步进本地库
type SyncService interface {
	// Sync 执行一轮完整同步，按 erp_code 幂等 upsert，仅限 admin 角色
	Sync(ctx context.Context, user *models.User) (*SyncStats, error)
}

type syncService struct {
	fetcher     ErpFetcher
	companyRepo repositories.CompanyRepository
	contactRepo repositories.ContactRepository
}

var _ SyncService = (*syncService)(nil)

// NewSyncService 创建一个新的 SyncService 实例
func NewSyncService(
	fetcher ErpFetcher,
	companyRepo repositories.CompanyRepository,
	contactRepo repositories.ContactRepository,
) SyncService {
	return &syncService{
		fetcher:     fetcher,
		companyRepo: companyRepo,
		contactRepo: contactRepo,
	}
}

func (s *syncService) Sync(ctx context.Context, user *models.User) (*SyncStats, error) {
	if user.Role != models.RoleAdmin {
		return nil, xerr.ErrRoleRequired
	}

	token, err := s.fetcher.Login(ctx)
	if err != nil {
		logger.Error("ERP 登录失败", zap.Error(err))
		return nil, xerr.ErrErpError
	}

	stats := &SyncStats{}
	if err := s.syncCompanies(ctx, token, stats); err != nil {
		logger.Error("同步公司失败", zap.Error(err))
		return nil, xerr.ErrErpError
	}
	if err := s.syncContacts(ctx, token, stats); err != nil {
		logger.Error("同步联系人失败", zap.Error(err))
		return nil, xerr.ErrErpError
	}

	logger.Info("ERP 同步完成",
		zap.Uint64("userID", user.ID),
		zap.Int("companies", stats.Companies),
		zap.Int("contacts", stats.Contacts),
		zap.Int("skippedContacts", stats.SkippedContacts))
	return stats, nil
}

func (s *syncService) syncCompanies(ctx context.Context, token string, stats *SyncStats) error {
	for page := 1; ; page++ {
		records, err := s.fetcher.FetchCompanies(ctx, token, page)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for _, record := range records {
			if record.Code == "" {
				continue
			}
			company := &models.Company{
				ErpCode: record.Code,
				Name:    record.Name,
				VatNo:   record.VatNo,
				Phone:   record.Phone,
				Address: record.Address,
			}
			if err := s.companyRepo.Upsert(company); err != nil {
				return err
			}
			stats.Companies++
		}
	}
}

func (s *syncService) syncContacts(ctx context.Context, token string, stats *SyncStats) error {
	for page := 1; ; page++ {
		records, err := s.fetcher.FetchContacts(ctx, token, page)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for _, record := range records {
			if record.Code == "" {
				continue
			}
			contact := &models.Contact{
				ErpCode: record.Code,
				Name:    record.Name,
				Email:   record.Email,
				Phone:   record.Phone,
			}
			// 联系人挂在已同步的公司下，公司缺失时跳过并计数
			if record.CompanyCode != "" {
				company, err := s.companyRepo.FindByErpCode(record.CompanyCode)
				if err != nil {
					return err
				}
				if company == nil {
					stats.SkippedContacts++
					logger.Warn("联系人所属公司未同步，已跳过",
						zap.String("contactCode", record.Code),
						zap.String("companyCode", record.CompanyCode))
					continue
				}
				contact.CompanyID = &company.ID
			}
			if err := s.contactRepo.Upsert(contact); err != nil {
				return err
			}
			stats.Contacts++
		}
	}
}
