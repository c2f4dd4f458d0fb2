package erp

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	loginErr     error
	companyPages [][]CompanyRecord
	contactPages [][]ContactRecord
}

var _ ErpFetcher = (*fakeFetcher)(nil)

func (f *fakeFetcher) Login(ctx context.Context) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "client-123", nil
}

func (f *fakeFetcher) FetchCompanies(ctx context.Context, token string, page int) ([]CompanyRecord, error) {
	if page > len(f.companyPages) {
		return nil, nil
	}
	return f.companyPages[page-1], nil
}

func (f *fakeFetcher) FetchContacts(ctx context.Context, token string, page int) ([]ContactRecord, error) {
	if page > len(f.contactPages) {
		return nil, nil
	}
	return f.contactPages[page-1], nil
}

type fakeCompanyRepo struct {
	byCode map[string]*models.Company
	saved  []models.Company
}

var _ repositories.CompanyRepository = (*fakeCompanyRepo)(nil)

func (r *fakeCompanyRepo) FindByErpCode(code string) (*models.Company, error) {
	return r.byCode[code], nil
}

func (r *fakeCompanyRepo) Upsert(company *models.Company) error {
	if r.byCode == nil {
		r.byCode = make(map[string]*models.Company)
	}
	company.ID = uint64(len(r.saved) + 1)
	r.saved = append(r.saved, *company)
	r.byCode[company.ErpCode] = company
	return nil
}

type fakeContactRepo struct {
	saved []models.Contact
}

var _ repositories.ContactRepository = (*fakeContactRepo)(nil)

func (r *fakeContactRepo) FindByID(uint64) (*models.Contact, error)      { return nil, nil }
func (r *fakeContactRepo) FindByErpCode(string) (*models.Contact, error) { return nil, nil }
func (r *fakeContactRepo) Upsert(contact *models.Contact) error {
	r.saved = append(r.saved, *contact)
	return nil
}

func admin() *models.User {
	return &models.User{ID: 1, Username: "root", Role: models.RoleAdmin}
}

func TestSyncRequiresAdmin(t *testing.T) {
	svc := NewSyncService(&fakeFetcher{}, &fakeCompanyRepo{}, &fakeContactRepo{})

	_, err := svc.Sync(context.Background(), &models.User{ID: 2, Role: models.RoleManager})
	assert.ErrorIs(t, err, xerr.ErrRoleRequired)
}

func TestSyncLoginFailure(t *testing.T) {
	svc := NewSyncService(
		&fakeFetcher{loginErr: errors.New("invalid credentials")},
		&fakeCompanyRepo{}, &fakeContactRepo{},
	)

	_, err := svc.Sync(context.Background(), admin())
	assert.ErrorIs(t, err, xerr.ErrErpError)
}

func TestSyncPaginatesUntilEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{
		companyPages: [][]CompanyRecord{
			{{Code: "C001", Name: "Alpha AE"}, {Code: "C002", Name: "Beta EPE"}},
			{{Code: "C003", Name: "Gamma IKE"}},
		},
	}
	companyRepo := &fakeCompanyRepo{}
	svc := NewSyncService(fetcher, companyRepo, &fakeContactRepo{})

	stats, err := svc.Sync(context.Background(), admin())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Companies)
	require.Len(t, companyRepo.saved, 3)
	assert.Equal(t, "C003", companyRepo.saved[2].ErpCode)
}

func TestSyncContactsResolveCompany(t *testing.T) {
	fetcher := &fakeFetcher{
		companyPages: [][]CompanyRecord{
			{{Code: "C001", Name: "Alpha AE"}},
		},
		contactPages: [][]ContactRecord{
			{
				{Code: "P001", CompanyCode: "C001", Name: "Nikos", Email: "nikos@alpha.gr"},
				{Code: "P002", CompanyCode: "MISSING", Name: "Maria"},
				{Code: "P003", Name: "独立联系人"},
			},
		},
	}
	contactRepo := &fakeContactRepo{}
	svc := NewSyncService(fetcher, &fakeCompanyRepo{}, contactRepo)

	stats, err := svc.Sync(context.Background(), admin())
	require.NoError(t, err)

	// 公司缺失的联系人跳过并计数，不挂公司的照常写入
	assert.Equal(t, 2, stats.Contacts)
	assert.Equal(t, 1, stats.SkippedContacts)
	require.Len(t, contactRepo.saved, 2)
	require.NotNil(t, contactRepo.saved[0].CompanyID)
	assert.Equal(t, uint64(1), *contactRepo.saved[0].CompanyID)
	assert.Nil(t, contactRepo.saved[1].CompanyID)
}

func TestSyncSkipsRecordsWithoutCode(t *testing.T) {
	fetcher := &fakeFetcher{
		companyPages: [][]CompanyRecord{
			{{Code: "", Name: "无编码公司"}, {Code: "C001", Name: "Alpha AE"}},
		},
	}
	svc := NewSyncService(fetcher, &fakeCompanyRepo{}, &fakeContactRepo{})

	stats, err := svc.Sync(context.Background(), admin())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Companies)
}
