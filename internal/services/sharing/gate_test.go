package sharing

import (
	"context"
	"testing"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSharingRepo struct {
	attempts []models.SharingAttempt
	items    []models.SharedItem
	markers  []models.UserSharedFolder
	existing []models.SharedItem
}

var _ repositories.SharingRepository = (*fakeSharingRepo)(nil)

func (r *fakeSharingRepo) WithTx(tx *gorm.DB) repositories.SharingRepository { return r }

func (r *fakeSharingRepo) CreateAttempt(attempt *models.SharingAttempt) error {
	attempt.ID = uint64(len(r.attempts) + 1)
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *fakeSharingRepo) CreateSharedItem(item *models.SharedItem) error {
	item.ID = uint64(len(r.items) + 1)
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeSharingRepo) UpsertUserSharedFolder(userID uint64, folderPath string) error {
	r.markers = append(r.markers, models.UserSharedFolder{UserID: userID, FolderPath: folderPath})
	return nil
}

func (r *fakeSharingRepo) FindSharedItemByID(id uint64) (*models.SharedItem, error) {
	for i := range r.existing {
		if r.existing[i].ID == id {
			return &r.existing[i], nil
		}
	}
	return nil, nil
}

func (r *fakeSharingRepo) FindSharedByOwner(userID uint64) ([]models.SharedItem, error) {
	return r.existing, nil
}

func (r *fakeSharingRepo) FindSharedWithUser(userID uint64) ([]models.SharedItem, error) {
	return r.existing, nil
}

func (r *fakeSharingRepo) DeactivateSharedItem(item *models.SharedItem) error {
	item.IsActive = false
	for i := range r.existing {
		if r.existing[i].ID == item.ID {
			r.existing[i].IsActive = false
		}
	}
	return nil
}

func (r *fakeSharingRepo) FindAttemptsInRange(start, end time.Time) ([]models.SharingAttempt, error) {
	return r.attempts, nil
}

type fakeScanResultRepo struct {
	latest *models.ScanResult
}

var _ repositories.ScanResultRepository = (*fakeScanResultRepo)(nil)

func (r *fakeScanResultRepo) Create(result *models.ScanResult) error { return nil }

func (r *fakeScanResultRepo) FindLatestByPath(filePath string, since time.Time) (*models.ScanResult, error) {
	return r.latest, nil
}

func (r *fakeScanResultRepo) FindInRange(start, end time.Time) ([]models.ScanResult, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[uint64]*models.User
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) CreateUser(user *models.User) error { return nil }
func (r *fakeUserRepo) GetUserByUsername(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepo) GetUserByEmail(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepo) GetUserByID(id uint64) (*models.User, error)   { return r.users[id], nil }
func (r *fakeUserRepo) ListActiveUsers() ([]models.User, error)       { return nil, nil }
func (r *fakeUserRepo) ListDepartments() ([]models.Department, error) { return nil, nil }
func (r *fakeUserRepo) UpdateUser(user *models.User) error            { return nil }

type fakeContactRepo struct {
	contacts map[uint64]*models.Contact
}

var _ repositories.ContactRepository = (*fakeContactRepo)(nil)

func (r *fakeContactRepo) FindByID(id uint64) (*models.Contact, error)   { return r.contacts[id], nil }
func (r *fakeContactRepo) FindByErpCode(string) (*models.Contact, error) { return nil, nil }
func (r *fakeContactRepo) Upsert(*models.Contact) error                  { return nil }

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingPublisher struct {
	published []models.SharingAttempt
}

func (p *recordingPublisher) PublishAttempt(attempt *models.SharingAttempt) {
	p.published = append(p.published, *attempt)
}

func testConfig() *config.Config {
	return &config.Config{
		Share: config.ShareConfig{
			BaseURL:       "https://gfiles.example.com",
			LinkExpiresIn: 7 * 24 * time.Hour,
			ScanFreshness: 24 * time.Hour,
		},
	}
}

type gateFixture struct {
	gate        GateService
	sharingRepo *fakeSharingRepo
	scanRepo    *fakeScanResultRepo
	publisher   *recordingPublisher
}

func newGateFixture(latest *models.ScanResult) *gateFixture {
	sharingRepo := &fakeSharingRepo{}
	scanRepo := &fakeScanResultRepo{latest: latest}
	publisher := &recordingPublisher{}
	gate := NewGateService(
		sharingRepo,
		scanRepo,
		&fakeUserRepo{users: map[uint64]*models.User{2: {ID: 2, Username: "bob"}}},
		&fakeContactRepo{contacts: map[uint64]*models.Contact{5: {ID: 5, Name: "Nikos", Email: "nikos@example.gr"}}},
		fakeTxManager{},
		publisher,
		nil,
		testConfig(),
	)
	return &gateFixture{gate: gate, sharingRepo: sharingRepo, scanRepo: scanRepo, publisher: publisher}
}

func sharer() *models.User {
	return &models.User{ID: 1, Username: "alice", Role: models.RoleUser}
}

func fileShareRequest() *ShareRequest {
	targetID := uint64(2)
	return &ShareRequest{
		ItemPath:         "/docs/a.pdf",
		ItemName:         "a.pdf",
		ItemType:         models.ItemTypeFile,
		SharingType:      models.ShareTypeUser,
		SharedWithUserID: &targetID,
		CanView:          true,
	}
}

func freshCleanScan() *models.ScanResult {
	return &models.ScanResult{
		ID:              11,
		FilePath:        "/docs/a.pdf",
		ScanDate:        time.Now().Add(-time.Hour),
		HasPersonalData: false,
		RiskLevel:       models.RiskLow,
	}
}

func freshRiskyScan() *models.ScanResult {
	return &models.ScanResult{
		ID:                12,
		FilePath:          "/docs/a.pdf",
		ScanDate:          time.Now().Add(-time.Hour),
		HasPersonalData:   true,
		PersonalDataTypes: models.StringList{"email", "tax-id"},
		RiskLevel:         models.RiskCritical,
	}
}

func TestShareRejectsMissingFields(t *testing.T) {
	fx := newGateFixture(nil)

	req := fileShareRequest()
	req.ItemPath = ""
	_, err := fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})
	assert.ErrorIs(t, err, xerr.ErrInvalidParams)

	req = fileShareRequest()
	req.SharingType = "group"
	_, err = fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})
	assert.ErrorIs(t, err, xerr.ErrInvalidShareType)

	req = fileShareRequest()
	req.ItemType = "link"
	_, err = fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})
	assert.ErrorIs(t, err, xerr.ErrInvalidItemType)

	req = fileShareRequest()
	req.SharedWithUserID = nil
	_, err = fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})
	assert.ErrorIs(t, err, xerr.ErrInvalidParams)

	// 校验失败不留审计记录
	assert.Empty(t, fx.sharingRepo.attempts)
}

func TestShareTargetNotFound(t *testing.T) {
	fx := newGateFixture(nil)

	req := fileShareRequest()
	missing := uint64(99)
	req.SharedWithUserID = &missing
	_, err := fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})
	assert.ErrorIs(t, err, xerr.ErrUserNotFound)

	req = fileShareRequest()
	req.SharingType = models.ShareTypeContact
	req.SharedWithUserID = nil
	req.SharedWithContactID = &missing
	_, err = fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})
	assert.ErrorIs(t, err, xerr.ErrContactNotFound)
}

func TestShareFileWithoutFreshScanIsBlocked(t *testing.T) {
	fx := newGateFixture(nil)

	result, err := fx.gate.Share(context.Background(), sharer(), fileShareRequest(), RequestMeta{IP: "10.0.0.8"})
	require.NoError(t, err)

	assert.False(t, result.Allowed)
	assert.False(t, result.GdprCompliant)
	assert.True(t, result.ScanRequired)
	assert.Equal(t, BlockedReasonRequiresScan, result.BlockedReason)

	// 拦截也必须落一条审计记录并投递到索引管道
	require.Len(t, fx.sharingRepo.attempts, 1)
	attempt := fx.sharingRepo.attempts[0]
	assert.False(t, attempt.GdprCompliant)
	assert.True(t, attempt.ScanRequired)
	require.NotNil(t, attempt.BlockedReason)
	assert.Equal(t, BlockedReasonRequiresScan, *attempt.BlockedReason)
	assert.Equal(t, "10.0.0.8", attempt.RequestIP)
	assert.Empty(t, fx.sharingRepo.items)
	assert.Len(t, fx.publisher.published, 1)
}

func TestShareFileWithCleanScanIsAllowed(t *testing.T) {
	fx := newGateFixture(freshCleanScan())

	result, err := fx.gate.Share(context.Background(), sharer(), fileShareRequest(), RequestMeta{})
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.True(t, result.GdprCompliant)

	require.Len(t, fx.sharingRepo.items, 1)
	item := fx.sharingRepo.items[0]
	assert.Equal(t, uint64(1), item.SharedByUserID)
	require.NotNil(t, item.SharedWithUserID)
	assert.Equal(t, uint64(2), *item.SharedWithUserID)
	assert.Nil(t, item.ShareLink) // 内部用户分享不生成外链
	assert.True(t, item.IsActive)

	require.Len(t, fx.sharingRepo.attempts, 1)
	attempt := fx.sharingRepo.attempts[0]
	assert.True(t, attempt.GdprCompliant)
	assert.Nil(t, attempt.BlockedReason)
	require.NotNil(t, attempt.ScanResultID)
	assert.Equal(t, uint64(11), *attempt.ScanResultID)

	// 用户分享要落目录标记
	require.Len(t, fx.sharingRepo.markers, 1)
	assert.Equal(t, uint64(2), fx.sharingRepo.markers[0].UserID)
	assert.Equal(t, "/docs/a.pdf", fx.sharingRepo.markers[0].FolderPath)
}

func TestShareRiskyFileNeedsAcknowledgement(t *testing.T) {
	fx := newGateFixture(freshRiskyScan())

	result, err := fx.gate.Share(context.Background(), sharer(), fileShareRequest(), RequestMeta{})
	require.NoError(t, err)

	assert.False(t, result.Allowed)
	assert.False(t, result.ScanRequired)
	assert.Contains(t, result.BlockedReason, "critical")
	assert.Contains(t, result.BlockedReason, "tax-id")
	assert.Equal(t, models.RiskCritical, result.RiskLevel)
	assert.Empty(t, fx.sharingRepo.items)
}

func TestShareAcknowledgedWithoutJustificationRejected(t *testing.T) {
	fx := newGateFixture(freshRiskyScan())

	req := fileShareRequest()
	req.UserAcknowledged = true
	req.UserJustification = "   "
	_, err := fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})

	assert.ErrorIs(t, err, xerr.ErrJustificationRequired)
	assert.Empty(t, fx.sharingRepo.items)
	assert.Empty(t, fx.sharingRepo.attempts)
}

func TestShareOverrideKeepsOriginalComplianceOutcome(t *testing.T) {
	fx := newGateFixture(freshRiskyScan())

	req := fileShareRequest()
	req.UserAcknowledged = true
	req.UserJustification = "审计要求，已获部门经理批准"
	result, err := fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	// 绕过放行，但审计记录保留原始的不合规结论
	assert.False(t, result.GdprCompliant)
	require.Len(t, fx.sharingRepo.items, 1)
	require.Len(t, fx.sharingRepo.attempts, 1)

	attempt := fx.sharingRepo.attempts[0]
	assert.False(t, attempt.GdprCompliant)
	assert.True(t, attempt.UserAcknowledged)
	require.NotNil(t, attempt.UserJustification)
	assert.Equal(t, "审计要求，已获部门经理批准", *attempt.UserJustification)
}

func TestShareFolderSkipsComplianceCheck(t *testing.T) {
	fx := newGateFixture(nil) // 没有任何扫描记录

	req := fileShareRequest()
	req.ItemPath = "/docs/reports"
	req.ItemName = "reports"
	req.ItemType = models.ItemTypeFolder
	result, err := fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.True(t, result.GdprCompliant)
	assert.False(t, result.ScanRequired)
	require.Len(t, fx.sharingRepo.items, 1)
}

func TestShareContactGeneratesShareLink(t *testing.T) {
	fx := newGateFixture(freshCleanScan())

	contactID := uint64(5)
	req := fileShareRequest()
	req.SharingType = models.ShareTypeContact
	req.SharedWithUserID = nil
	req.SharedWithContactID = &contactID
	result, err := fx.gate.Share(context.Background(), sharer(), req, RequestMeta{})
	require.NoError(t, err)

	require.Len(t, fx.sharingRepo.items, 1)
	item := fx.sharingRepo.items[0]
	require.NotNil(t, item.ShareLink)
	assert.NotEmpty(t, *item.ShareLink)
	assert.NotNil(t, item.ShareLinkExpiresAt)
	require.NotNil(t, item.SharedWithContactID)
	assert.Equal(t, contactID, *item.SharedWithContactID)

	// 联系人分享不落用户目录标记
	assert.Empty(t, fx.sharingRepo.markers)
	assert.True(t, result.Allowed)
}

func TestListSharesRejectsUnknownType(t *testing.T) {
	fx := newGateFixture(nil)

	_, err := fx.gate.ListShares(context.Background(), 1, "everything")
	assert.ErrorIs(t, err, xerr.ErrInvalidParams)
}

func TestRevokeShare(t *testing.T) {
	fx := newGateFixture(nil)
	fx.sharingRepo.existing = []models.SharedItem{
		{ID: 3, SharedByUserID: 1, IsActive: true},
	}

	// 非发起人不能撤销
	err := fx.gate.RevokeShare(context.Background(), 2, 3)
	assert.ErrorIs(t, err, xerr.ErrPermissionDenied)

	// 发起人撤销成功
	err = fx.gate.RevokeShare(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.False(t, fx.sharingRepo.existing[0].IsActive)

	// 再撤销一次视为不存在
	err = fx.gate.RevokeShare(context.Background(), 1, 3)
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)

	err = fx.gate.RevokeShare(context.Background(), 1, 404)
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)
}
