package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

type fakeSharingRepo struct {
	item *models.SharedItem
}

var _ repositories.SharingRepository = (*fakeSharingRepo)(nil)

func (r *fakeSharingRepo) WithTx(tx *gorm.DB) repositories.SharingRepository { return r }
func (r *fakeSharingRepo) CreateAttempt(*models.SharingAttempt) error        { return nil }
func (r *fakeSharingRepo) CreateSharedItem(*models.SharedItem) error         { return nil }
func (r *fakeSharingRepo) UpsertUserSharedFolder(uint64, string) error       { return nil }
func (r *fakeSharingRepo) FindSharedItemByID(id uint64) (*models.SharedItem, error) {
	if r.item != nil && r.item.ID == id {
		return r.item, nil
	}
	return nil, nil
}
func (r *fakeSharingRepo) FindSharedByOwner(uint64) ([]models.SharedItem, error)  { return nil, nil }
func (r *fakeSharingRepo) FindSharedWithUser(uint64) ([]models.SharedItem, error) { return nil, nil }
func (r *fakeSharingRepo) DeactivateSharedItem(*models.SharedItem) error          { return nil }
func (r *fakeSharingRepo) FindAttemptsInRange(start, end time.Time) ([]models.SharingAttempt, error) {
	return nil, nil
}

type fakeContactRepo struct {
	contact *models.Contact
}

var _ repositories.ContactRepository = (*fakeContactRepo)(nil)

func (r *fakeContactRepo) FindByID(id uint64) (*models.Contact, error) {
	if r.contact != nil && r.contact.ID == id {
		return r.contact, nil
	}
	return nil, nil
}
func (r *fakeContactRepo) FindByErpCode(string) (*models.Contact, error) { return nil, nil }
func (r *fakeContactRepo) Upsert(*models.Contact) error                  { return nil }

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) Send(msg *gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Share: config.ShareConfig{BaseURL: "https://gfiles.example.com/"},
		SMTP:  config.SMTPConfig{From: "noreply@gfiles.example.com"},
	}
}

func owner() *models.User {
	return &models.User{ID: 1, Username: "alice"}
}

func contactShareItem() *models.SharedItem {
	contactID := uint64(5)
	link := "tok_abc123"
	expiry := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	return &models.SharedItem{
		ID:                  10,
		ItemPath:            "/docs/a.pdf",
		ItemName:            "a.pdf",
		ItemType:            models.ItemTypeFile,
		SharedByUserID:      1,
		SharingType:         models.ShareTypeContact,
		SharedWithContactID: &contactID,
		ShareLink:           &link,
		ShareLinkExpiresAt:  &expiry,
		CanView:             true,
		CanDownload:         true,
		IsActive:            true,
	}
}

func newService(item *models.SharedItem, contact *models.Contact, sender MailSender) NotifyService {
	return NewNotifyService(
		&fakeSharingRepo{item: item},
		&fakeContactRepo{contact: contact},
		sender,
		testConfig(),
	)
}

func TestSendShareEmailSuccess(t *testing.T) {
	sender := &fakeSender{}
	svc := newService(contactShareItem(), &models.Contact{ID: 5, Name: "Nikos", Email: "nikos@example.gr"}, sender)

	err := svc.SendShareEmail(context.Background(), owner(), 10)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"nikos@example.gr"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"noreply@gfiles.example.com"}, msg.GetHeader("From"))
	require.Len(t, msg.GetHeader("Subject"), 1)
	assert.Contains(t, msg.GetHeader("Subject")[0], "a.pdf")
}

func TestSendShareEmailShareNotFound(t *testing.T) {
	svc := newService(nil, nil, &fakeSender{})
	err := svc.SendShareEmail(context.Background(), owner(), 10)
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)
}

func TestSendShareEmailRevokedShare(t *testing.T) {
	item := contactShareItem()
	item.IsActive = false
	svc := newService(item, nil, &fakeSender{})

	err := svc.SendShareEmail(context.Background(), owner(), 10)
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)
}

func TestSendShareEmailOnlyOwnerCanSend(t *testing.T) {
	svc := newService(contactShareItem(), nil, &fakeSender{})
	other := &models.User{ID: 2, Username: "bob"}

	err := svc.SendShareEmail(context.Background(), other, 10)
	assert.ErrorIs(t, err, xerr.ErrPermissionDenied)
}

func TestSendShareEmailRejectsUserShare(t *testing.T) {
	item := contactShareItem()
	targetID := uint64(2)
	item.SharingType = models.ShareTypeUser
	item.SharedWithContactID = nil
	item.SharedWithUserID = &targetID
	svc := newService(item, nil, &fakeSender{})

	err := svc.SendShareEmail(context.Background(), owner(), 10)
	assert.ErrorIs(t, err, xerr.ErrNotContactShare)
}

func TestSendShareEmailMissingLink(t *testing.T) {
	item := contactShareItem()
	item.ShareLink = nil
	svc := newService(item, nil, &fakeSender{})

	err := svc.SendShareEmail(context.Background(), owner(), 10)
	assert.ErrorIs(t, err, xerr.ErrShareLinkMissing)
}

func TestSendShareEmailContactMissing(t *testing.T) {
	svc := newService(contactShareItem(), nil, &fakeSender{})
	err := svc.SendShareEmail(context.Background(), owner(), 10)
	assert.ErrorIs(t, err, xerr.ErrContactNotFound)
}

func TestSendShareEmailContactWithoutEmail(t *testing.T) {
	svc := newService(contactShareItem(), &models.Contact{ID: 5, Name: "Nikos", Email: "  "}, &fakeSender{})
	err := svc.SendShareEmail(context.Background(), owner(), 10)
	assert.ErrorIs(t, err, xerr.ErrContactNoEmail)
}

func TestSendShareEmailSmtpFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("dial tcp: connection refused")}
	svc := newService(contactShareItem(), &models.Contact{ID: 5, Name: "Nikos", Email: "nikos@example.gr"}, sender)

	err := svc.SendShareEmail(context.Background(), owner(), 10)
	assert.ErrorIs(t, err, xerr.ErrSmtpError)
}

func TestDescribePermissions(t *testing.T) {
	item := contactShareItem()
	assert.Equal(t, "查看、下载", describePermissions(item))

	item.CanView = false
	item.CanDownload = false
	assert.Equal(t, "无", describePermissions(item))
}
