package notify

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// shareMailData 邮件模板的数据
type shareMailData struct {
	ContactName string
	SenderName  string
	ItemName    string
	ItemType    string
	ShareURL    string
	Permissions string
	ExpiresAt   string
}

var shareMailHTML = htmltemplate.Must(htmltemplate.New("share").Parse(`<html>
<body>
  <p>您好 {{.ContactName}}，</p>
  <p>{{.SenderName}} 通过 G-FILES 与您分享了 {{if eq .ItemType "folder"}}目录{{else}}文件{{end}} <b>{{.ItemName}}</b>。</p>
  <p>访问链接：<a href="{{.ShareURL}}">{{.ShareURL}}</a></p>
  <p>权限：{{.Permissions}}</p>
  {{if .ExpiresAt}}<p>链接有效期至 {{.ExpiresAt}}。</p>{{end}}
  <p>此邮件由系统自动发送，请勿回复。</p>
</body>
</html>`))

var shareMailText = texttemplate.Must(texttemplate.New("share").Parse(`您好 {{.ContactName}}，

{{.SenderName}} 通过 G-FILES 与您分享了 {{if eq .ItemType "folder"}}目录{{else}}文件{{end}} {{.ItemName}}。

访问链接：{{.ShareURL}}
权限：{{.Permissions}}
{{if .ExpiresAt}}链接有效期至 {{.ExpiresAt}}。
{{end}}
此邮件由系统自动发送，请勿回复。`))

// MailSender 抽掉 SMTP 拨号，便于测试替换
type MailSender interface {
	Send(msg *gomail.Message) error
}

type smtpSender struct {
	dialer *gomail.Dialer
}

func (s *smtpSender) Send(msg *gomail.Message) error {
	return s.dialer.DialAndSend(msg)
}

// NewSMTPSender 按配置创建 SMTP 发送器
func NewSMTPSender(cfg *config.Config) MailSender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
	}
}

// NotifyService 联系人分享的邮件通知
type NotifyService interface {
	// SendShareEmail 给联系人分享发送外链通知邮件
	// 前置条件不满足时返回可区分的业务错误，发送失败不重试
	SendShareEmail(ctx context.Context, user *models.User, sharedItemID uint64) error
}

type notifyService struct {
	sharingRepo repositories.SharingRepository
	contactRepo repositories.ContactRepository
	sender      MailSender
	cfg         *config.Config
}

var _ NotifyService = (*notifyService)(nil)

// NewNotifyService 创建一个新的 NotifyService 实例
func NewNotifyService(
	sharingRepo repositories.SharingRepository,
	contactRepo repositories.ContactRepository,
	sender MailSender,
	cfg *config.Config,
) NotifyService {
	return &notifyService{
		sharingRepo: sharingRepo,
		contactRepo: contactRepo,
		sender:      sender,
		cfg:         cfg,
	}
}

func (s *notifyService) SendShareEmail(ctx context.Context, user *models.User, sharedItemID uint64) error {
	item, err := s.sharingRepo.FindSharedItemByID(sharedItemID)
	if err != nil {
		return xerr.ErrDatabaseError
	}
	if item == nil || !item.IsActive {
		return xerr.ErrShareNotFound
	}
	if item.SharedByUserID != user.ID {
		return xerr.ErrPermissionDenied
	}
	if item.SharingType != models.ShareTypeContact || item.SharedWithContactID == nil {
		return xerr.ErrNotContactShare
	}
	if item.ShareLink == nil || *item.ShareLink == "" {
		return xerr.ErrShareLinkMissing
	}

	contact, err := s.contactRepo.FindByID(*item.SharedWithContactID)
	if err != nil {
		return xerr.ErrDatabaseError
	}
	if contact == nil {
		return xerr.ErrContactNotFound
	}
	if strings.TrimSpace(contact.Email) == "" {
		return xerr.ErrContactNoEmail
	}

	data := shareMailData{
		ContactName: contact.Name,
		SenderName:  user.Username,
		ItemName:    item.ItemName,
		ItemType:    item.ItemType,
		ShareURL:    fmt.Sprintf("%s/share/%s", strings.TrimRight(s.cfg.Share.BaseURL, "/"), *item.ShareLink),
		Permissions: describePermissions(item),
	}
	if item.ShareLinkExpiresAt != nil {
		data.ExpiresAt = item.ShareLinkExpiresAt.Format(time.DateTime)
	}

	var htmlBody, textBody bytes.Buffer
	if err := shareMailHTML.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("渲染邮件模板失败: %w", err)
	}
	if err := shareMailText.Execute(&textBody, data); err != nil {
		return fmt.Errorf("渲染邮件模板失败: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.SMTP.From)
	msg.SetHeader("To", contact.Email)
	msg.SetHeader("Subject", fmt.Sprintf("【G-FILES】%s 与您分享了 %s", user.Username, item.ItemName))
	msg.SetBody("text/plain", textBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	if err := s.sender.Send(msg); err != nil {
		logger.Error("发送分享通知邮件失败",
			zap.Uint64("sharedItemID", item.ID),
			zap.String("to", contact.Email),
			zap.Error(err))
		return xerr.ErrSmtpError
	}

	logger.Info("分享通知邮件已发送",
		zap.Uint64("sharedItemID", item.ID), zap.String("to", contact.Email))
	return nil
}

// describePermissions 把权限位拼成可读描述
func describePermissions(item *models.SharedItem) string {
	var perms []string
	if item.CanView {
		perms = append(perms, "查看")
	}
	if item.CanDownload {
		perms = append(perms, "下载")
	}
	if item.CanEdit {
		perms = append(perms, "编辑")
	}
	if item.CanDelete {
		perms = append(perms, "删除")
	}
	if len(perms) == 0 {
		return "无"
	}
	return strings.Join(perms, "、")
}
