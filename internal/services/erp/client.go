package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/utils"
)

// ERP 侧的对象名
const (
	objectCompany = "CUSTOMER"
	objectContact = "CONTACT"
)

// CompanyRecord ERP 返回的公司记录
type CompanyRecord struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	VatNo   string `json:"vatNo"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ContactRecord ERP 返回的联系人记录
type ContactRecord struct {
	Code        string `json:"code"`
	CompanyCode string `json:"companyCode"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// Client ERP HTTP 客户端：登录换取会话令牌后分页拉取对象
// ERP 的响应可能是 legacy 字符集，所有响应体先过编码回退链再解析
type Client struct {
	httpClient *http.Client
	cfg        *config.Config
}

// NewClient 创建一个新的 ERP 客户端
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.ERP.Timeout},
		cfg:        cfg,
	}
}

// Login 换取会话令牌
func (c *Client) Login(ctx context.Context) (string, error) {
	payload := map[string]string{
		"username": c.cfg.ERP.Username,
		"password": c.cfg.ERP.Password,
		"appId":    c.cfg.ERP.AppID,
	}
	var result struct {
		Success  bool   `json:"success"`
		ClientID string `json:"clientId"`
		Error    string `json:"error"`
	}
	if err := c.post(ctx, "/login", payload, &result); err != nil {
		return "", err
	}
	if !result.Success || result.ClientID == "" {
		return "", fmt.Errorf("ERP 登录被拒绝: %s", result.Error)
	}
	return result.ClientID, nil
}

// FetchCompanies 拉取一页公司记录，页码从 1 开始
func (c *Client) FetchCompanies(ctx context.Context, token string, page int) ([]CompanyRecord, error) {
	var result struct {
		Success bool            `json:"success"`
		Rows    []CompanyRecord `json:"rows"`
		Error   string          `json:"error"`
	}
	if err := c.fetchPage(ctx, token, objectCompany, page, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("ERP 拉取公司失败: %s", result.Error)
	}
	return result.Rows, nil
}

// FetchContacts 拉取一页联系人记录，页码从 1 开始
func (c *Client) FetchContacts(ctx context.Context, token string, page int) ([]ContactRecord, error) {
	var result struct {
		Success bool            `json:"success"`
		Rows    []ContactRecord `json:"rows"`
		Error   string          `json:"error"`
	}
	if err := c.fetchPage(ctx, token, objectContact, page, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("ERP 拉取联系人失败: %s", result.Error)
	}
	return result.Rows, nil
}

func (c *Client) fetchPage(ctx context.Context, token, object string, page int, target any) error {
	payload := map[string]any{
		"clientId": token,
		"object":   object,
		"page":     page,
		"pageSize": c.cfg.ERP.PageSize,
	}
	return c.post(ctx, "/list", payload, target)
}

// post 发送请求并解析响应，响应体先走字符集回退链解码
func (c *Client) post(ctx context.Context, path string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化 ERP 请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ERP.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("构造 ERP 请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("调用 ERP 接口失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取 ERP 响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ERP 接口返回异常状态 %d", resp.StatusCode)
	}

	decoded, err := utils.DecodeText(raw)
	if err != nil {
		return fmt.Errorf("解码 ERP 响应失败: %w", err)
	}
	if err := json.Unmarshal([]byte(decoded), target); err != nil {
		return fmt.Errorf("解析 ERP 响应失败: %w", err)
	}
	return nil
}
