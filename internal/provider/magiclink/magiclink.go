package magiclink

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/transport/client"
)

const (
	sendPath = "/app/api/v1/magiclink/phot"
	pollPath = "/app/api/v1/magiclink-verify/phot/poll"
)

// ErrNoTokenID 发送魔法链接的响应中没有 tokenId
var ErrNoTokenID = errors.New("magic link response missing tokenId")

// Settings 发送魔法链接时附带的站点信息
type Settings struct {
	SiteURL     string // 登录完成后跳转的站点
	PackageID   string
	Country     string
	CountryCode string
	UserAgent   string
}

// Client 魔法链接认证服务客户端
type Client struct {
	api      *client.Client
	settings Settings
	logger   *zap.Logger
}

// NewClient 创建魔法链接客户端
func NewClient(api *client.Client, settings Settings, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{api: api, settings: settings, logger: logger}
}

type sendRequest struct {
	BaseURL      string `json:"baseUrl"`
	Email        string `json:"email"`
	RedirectPage string `json:"redirectPage"`
	PackageID    string `json:"packageId"`
	Country      string `json:"country"`
	CountryCode  string `json:"countryCode"`
	Newsletter   bool   `json:"newsletter"`
	DeviceID     string `json:"deviceId"`
}

type sendResponse struct {
	TokenID string `json:"tokenId"`
}

type pollResponse struct {
	AccessToken string `json:"accessToken"`
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   c.settings.UserAgent,
	}
}

// Send 为指定邮箱请求魔法链接，返回待批准会话的 tokenId
func (c *Client) Send(ctx context.Context, req domain.MagicLinkRequest) (string, error) {
	body := sendRequest{
		BaseURL:      c.settings.SiteURL,
		Email:        req.Email,
		RedirectPage: "",
		PackageID:    c.settings.PackageID,
		Country:      c.settings.Country,
		CountryCode:  c.settings.CountryCode,
		Newsletter:   false,
		DeviceID:     req.DeviceID,
	}

	var resp sendResponse
	if err := c.api.PostJSON(ctx, sendPath, body, c.headers(), &resp); err != nil {
		return "", err
	}
	if resp.TokenID == "" {
		return "", ErrNoTokenID
	}
	return resp.TokenID, nil
}

// PollToken 查询 tokenId 对应的访问令牌，尚未批准时返回空字符串
func (c *Client) PollToken(ctx context.Context, tokenID string) (string, error) {
	var resp pollResponse
	path := fmt.Sprintf("%s?tokenId=%s", pollPath, url.QueryEscape(tokenID))
	if err := c.api.GetJSON(ctx, path, map[string]string{"User-Agent": c.settings.UserAgent}, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Approve 访问审批链接以激活魔法链接。
//
// 尽力而为：失败只记录日志，后续的令牌轮询自然会拿不到令牌。
func (c *Client) Approve(ctx context.Context, link string) {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		c.logger.Warn("approve link parse failed", zap.String("link", link), zap.Error(err))
		return
	}

	target := url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: parsed.Path, RawQuery: parsed.RawQuery}
	if err := c.api.Fetch(ctx, target.String(), map[string]string{"User-Agent": c.settings.UserAgent}); err != nil {
		c.logger.Warn("approve link failed", zap.String("host", parsed.Host), zap.Error(err))
		return
	}

	c.logger.Debug("magic link approved", zap.String("host", parsed.Host))
}
