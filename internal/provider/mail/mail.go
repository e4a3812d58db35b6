package mail

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/transport/client"
)

const (
	createInboxPath = "/v2/inbox/create"
	listEmailsPath  = "/v2/inbox"

	// PlaceholderTextBody 邮件服务在纯文本正文缺失时返回的占位值
	PlaceholderTextBody = "TEXT_FORMAT_BODY"
)

// ErrEmptyInbox 创建收件箱的响应缺少地址或令牌
var ErrEmptyInbox = errors.New("inbox response missing address or token")

// Client 一次性邮箱服务客户端
type Client struct {
	api *client.Client
}

// NewClient 创建一次性邮箱服务客户端
func NewClient(api *client.Client) *Client {
	return &Client{api: api}
}

type inboxResponse struct {
	Address string `json:"address"`
	Token   string `json:"token"`
}

type emailsResponse struct {
	Emails  []domain.Email `json:"emails"`
	Expired bool           `json:"expired"`
}

// CreateInbox 创建新的临时收件箱
func (c *Client) CreateInbox(ctx context.Context) (*domain.Inbox, error) {
	var resp inboxResponse
	if err := c.api.PostJSON(ctx, createInboxPath, struct{}{}, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Address == "" || resp.Token == "" {
		return nil, ErrEmptyInbox
	}
	return &domain.Inbox{Address: resp.Address, Token: resp.Token}, nil
}

// ListEmails 按检索令牌列出收件箱中的邮件
func (c *Client) ListEmails(ctx context.Context, token string) ([]domain.Email, error) {
	var resp emailsResponse
	path := fmt.Sprintf("%s?token=%s", listEmailsPath, url.QueryEscape(token))
	if err := c.api.GetJSON(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Emails, nil
}

// PreferredBody 返回用于提取链接的正文。
//
// 纯文本正文等于占位值时退回 HTML 正文，其余情况一律使用纯文本。
func PreferredBody(email domain.Email) string {
	if email.Body != PlaceholderTextBody {
		return email.Body
	}
	return email.HTML
}
