package service

import (
	"context"

	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/provider/studio"
)

// InboxProvider 一次性邮箱服务
type InboxProvider interface {
	CreateInbox(ctx context.Context) (*domain.Inbox, error)
	ListEmails(ctx context.Context, token string) ([]domain.Email, error)
}

// MagicLinkProvider 魔法链接认证服务
type MagicLinkProvider interface {
	Send(ctx context.Context, req domain.MagicLinkRequest) (string, error)
	PollToken(ctx context.Context, tokenID string) (string, error)
	Approve(ctx context.Context, link string)
}

// StudioProvider 图像生成服务
type StudioProvider interface {
	CreateJob(ctx context.Context, headers map[string]string, req domain.GenerationRequest) (string, error)
	GetOrderStatus(ctx context.Context, headers map[string]string, orderID string) (*studio.OrderStatus, error)
}

// TokenAcquirer 获取一次性访问凭据
type TokenAcquirer interface {
	AcquireToken(ctx context.Context) (*domain.TokenData, error)
}
