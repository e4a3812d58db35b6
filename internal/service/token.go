package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	jwtpkg "imagegate/backend/internal/auth/jwt"
	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/monitoring"
	"imagegate/backend/internal/poll"
	"imagegate/backend/internal/provider/magiclink"
	"imagegate/backend/internal/provider/mail"
)

// TokenService 通过临时邮箱和魔法链接获取访问令牌
type TokenService struct {
	inbox       InboxProvider
	links       MagicLinkProvider
	policy      poll.Policy
	metrics     *monitoring.Metrics
	logger      *zap.Logger
	newDeviceID func() string
}

// NewTokenService 创建令牌服务
//
// policy 控制收件箱轮询节奏（默认 5 秒一次，共 24 次）。
func NewTokenService(inbox InboxProvider, links MagicLinkProvider, policy poll.Policy, metrics *monitoring.Metrics, logger *zap.Logger) *TokenService {
	return &TokenService{
		inbox:       inbox,
		links:       links,
		policy:      policy,
		metrics:     metrics,
		logger:      logger,
		newDeviceID: uuid.NewString,
	}
}

// AcquireToken 执行完整的令牌获取流程。
//
// 每次调用都会新建收件箱和设备 ID，结果不缓存。
// 任何失败或超时都返回包装了 domain.ErrTokenAcquisition 的错误。
func (s *TokenService) AcquireToken(ctx context.Context) (*domain.TokenData, error) {
	token, err := s.acquire(ctx)
	if err != nil {
		s.metrics.RecordTokenFailed()
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenAcquisition, err)
	}
	s.metrics.RecordTokenAcquired()
	return token, nil
}

func (s *TokenService) acquire(ctx context.Context) (*domain.TokenData, error) {
	inbox, err := s.inbox.CreateInbox(ctx)
	if err != nil {
		s.logger.Error("create inbox failed", zap.Error(err))
		return nil, fmt.Errorf("create inbox: %w", err)
	}

	deviceID := s.newDeviceID()
	tokenID, err := s.links.Send(ctx, domain.MagicLinkRequest{Email: inbox.Address, DeviceID: deviceID})
	if err != nil {
		s.logger.Error("send magic link failed", zap.String("email", inbox.Address), zap.Error(err))
		return nil, fmt.Errorf("send magic link: %w", err)
	}

	log := s.logger.With(zap.String("email", inbox.Address), zap.String("device_id", deviceID))
	log.Info("waiting for magic link email",
		zap.Int("max_attempts", s.policy.MaxAttempts),
		zap.Duration("interval", s.policy.Interval),
	)

	policy := s.policy
	policy.OnError = func(attempt int, err error) {
		log.Warn("inbox poll attempt failed", zap.Int("attempt", attempt), zap.Error(err))
	}

	token, err := poll.Until(ctx, policy, func(ctx context.Context, attempt int) (*domain.TokenData, bool, error) {
		s.metrics.RecordInboxPoll()
		return s.tryAttempt(ctx, inbox, tokenID)
	})
	if err != nil {
		log.Warn("token acquisition gave up", zap.Error(err))
		return nil, err
	}

	log.Info("access token acquired", zap.String("workspace", token.Workspace))
	return token, nil
}

// tryAttempt 单次尝试：读取第一封邮件、批准链接、查询令牌
func (s *TokenService) tryAttempt(ctx context.Context, inbox *domain.Inbox, tokenID string) (*domain.TokenData, bool, error) {
	emails, err := s.inbox.ListEmails(ctx, inbox.Token)
	if err != nil {
		return nil, false, fmt.Errorf("list emails: %w", err)
	}
	if len(emails) == 0 {
		return nil, false, nil
	}

	link, ok := magiclink.ExtractApprovalLink(mail.PreferredBody(emails[0]))
	if !ok {
		return nil, false, nil
	}

	s.links.Approve(ctx, link)

	accessToken, err := s.links.PollToken(ctx, tokenID)
	if err != nil {
		return nil, false, fmt.Errorf("poll token: %w", err)
	}
	if accessToken == "" {
		return nil, false, nil
	}

	claims, err := jwtpkg.DecodeUnverified(accessToken)
	if err != nil {
		return nil, false, poll.Permanent(fmt.Errorf("decode access token: %w", err))
	}

	return &domain.TokenData{
		Token:     accessToken,
		DeviceID:  claims.DeviceID,
		Workspace: claims.Workspace(),
	}, true, nil
}
