package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/monitoring"
	"imagegate/backend/internal/poll"
	"imagegate/backend/internal/provider/studio"
)

// GenerationService 图像生成服务
type GenerationService struct {
	tokens  TokenAcquirer
	studio  StudioProvider
	headers studio.HeaderSettings
	policy  poll.Policy
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewGenerationService 创建图像生成服务
//
// policy 控制订单状态轮询节奏（默认 1 秒一次，共 20 次）。
func NewGenerationService(tokens TokenAcquirer, studioProvider StudioProvider, headers studio.HeaderSettings, policy poll.Policy, metrics *monitoring.Metrics, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		tokens:  tokens,
		studio:  studioProvider,
		headers: headers,
		policy:  policy,
		metrics: metrics,
		logger:  logger,
	}
}

// Generate 获取一次性令牌、提交生成任务并轮询到完成
func (s *GenerationService) Generate(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	result, err := s.generate(ctx, prompt)
	s.metrics.RecordGeneration(outcome(err))
	return result, err
}

func (s *GenerationService) generate(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	if prompt == "" {
		return nil, domain.ErrMissingPrompt
	}

	token, err := s.tokens.AcquireToken(ctx)
	if err != nil {
		return nil, err
	}

	headers := studio.BuildHeaders(s.headers, *token)
	orderID, err := s.studio.CreateJob(ctx, headers, domain.NewGenerationRequest(prompt))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			s.logger.Warn("create job rejected token", zap.String("device_id", token.DeviceID))
			return nil, domain.ErrInvalidToken
		}
		s.logger.Error("create job failed", zap.Error(err))
		return nil, &domain.CreateFailedError{Err: err}
	}

	log := s.logger.With(zap.String("order_id", orderID), zap.String("device_id", token.DeviceID))
	log.Info("order started")

	policy := s.policy
	policy.OnError = func(attempt int, err error) {
		log.Warn("order status poll failed", zap.Int("attempt", attempt), zap.Error(err))
	}

	result, err := poll.Until(ctx, policy, func(ctx context.Context, attempt int) (*domain.GenerationResult, bool, error) {
		s.metrics.RecordOrderPoll()
		status, err := s.studio.GetOrderStatus(ctx, headers, orderID)
		if err != nil {
			return nil, false, err
		}
		if !status.Complete() {
			return nil, false, nil
		}
		return &domain.GenerationResult{
			Status: domain.GenerationStatusComplete,
			Prompt: prompt,
			URLs:   status.URLs,
			UsedBy: token.DeviceID,
		}, true, nil
	})
	if err != nil {
		if errors.Is(err, poll.ErrExhausted) {
			log.Warn("order did not complete in time", zap.Int("attempts", s.policy.MaxAttempts))
			return nil, domain.ErrGenerationTimeout
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Info("order polling stopped by request context", zap.Error(err))
			return nil, fmt.Errorf("%w: %w", domain.ErrGenerationTimeout, err)
		}
		return nil, fmt.Errorf("poll order status: %w", err)
	}

	log.Info("order complete", zap.Int("outputs", len(result.URLs)))
	return result, nil
}

// outcome 把错误归类为指标标签
func outcome(err error) string {
	var createErr *domain.CreateFailedError
	switch {
	case err == nil:
		return "complete"
	case errors.Is(err, domain.ErrMissingPrompt):
		return "missing_prompt"
	case errors.Is(err, domain.ErrTokenAcquisition):
		return "token_failed"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.As(err, &createErr):
		return "create_failed"
	case errors.Is(err, domain.ErrGenerationTimeout):
		return "timeout"
	default:
		return "error"
	}
}
