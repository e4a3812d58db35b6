package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/provider/studio"
)

// MockInbox 模拟一次性邮箱服务
type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) CreateInbox(ctx context.Context) (*domain.Inbox, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inbox), args.Error(1)
}

func (m *MockInbox) ListEmails(ctx context.Context, token string) ([]domain.Email, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Email), args.Error(1)
}

// MockMagicLink 模拟魔法链接服务
type MockMagicLink struct {
	mock.Mock
}

func (m *MockMagicLink) Send(ctx context.Context, req domain.MagicLinkRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockMagicLink) PollToken(ctx context.Context, tokenID string) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *MockMagicLink) Approve(ctx context.Context, link string) {
	m.Called(ctx, link)
}

// MockStudio 模拟图像生成服务
type MockStudio struct {
	mock.Mock
}

func (m *MockStudio) CreateJob(ctx context.Context, headers map[string]string, req domain.GenerationRequest) (string, error) {
	args := m.Called(ctx, headers, req)
	return args.String(0), args.Error(1)
}

func (m *MockStudio) GetOrderStatus(ctx context.Context, headers map[string]string, orderID string) (*studio.OrderStatus, error) {
	args := m.Called(ctx, headers, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.OrderStatus), args.Error(1)
}

// MockTokens 模拟令牌服务
type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) AcquireToken(ctx context.Context) (*domain.TokenData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenData), args.Error(1)
}

// accessToken 生成带 deviceId/teams 声明的测试令牌
func accessToken(t *testing.T, deviceID string, teams ...string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"deviceId": deviceID,
		"teams":    teams,
	}).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return token
}
