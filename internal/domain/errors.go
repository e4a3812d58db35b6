package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPrompt 提示词为空
	ErrMissingPrompt = errors.New("missing prompt")
	// ErrTokenAcquisition 邮件/魔法链接流程失败或超时
	ErrTokenAcquisition = errors.New("token acquisition failed")
	// ErrInvalidToken 创建任务的响应中没有订单 ID（令牌被拒绝或已过期）
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrGenerationTimeout 任务在轮询次数内未完成
	ErrGenerationTimeout = errors.New("image generation timed out")
	// ErrTransport 下游请求的网络或 JSON 解码失败
	ErrTransport = errors.New("transport error")
)

// CreateFailedError 创建生成任务时的传输层失败
type CreateFailedError struct {
	Err error
}

func (e *CreateFailedError) Error() string {
	return fmt.Sprintf("create-art failed: %v", e.Err)
}

func (e *CreateFailedError) Unwrap() error {
	return e.Err
}
