package httptransport

import (
	"errors"

	"imagegate/backend/internal/domain"
)

// 错误消息
const (
	MsgMissingPrompt     = "Missing prompt"
	MsgTokenFailed       = "Token generation failed"
	MsgInvalidToken      = "Invalid or expired token"
	MsgGenerationTimeout = "Image generation timed out"
	MsgInternalError     = "Internal server error"
)

// 业务错误 -> 对外消息
var errorMessages = []struct {
	err error
	msg string
}{
	{domain.ErrMissingPrompt, MsgMissingPrompt},
	{domain.ErrTokenAcquisition, MsgTokenFailed},
	{domain.ErrInvalidToken, MsgInvalidToken},
	{domain.ErrGenerationTimeout, MsgGenerationTimeout},
}

// GetErrorMessage 获取错误的对外消息
func GetErrorMessage(err error) string {
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}

	var createErr *domain.CreateFailedError
	if errors.As(err, &createErr) {
		return createErr.Error()
	}

	return MsgInternalError
}
