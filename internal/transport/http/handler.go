package httptransport

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"imagegate/backend/internal/domain"
)

// RootStatus 根路径返回的运行状态
const RootStatus = "imagegate server is running"

// Generator 图像生成流程
type Generator interface {
	Generate(ctx context.Context, prompt string) (*domain.GenerationResult, error)
}

// Handler 聚合所有 HTTP 处理逻辑。
type Handler struct {
	generator Generator
	logger    *zap.Logger
}

// NewHandler 创建处理器
func NewHandler(generator Generator, logger *zap.Logger) *Handler {
	return &Handler{generator: generator, logger: logger}
}

// Root godoc
// @Summary 运行状态
// @Tags Public
// @Produce json
// @Success 200 {object} StatusResponse
// @Router / [get]
func (h *Handler) Root(c *gin.Context) {
	Success(c, StatusResponse{Status: RootStatus})
}

// Generate godoc
// @Summary 生成图像
// @Description 获取一次性访问令牌并提交生成任务，阻塞直到完成或超时
// @Tags Public
// @Produce json
// @Param prompt query string true "提示词"
// @Success 200 {object} domain.GenerationResult
// @Failure 200 {object} ErrorResponse
// @Router /gen [get]
func (h *Handler) Generate(c *gin.Context) {
	prompt := c.Query("prompt")
	if prompt == "" {
		Fail(c, MsgMissingPrompt)
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), prompt)
	if err != nil {
		h.logger.Warn("generation failed", zap.Error(err))
		Fail(c, GetErrorMessage(err))
		return
	}

	Success(c, result)
}
