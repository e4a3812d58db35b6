package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 根路径响应
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse 错误响应。
//
// 接口约定：错误同样使用 200 状态码，仅通过 error 字段区分。
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Fail 错误响应（200 + error 字段）
func Fail(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, ErrorResponse{Error: msg})
}
