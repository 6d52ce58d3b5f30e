package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"videogen-service/pkg/errno"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 请求成功
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed 请求失败, err是*errno.Errno时返回业务码, 否则按未知错误处理
func Failed(c *gin.Context, err error) {
	e, ok := err.(*errno.Errno)
	if !ok {
		e = errno.ErrUnknown
	}
	httpStatus := http.StatusOK
	if e.Code >= 400 && e.Code < 600 {
		httpStatus = e.Code
	}
	c.JSON(httpStatus, Response{
		Code:    e.Code,
		Message: e.Message,
	})
}

// FailedWithMessage 请求失败, 附带自定义消息
func FailedWithMessage(c *gin.Context, err error, message string) {
	e, ok := err.(*errno.Errno)
	if !ok {
		e = errno.ErrUnknown
	}
	httpStatus := http.StatusOK
	if e.Code >= 400 && e.Code < 600 {
		httpStatus = e.Code
	}
	c.JSON(httpStatus, Response{
		Code:    e.Code,
		Message: message,
	})
}
