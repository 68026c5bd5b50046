package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clipflow-service/pkg/errno"
)

// Response 统一响应报文
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed 失败响应；业务错误携带自身错误码，其余归为内部错误
func Failed(ctx *gin.Context, err error) {
	code := errno.ErrInternalServer.Code
	message := err.Error()

	var biz *errno.BizError
	if errors.As(err, &biz) {
		code = biz.Errno().Code
		message = biz.Error()
	}

	ctx.JSON(httpStatus(code), Response{
		Code:    code,
		Message: message,
	})
}

// httpStatus 业务错误码映射到HTTP状态码
func httpStatus(code int) int {
	switch {
	case code == errno.ErrNotFound.Code || code == errno.ErrVideoNotFound.Code || code == errno.ErrOriginalNotFound.Code:
		return http.StatusNotFound
	case code == errno.ErrVideoIDRequired.Code:
		// 请求参数问题，不是业务状态冲突
		return http.StatusBadRequest
	case code >= 400 && code < 500:
		return http.StatusBadRequest
	case code >= 20000:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
