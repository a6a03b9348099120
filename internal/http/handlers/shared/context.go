package shared

import (
	"github.com/orders-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入 gin 上下文的键
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserType  = "user_type"
)

// CurrentUserID 读取当前登录用户 ID，缺失或非法时写出错误响应并返回 false
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		if v == 0 {
			RespondError(c, response.CodeUnauthorized, "error.user_id_invalid", nil)
			return 0, false
		}
		return v, true
	case int:
		if v <= 0 {
			RespondError(c, response.CodeUnauthorized, "error.user_id_invalid", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "error.user_id_type_invalid", nil)
		return 0, false
	}
}

// CurrentUserType 当前用户类型（shop / buyer），未登录时为空
func CurrentUserType(c *gin.Context) string {
	return c.GetString(ContextKeyUserType)
}
