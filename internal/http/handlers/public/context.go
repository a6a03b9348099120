package public

import (
	handlershared "github.com/orders-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.CurrentUserID(c)
}

func getUserType(c *gin.Context) string {
	return handlershared.CurrentUserType(c)
}
