package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"shopping-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BearerAuth 憑證前置檢查中間件
// 缺少憑證屬於前置條件失敗，在任何處理開始前拒絕，不進行重試
func BearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			common.LogWarn("缺少授權憑證",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing bearer credential",
				"code":  common.ErrMissingCredential.Code,
			})
			return
		}

		// 空憑證視同缺少憑證，token 同為空字串時比對也不得通過
		provided := strings.TrimPrefix(header, "Bearer ")
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid bearer credential",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		c.Next()
	}
}
