package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "lapor-fasilitas/internal/transport/http/response"
)

// Recovery logs the panic with its stack and answers with the generic
// server error body.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, err any) {
		resp.Fail(c, http.StatusInternalServerError, "Terjadi Kesalahan pada server")
		c.Abort()
	})
}
