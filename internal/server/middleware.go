package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/pestora/internal/tenantctx"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with latency and status.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.Last().Error()))
			log.Warn("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// AuthRequired resolves the bearer session token to an operator identity
// and stashes the tenant pair on the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ident, err := s.identity.Resolve(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := tenantctx.WithCompanyID(c.Request.Context(), ident.CompanyID)
		ctx = tenantctx.WithOperatorID(ctx, ident.OperatorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader("X-Session-Token"))
}
