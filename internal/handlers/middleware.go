package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printcalc/internal/apperrors"
	"printcalc/internal/models"
	"printcalc/internal/services"
)

const (
	TokenCookie = "printcalc_token"
	claimsKey   = "claims"
)

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if claims, found := c.Get(claimsKey); found {
			fields = append(fields, zap.Uint("employee_id", claims.(*services.Claims).EmployeeID))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"code":   apperrors.CodeInternal,
			"error":  "internal server error",
		})
	})
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth rejects requests without a live session token.
func RequireAuth(auth services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			fail(c, log, apperrors.Unauthenticated("authentication required"))
			return
		}
		claims, err := auth.ParseToken(c.Request.Context(), token)
		if err != nil {
			fail(c, log, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role models.Role, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentClaims(c).Role != role {
			fail(c, log, apperrors.Forbidden("insufficient permissions"))
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) *services.Claims {
	return c.MustGet(claimsKey).(*services.Claims)
}
