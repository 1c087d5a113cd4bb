package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/saralbooks/saralbooks/internal/actorcontext"
	"go.uber.org/zap"
)

// Authentication happens upstream (gateway/session layer); the resolved
// identity arrives on trusted headers.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// ActorRequired resolves the acting user from trusted headers and stores
// it in the request context for the services' role guards.
func ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		rawRole := actorcontext.Role(strings.TrimSpace(c.GetHeader(HeaderUserRole)))

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 || !validRole(rawRole) {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actor := actorcontext.Actor{
			UserID: snowflake.ParseInt64(userID),
			Role:   rawRole,
		}
		c.Request = c.Request.WithContext(actorcontext.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func validRole(role actorcontext.Role) bool {
	switch role {
	case actorcontext.RoleOwner, actorcontext.RoleStaff, actorcontext.RoleAccountant:
		return true
	}
	return false
}

// RequestLogger emits one structured line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.Last().Error()))
		}
		if c.Writer.Status() >= 500 {
			log.Error("request failed", fields...)
			return
		}
		log.Info("request", fields...)
	}
}
