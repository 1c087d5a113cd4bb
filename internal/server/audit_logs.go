package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/saralbooks/saralbooks/internal/actorcontext"
	auditdomain "github.com/saralbooks/saralbooks/internal/audit/domain"
	"github.com/saralbooks/saralbooks/pkg/dates"
)

// ListAuditLogs exposes the global event trail to owners.
func (s *Server) ListAuditLogs(c *gin.Context) {
	actor, ok := actorcontext.ActorFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	if !actor.CanApprove() {
		AbortWithError(c, ErrForbidden)
		return
	}

	req := auditdomain.ListRequest{
		UserID: strings.TrimSpace(c.Query("user_id")),
		Action: strings.TrimSpace(c.Query("action")),
	}

	if raw := strings.TrimSpace(c.Query("start_at")); raw != "" {
		at, ok := dates.Normalize(raw)
		if !ok {
			AbortWithError(c, newValidationError("start_at", "invalid", "unparseable date"))
			return
		}
		req.StartAt = &at
	}
	if raw := strings.TrimSpace(c.Query("end_at")); raw != "" {
		at, ok := dates.Normalize(raw)
		if !ok {
			AbortWithError(c, newValidationError("end_at", "invalid", "unparseable date"))
			return
		}
		req.EndAt = &at
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			AbortWithError(c, newValidationError("limit", "invalid", "limit must be a non-negative integer"))
			return
		}
		req.Limit = limit
	}

	events, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}
