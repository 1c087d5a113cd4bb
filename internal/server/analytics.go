package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/saralbooks/saralbooks/internal/analytics/domain"
)

// Insights returns the cached dashboard report. Explicit start_date and
// end_date take precedence over preset_days; year picks the revenue chart.
func (s *Server) Insights(c *gin.Context) {
	req := analyticsdomain.Request{
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
	}

	if raw := strings.TrimSpace(c.Query("preset_days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			AbortWithError(c, newValidationError("preset_days", "invalid", "preset_days must be a non-negative integer"))
			return
		}
		req.PresetDays = &days
	}

	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			AbortWithError(c, newValidationError("year", "invalid", "year must be an integer"))
			return
		}
		req.Year = year
	}

	report, err := s.analyticsSvc.Report(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
