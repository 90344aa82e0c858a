package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/http/response"
	"github.com/a-korvus/business-management-system/internal/pkg/ctxutil"
)

const dateLayout = "2006-01-02"

var errMissingPeriod = errors.New("start and end query parameters are required")

func pathID(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return false
	}
	return true
}

// caller returns the identity attached by middleware or fails the request.
func caller(c *gin.Context) (uuid.UUID, bool) {
	id := ctxutil.UserID(c.Request.Context())
	if id == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "missing_identity", nil)
		return uuid.Nil, false
	}
	return id, true
}

// queryPeriod reads ?start=&end= as dates or RFC3339 timestamps.
func queryPeriod(c *gin.Context) (team.Period, bool) {
	rawStart := strings.TrimSpace(c.Query("start"))
	rawEnd := strings.TrimSpace(c.Query("end"))
	if rawStart == "" || rawEnd == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_period", errMissingPeriod)
		return team.Period{}, false
	}
	start, err := parseDate(rawStart)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_period", err)
		return team.Period{}, false
	}
	end, err := parseDate(rawEnd)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_period", err)
		return team.Period{}, false
	}
	p, err := team.NewPeriod(start, end)
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "validation", err)
		return team.Period{}, false
	}
	return p, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
