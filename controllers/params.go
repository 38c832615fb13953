package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/utils"
)

// paramID reads a positive numeric path parameter. On failure it writes the
// error response and returns false.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondAppError(c, apperrors.Validation("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondAppError(c, apperrors.Validation("invalid request body: %v", err))
		return false
	}
	return true
}

// currentUserID is the authenticated user set by the auth middleware.
func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// queryTime parses an optional RFC3339 or YYYY-MM-DD query value.
func queryTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	utils.RespondAppError(c, apperrors.Validation("invalid %s %q, expected RFC3339 or YYYY-MM-DD", name, raw))
	return time.Time{}, false
}

func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.RespondAppError(c, apperrors.Validation("invalid %s %q", name, raw))
		return 0, false
	}
	return uint(v), true
}
