package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError writes err as {"message": ...}. Validation failures also
// carry "errors"; anything that is not an apperr becomes a logged 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	body := gin.H{"message": appErr.Message}
	if appErr.Details != nil {
		body["errors"] = appErr.Details
	}
	c.JSON(appErr.Status, body)
}

// bindJSON decodes the request body, answering 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return false
	}
	return true
}

// pathID returns the named path parameter, answering 400 when it is not a UUID
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if !validation.IsValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return "", false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}
