package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teknetau/gestion_backend/models"
)

// respondError maps model errors onto HTTP. Field-scoped validation errors
// surface as a per-field map so the client can annotate its form; everything
// else is a single message. "not found" messages become 404.
func respondError(c *gin.Context, err error) {
	var fieldErrs models.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}
	status := http.StatusBadRequest
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		status = http.StatusNotFound
	case strings.Contains(msg, "already") || strings.Contains(msg, "cannot be deleted"):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": msg})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// pathId parses the named int path parameter, responding 400 on failure.
func pathId(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
