package server

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

var errBadLimit = errors.New("limit must be a positive integer")

func sanitizeBase(base string) string {
	b := strings.TrimSpace(base)
	if b == "" {
		return "/"
	}
	if !strings.HasPrefix(b, "/") {
		b = "/" + b
	}
	if len(b) > 1 {
		b = strings.TrimRight(b, "/")
	}
	return b
}

func writeJSONError(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"error": err.Error()})
}
