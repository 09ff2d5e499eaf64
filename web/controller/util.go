package controller

import (
	"net"
	"net/http"
	"strings"

	"github.com/onkonavigator/onkonav/web/entity"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or
// remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonError sends an error payload with the given status.
func jsonError(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, entity.APIError{Message: msg})
}

// jsonIssues sends a 400 with field-level validation detail.
func jsonIssues(c *gin.Context, msg string, issues []entity.FieldIssue) {
	c.JSON(http.StatusBadRequest, entity.APIError{Message: msg, Issues: issues})
}
