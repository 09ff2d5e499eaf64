// Package controller provides the HTTP handlers of the OnkoNavigátor API:
// public article queries, the admin authoring endpoints and session handling.
package controller

import (
	"net/http"

	"github.com/onkonavigator/onkonav/logger"
	"github.com/onkonavigator/onkonav/web/entity"
	"github.com/onkonavigator/onkonav/web/service"

	"github.com/gin-gonic/gin"
)

const adminUserKey = "ADMIN_USER"

// BaseController provides the admin-session gate shared by all controllers.
type BaseController struct {
	authService *service.AuthService
}

// checkAdmin is a middleware that rejects the request with 401 before any
// validation or persistence happens unless a valid admin session exists.
func (a *BaseController) checkAdmin(c *gin.Context) {
	admin := a.authService.CurrentAdmin(c)
	if admin == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, entity.APIError{
			Message: I18nWeb(c, "admin.unauthorized"),
		})
		return
	}
	c.Set(adminUserKey, admin)
	c.Next()
}

// I18nWeb localizes a message key for the current request. Falls back to the
// key itself when the localizer middleware is not installed.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	anyfunc, funcExists := c.Get("I18n")
	if !funcExists {
		logger.Warning("I18n function not exists in gin context!")
		return name
	}
	i18nFunc, ok := anyfunc.(func(key string, params ...string) string)
	if !ok {
		return name
	}
	return i18nFunc(name, params...)
}
