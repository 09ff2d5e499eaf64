package controller

import (
	"net/http"
	"strconv"

	"github.com/onkonavigator/onkonav/config"
	"github.com/onkonavigator/onkonav/logger"
	"github.com/onkonavigator/onkonav/web/entity"
	"github.com/onkonavigator/onkonav/web/service"
	"github.com/onkonavigator/onkonav/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm is the login request body.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminController handles admin session endpoints and the bootstrap
// endpoints for inspecting and creating admin accounts. The bootstrap
// endpoints are meant for initial setup: they are rate limited and every
// use is logged, but they carry no session gate, matching their informal
// provisioning role.
type AdminController struct {
	BaseController

	adminService   service.AdminUserService
	articleService service.ArticleService
}

// NewAdminController creates the controller and registers its routes.
func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.authService = service.NewAuthService()
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g.POST("/login", a.login)
	g.POST("/logout", a.logout)

	g.GET("/check", a.check)
	g.POST("/create", a.create)

	g.GET("/articles", a.checkAdmin, a.listArticles)
}

// login authenticates the credentials and sets the session cookie.
func (a *AdminController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Email == "" || form.Password == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "admin.invalidCredentials"))
		return
	}

	admin := a.authService.Authenticate(form.Email, form.Password)
	if admin == nil {
		logger.Warningf("failed admin login for %q from %s", form.Email, getRemoteIp(c))
		jsonError(c, http.StatusUnauthorized, I18nWeb(c, "admin.wrongEmailOrPassword"))
		return
	}

	token, err := a.authService.IssueToken(admin)
	if err != nil {
		logger.Error("issue token err:", err)
		jsonError(c, http.StatusInternalServerError, I18nWeb(c, "admin.checkFailed"))
		return
	}

	session.SetAdminToken(c, token)
	logger.Infof("admin %s logged in from %s", admin.Email, getRemoteIp(c))
	c.JSON(http.StatusOK, entity.Msg{Message: I18nWeb(c, "admin.loginSuccess")})
}

// logout clears the session cookie.
func (a *AdminController) logout(c *gin.Context) {
	session.ClearAdminToken(c)
	c.JSON(http.StatusOK, entity.Msg{Message: I18nWeb(c, "admin.logoutSuccess")})
}

// check lists existing admin accounts (safe projection only). Intended for
// diagnosing initial-setup authentication problems.
func (a *AdminController) check(c *gin.Context) {
	admins, err := a.adminService.ListAdmins()
	if err != nil {
		logger.Error("admin check err:", err)
		jsonError(c, http.StatusInternalServerError, I18nWeb(c, "admin.checkFailed"))
		return
	}

	msg := I18nWeb(c, "admin.noneExist")
	if len(admins) > 0 {
		msg = I18nWeb(c, "admin.found", "Count=="+strconv.Itoa(len(admins)))
	}
	c.JSON(http.StatusOK, entity.AdminList{
		Count:   len(admins),
		Users:   admins,
		Message: msg,
	})
}

// create provisions an admin account, or rotates the password of an
// existing one. Credentials come from the body, falling back to the
// configured defaults.
func (a *AdminController) create(c *gin.Context) {
	var form LoginForm
	_ = c.ShouldBindJSON(&form)

	email := form.Email
	password := form.Password
	if email == "" {
		email = config.GetDefaultAdminEmail()
	}
	if password == "" {
		password = config.GetDefaultAdminPassword()
	}
	if email == "" || password == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "admin.emailPasswordRequired"))
		return
	}

	logger.Warningf("admin bootstrap endpoint used for %q from %s", email, getRemoteIp(c))

	admin, created, err := a.adminService.CreateOrRotate(email, password)
	if err != nil {
		logger.Error("admin create err:", err)
		jsonError(c, http.StatusInternalServerError, I18nWeb(c, "admin.createFailed"))
		return
	}

	msg := I18nWeb(c, "admin.passwordRotated")
	status := http.StatusOK
	if created {
		msg = I18nWeb(c, "admin.created")
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"message": msg,
		"user": entity.AdminInfo{
			Id:        admin.Id,
			Email:     admin.Email,
			CreatedAt: admin.CreatedAt,
		},
	})
}

// listArticles returns every article, drafts included, for the admin panel.
func (a *AdminController) listArticles(c *gin.Context) {
	articles, err := a.articleService.ListAll()
	if err != nil {
		logger.Error("admin article list err:", err)
		jsonError(c, http.StatusInternalServerError, I18nWeb(c, "article.loadFailed"))
		return
	}
	c.JSON(http.StatusOK, articles)
}
