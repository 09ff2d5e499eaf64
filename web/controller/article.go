package controller

import (
	"net/http"

	"github.com/onkonavigator/onkonav/database"
	"github.com/onkonavigator/onkonav/logger"
	"github.com/onkonavigator/onkonav/sanitize"
	"github.com/onkonavigator/onkonav/web/entity"
	"github.com/onkonavigator/onkonav/web/service"

	"github.com/gin-gonic/gin"
)

// ArticleController handles the public article query endpoints and the
// admin-gated authoring endpoints.
type ArticleController struct {
	BaseController

	articleService service.ArticleService
}

// NewArticleController creates the controller and registers its routes.
func NewArticleController(g *gin.RouterGroup) *ArticleController {
	a := &ArticleController{}
	a.authService = service.NewAuthService()
	a.initRouter(g)
	return a
}

func (a *ArticleController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.search)
	g.GET("/:id", a.get)

	g.POST("", a.checkAdmin, a.create)
	g.PATCH("/:id", a.checkAdmin, a.update)
	g.DELETE("/:id", a.checkAdmin, a.del)
}

// search serves the public filtered listing. Malformed parameters produce a
// 400 with an empty result set; a store failure degrades to an empty 200 so
// public pages stay up during transient outages.
func (a *ArticleController) search(c *gin.Context) {
	filter, issues := service.ParseArticleFilter(c.Request.URL.Query())
	if issues != nil {
		c.JSON(http.StatusBadRequest, entity.ArticlePage{
			Items:   []entity.ArticleSummary{},
			Total:   0,
			Message: I18nWeb(c, "article.invalidFilter"),
			Issues:  issues,
		})
		return
	}

	page, err := a.articleService.Search(filter)
	if err != nil {
		logger.Error("article search err:", err)
		c.JSON(http.StatusOK, entity.ArticlePage{
			Items:   []entity.ArticleSummary{},
			Total:   0,
			Message: I18nWeb(c, "article.dbUnavailable"),
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// get serves a single article. Public callers only see published articles
// (missing and unpublished are both 404) and the stored rich text passes
// through the sanitizer before it reaches them. Public reads of published
// articles count as views.
func (a *ArticleController) get(c *gin.Context) {
	admin := a.authService.CurrentAdmin(c)

	article, err := a.articleService.GetByID(c.Param("id"), admin != nil)
	if err == service.ErrArticleNotFound {
		jsonError(c, http.StatusNotFound, I18nWeb(c, "article.notFound"))
		return
	} else if err != nil {
		logger.Error("article get err:", err)
		jsonError(c, http.StatusInternalServerError, I18nWeb(c, "article.loadFailed"))
		return
	}

	if admin == nil {
		article.Content = sanitize.HTML(article.Content)
	}
	c.JSON(http.StatusOK, article)
}

func (a *ArticleController) create(c *gin.Context) {
	payload := &service.ArticleCreate{}
	if err := c.ShouldBindJSON(payload); err != nil {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "article.invalidJson"))
		return
	}

	if issues := payload.Validate(); issues != nil {
		jsonIssues(c, I18nWeb(c, "article.invalidBody"), issues)
		return
	}

	article, err := a.articleService.Create(payload)
	if err != nil {
		logger.Error("article create err:", err)
		if database.IsDuplicate(err) {
			jsonError(c, http.StatusInternalServerError, I18nWeb(c, "article.duplicateSlug"))
		} else {
			jsonError(c, http.StatusInternalServerError, I18nWeb(c, "article.saveFailed"))
		}
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (a *ArticleController) update(c *gin.Context) {
	payload := &service.ArticleUpdate{}
	if err := c.ShouldBindJSON(payload); err != nil {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "article.invalidJson"))
		return
	}

	if issues := payload.Validate(); issues != nil {
		jsonIssues(c, I18nWeb(c, "article.invalidBody"), issues)
		return
	}

	article, err := a.articleService.Update(c.Param("id"), payload)
	if err == service.ErrArticleNotFound {
		jsonError(c, http.StatusNotFound, I18nWeb(c, "article.notFound"))
		return
	} else if err != nil {
		logger.Error("article update err:", err)
		if database.IsDuplicate(err) {
			jsonError(c, http.StatusInternalServerError, I18nWeb(c, "article.duplicateSlug"))
		} else {
			jsonError(c, http.StatusInternalServerError, I18nWeb(c, "article.saveFailed"))
		}
		return
	}

	c.JSON(http.StatusOK, article)
}

func (a *ArticleController) del(c *gin.Context) {
	if err := a.articleService.Delete(c.Param("id")); err != nil {
		logger.Error("article delete err:", err)
		jsonError(c, http.StatusInternalServerError, I18nWeb(c, "article.saveFailed"))
		return
	}
	c.JSON(http.StatusOK, entity.Msg{Message: I18nWeb(c, "article.deleted")})
}
