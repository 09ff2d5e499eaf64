// Package web provides the HTTP server of the OnkoNavigátor backend:
// routing, middleware and lifecycle.
package web

import (
	"context"
	"embed"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/onkonavigator/onkonav/config"
	"github.com/onkonavigator/onkonav/logger"
	"github.com/onkonavigator/onkonav/util/common"
	"github.com/onkonavigator/onkonav/web/controller"
	"github.com/onkonavigator/onkonav/web/locale"
	"github.com/onkonavigator/onkonav/web/middleware"
	"github.com/onkonavigator/onkonav/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

//go:embed translation/*
var i18nFS embed.FS

// Server is the OnkoNavigátor web server.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	article  *controller.ArticleController
	admin    *controller.AdminController
	taxonomy *controller.TaxonomyController

	authService *service.AuthService

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		authService: service.NewAuthService(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}
	engine.Use(locale.LocalizerMiddleware())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	s.article = controller.NewArticleController(engine.Group("/articles"))
	s.taxonomy = controller.NewTaxonomyController(engine.Group("/taxonomy"))

	adminGroup := engine.Group("/admin")
	adminGroup.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig()))
	s.admin = controller.NewAdminController(adminGroup)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": controller.I18nWeb(c, "common.notFound")})
	})

	return engine, nil
}

// Start binds the listener and starts serving. The default admin account is
// provisioned here, once, instead of opportunistically per request.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	s.authService.EnsureDefaultAdmin()

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	return nil
}

// Stop gracefully shuts down the web server.
func (s *Server) Stop() error {
	s.cancel()
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }
