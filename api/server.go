package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/api/controllers"
	"github.com/chroma-ai/chroma-web/api/middlewares"
	"github.com/chroma-ai/chroma-web/api/models"
	"github.com/chroma-ai/chroma-web/api/notifyhub"
	"github.com/chroma-ai/chroma-web/api/views"
	"github.com/chroma-ai/chroma-web/auth"
	"github.com/chroma-ai/chroma-web/notify"
	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/share"
	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/transfer"
	"github.com/chroma-ai/chroma-web/types"
)

// Pages preloaded at startup so template errors stop the server early.
var Pages = []string{"home.html", "about.html", "login.html", "signup.html", "colorize.html", "error.html"}

// Server represents the HTTP server of the web frontend
type Server struct {
	cfg      types.AppConfig
	engine   *gin.Engine
	server   *http.Server
	registry *share.Registry
	mu       sync.RWMutex
}

// Configure wires the shared models from cfg and returns the workspace registry.
func Configure(cfg types.AppConfig) *share.Registry {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	tool.InitHTTPClients(timeout)

	store := preview.NewStore(time.Duration(cfg.PreviewTTLMinutes) * time.Minute)
	registry := share.NewRegistry(store, cfg.MaxUploadMB, time.Duration(cfg.WorkspaceTTLMinutes)*time.Minute)
	models.SetWorkspaces(registry, store)
	models.SetColorizer(transfer.NewColorizeClient(cfg.BackendURL, tool.GetHttpClient()), cfg.BackendURL)
	models.SetAuthService(auth.NewService(transfer.NewAuthClient(cfg.AuthURL, tool.GetHttpClient())))
	models.SetSecureCookies(cfg.SecureCookies)

	if cfg.NotifyWS {
		hub := notifyhub.New()
		models.SetNotifyHub(hub)
		notify.SetHub(hub)
		notify.SetUseNotify(true)
	} else {
		models.SetNotifyHub(nil)
		notify.SetHub(nil)
		notify.SetUseNotify(false)
	}
	return registry
}

// NewServer configures the models and returns a server for cfg.
func NewServer(cfg types.AppConfig) *Server {
	return &Server{cfg: cfg, registry: Configure(cfg)}
}

// Registry returns the workspace registry the server allocates from.
func (s *Server) Registry() *share.Registry {
	return s.registry
}

// SetupRoutes builds the gin engine.
func SetupRoutes(cfg types.AppConfig) (*gin.Engine, error) {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}
	if err := renderer.Preload(Pages...); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.HTMLRender = renderer
	engine.MaxMultipartMemory = int64(cfg.MaxUploadMB+1) << 20
	engine.Use(middlewares.ClientIdentity, middlewares.LoadAuth(cfg.SecureCookies))

	limit := middlewares.RateLimit(models.NewLimiters(cfg.RateLimitPerMinute), controllers.HandleTooManyRequests)

	engine.GET("/", controllers.HandleHome)
	engine.GET("/about", controllers.HandleAbout)
	engine.GET("/login", controllers.HandleLoginPage)
	engine.POST("/login", limit, controllers.HandleLogin)
	engine.GET("/signup", controllers.HandleSignupPage)
	engine.POST("/signup", limit, controllers.HandleSignup)
	engine.GET("/logout", controllers.HandleLogout)

	colorize := engine.Group("/colorize", middlewares.RequireAuth)
	{
		colorize.GET("", controllers.HandleColorizePage)
		colorize.GET("/state", controllers.HandleState)
		colorize.GET("/qr", controllers.HandleResultQRCode)
		colorize.POST("/file", controllers.HandleSelectFile)
		colorize.POST("/file/remove", controllers.HandleRemoveFile)
		colorize.POST("/params", controllers.HandleSetParams)
		colorize.POST("/params/reset", controllers.HandleResetParams)
		colorize.POST("/submit", limit, controllers.HandleSubmit)
		colorize.POST("/reset", controllers.HandleResetPage)
	}
	engine.GET("/preview/:id", middlewares.RequireAuth, controllers.HandlePreview)

	if hub := models.GetNotifyHub(); cfg.NotifyWS && hub != nil {
		engine.GET("/events", controllers.HandleNotifyWS(hub))
	}
	engine.GET("/healthcheck", controllers.HandleHealthcheck)
	engine.GET("/debug/stats", middlewares.OnlyAllowLocal, controllers.HandleStats)
	engine.NoRoute(controllers.HandleNotFound)

	return engine, nil
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	engine, err := SetupRoutes(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to set up routes: %w", err)
	}

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting web server on http://0.0.0.0:%d", s.cfg.Port)
	for _, u := range tool.LANURLs(s.cfg.Port) {
		tool.DefaultLogger.Infof("Reachable on %s", u)
	}
	tool.DefaultLogger.Infof("Colorization backend: %s, auth backend: %s", s.cfg.BackendURL, s.cfg.AuthURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and tears down every workspace.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	defer s.registry.Close()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
