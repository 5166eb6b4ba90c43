package httpapi

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed static/index.html
var staticFS embed.FS

var indexTemplate = template.Must(template.ParseFS(staticFS, "static/index.html"))

// Server runs the JSON API and the single-page form.
type Server struct {
	engine          *gin.Engine
	addr            string
	shutdownTimeout time.Duration
	log             zerolog.Logger
}

func NewServer(deps Deps, addr string, shutdownTimeout time.Duration, devMode bool, baseLogger *zerolog.Logger) *Server {
	if devMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log := baseLogger.With().Str("component", "http_server").Logger()
	engine := gin.New()
	engine.Use(requestLogger(log, deps.Observer), recovery(log))
	engine.SetHTMLTemplate(indexTemplate)

	registerRoutes(engine, &handlers{deps: deps})

	return &Server{
		engine:          engine,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		log:             log,
	}
}

func registerRoutes(r *gin.Engine, h *handlers) {
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{"PublishableKey": h.deps.PublishableKey})
	})
	r.GET("/healthz", h.healthz)
	if h.deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.deps.Metrics))
	}

	r.GET("/init", h.initSchema)

	r.GET("/user", h.getUser)
	r.POST("/user", h.createUser)
	r.PATCH("/user", h.patchUser)

	r.GET("/link-session", h.linkSession)
	r.POST("/exchange-token", h.exchangeToken)
	r.POST("/accounts", h.accounts)

	payment := r.Group("/payment")
	{
		payment.POST("/create", h.createPayment)
		payment.POST("/create-card-intent", h.createCardIntent)
		payment.GET("/history", h.paymentHistory)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until ctx is cancelled, then drains in-flight requests for up
// to the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.log.Error().Err(err).Msg("HTTP server failed")
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("HTTP server shutdown error")
		return err
	}
	s.log.Info().Msg("HTTP server stopped gracefully")
	return nil
}
