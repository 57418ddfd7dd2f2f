// Package rest exposes the recipe catalog and the user accounts over HTTP.
//
// Routes are registered on a net/http ServeMux. Every request goes through
// CORS, request id, panic recovery, rate limiting and access logging; each
// route is additionally instrumented with Prometheus metrics labelled by its
// mux pattern. Recipe routes require a bearer access token.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/assets"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// RecipeService is the part of services.RecipeService the handlers use.
type RecipeService interface {
	Create(ctx context.Context, input *models.Recipe, imageKey string) (*models.Recipe, error)
	Get(ctx context.Context, id string) (*models.Recipe, error)
	List(ctx context.Context, page, limit int) (*services.ListResult, error)
	Update(ctx context.Context, id string, upd *models.RecipeUpdate, newImageKey string) (*services.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, c services.SearchCriteria) ([]*models.Recipe, error)
}

// UserService is the part of services.UserService the handlers use.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Seed(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer dispatches to.
type Deps struct {
	Recipes RecipeService
	Users   UserService
	Assets  assets.Store
	Janitor services.AssetRetirer
	Store   Pinger
}

type Server struct {
	config      *config.Config
	deps        Deps
	logger      logging.Logger
	validate    *validator.Validate
	rateLimiter *rate.Limiter
	httpServer  *http.Server
	handler     http.Handler

	mu    sync.RWMutex
	ready bool
}

func NewServer(cfg *config.Config, deps Deps, logger logging.Logger) *Server {
	s := &Server{
		config:      cfg,
		deps:        deps,
		logger:      logger.With("module", "rest"),
		validate:    newValidator(),
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
	})

	s.handler = c.Handler(s.withMiddleware(s.setupRoutes()))
	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *Server) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.SetReady(true)
	s.logger.Info(ctx, "starting HTTP server", "address", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.WithoutCancel(ctx))
	case err := <-errChan:
		return err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Info(ctx, "shutting down HTTP server")
	return s.httpServer.Shutdown(shutdownCtx)
}
