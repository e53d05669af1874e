// Package rest exposes the person service over HTTP with gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/personapi/internal/logging"
	"github.com/dmitrijs2005/personapi/internal/server/auth"
	"github.com/dmitrijs2005/personapi/internal/server/config"
	"github.com/dmitrijs2005/personapi/internal/server/emailcheck"
	"github.com/dmitrijs2005/personapi/internal/server/models"
	"github.com/dmitrijs2005/personapi/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// PersonService is the business logic the handlers drive.
type PersonService interface {
	List(ctx context.Context, firstName string) ([]*models.Person, error)
	Get(ctx context.Context, id int64) (*models.Person, error)
	Update(ctx context.Context, id int64, u models.PersonUpdate) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Register(ctx context.Context, in services.RegisterInput) (*models.Person, error)
	Login(ctx context.Context, email, password string) (*models.Person, string, error)
}

type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address      string
	cookieSecure bool
	engine       *gin.Engine
	logger       logging.Logger
	persons      PersonService
	tokens       TokenVerifier
	emails       emailcheck.Verifier
	db           Pinger
	registry     *prometheus.Registry
	metrics      *Metrics
}

// NewServer builds the router. A nil registry gets a private one.
func NewServer(cfg *config.Config, l logging.Logger, ps PersonService, tv TokenVerifier,
	ev emailcheck.Verifier, db Pinger, reg *prometheus.Registry) *Server {

	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		address:      cfg.EndpointAddrHTTP,
		cookieSecure: cfg.CookieSecure,
		engine:       gin.New(),
		logger:       l.With("module", "http_server"),
		persons:      ps,
		tokens:       tv,
		emails:       ev,
		db:           db,
		registry:     reg,
		metrics:      NewMetrics(reg),
	}

	s.engine.Use(
		s.recovery(),
		requestID(),
		s.accessLog(),
		s.metrics.middleware(),
		corsMiddleware(cfg.CORSAllowOrigins),
		limitBody(),
	)
	s.routes()

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for
// up to shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Access-Token"},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	c.AllowAllOrigins = len(origins) == 0
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			c.AllowAllOrigins = true
			break
		}
	}
	if !c.AllowAllOrigins {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}

	return cors.New(c)
}
