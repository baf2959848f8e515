package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/stores/pkg/httputil"
	"github.com/platinummonkey/stores/pkg/observability"
	"github.com/platinummonkey/stores/pkg/services"
)

// DefaultMaxBodyBytes caps request bodies when Options leaves it unset
const DefaultMaxBodyBytes = 1 << 20

// Server is the stores HTTP controller
type Server struct {
	svc    *services.Service
	router *mux.Router
}

// Options configures the middleware stack built by Handler
type Options struct {
	Logger       *observability.Logger
	Metrics      *observability.Metrics
	CORSOrigins  []string
	MaxBodyBytes int64
}

// NewServer creates a server with every route registered
func NewServer(svc *services.Service) *Server {
	s := &Server{
		svc:    svc,
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthcheck", s.healthcheck).Methods("GET")

	s.registerStoreRoutes(s.router)
	s.registerBaseProductRoutes(s.router)
	s.registerProductRoutes(s.router)
	s.registerRoleRoutes(s.router)
	s.registerReferenceRoutes(s.router)
	s.registerExtraRoutes(s.router)
}

// Router exposes the router for tests and additional registrations
func (s *Server) Router() *mux.Router {
	return s.router
}

// ServeHTTP implements http.Handler without the middleware stack
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the router wrapped in the service middleware stack:
// tracing, request ids, panic recovery, access logs, CORS, body limits,
// caller identity and currency. Call it once.
func (s *Server) Handler(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(opts.Metrics))
	}

	chain := httputil.Chain(
		httputil.RequestIDMiddleware(opts.Logger),
		httputil.RecoveryMiddleware,
		httputil.LoggingMiddleware,
		httputil.CORSMiddleware(opts.CORSOrigins),
		httputil.ContentTypeMiddleware,
		httputil.MaxBytesMiddleware(opts.MaxBodyBytes),
		AuthMiddleware,
		CurrencyMiddleware,
	)
	return otelhttp.NewHandler(chain(s.router), "stores")
}

func (s *Server) healthcheck(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, "Ok")
}

// writeResult writes v with status, or the mapped error when err is set
func writeResult(w http.ResponseWriter, r *http.Request, status int, v interface{}, err error) {
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, status, v)
}

func parseCountOrError(w http.ResponseWriter, r *http.Request) (int, bool) {
	count, err := httputil.ParseQueryInt(r, "count", httputil.DefaultPageSize)
	if err != nil || count <= 0 {
		httputil.WriteBadRequest(w, "query param count must be a positive integer")
		return 0, false
	}
	if count > httputil.MaxPageSize {
		count = httputil.MaxPageSize
	}
	return count, true
}
