package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"slicerweb/internal/profiles"
	"slicerweb/internal/schema"
	"slicerweb/internal/slice"
	"slicerweb/internal/slicerr"
)

// Defaults for Options fields left zero.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxUpload      = 256 << 20
	defaultMaxBody        = 4 << 20
)

// Options wires a Server.
type Options struct {
	Profiles *profiles.Loader
	Slicer   *slice.Client
	// Static serves the profile storage layout under /profiles/; nil
	// disables it.
	Static         http.FileSystem
	RequestTimeout time.Duration
	MaxUpload      int64
	Logger         *slog.Logger
}

// Server is the HTTP front of the slicer. The schema is installed after
// construction with SetSchema; until then schema routes answer 503.
type Server struct {
	profiles       *profiles.Loader
	slicer         *slice.Client
	static         http.FileSystem
	requestTimeout time.Duration
	maxUpload      int64
	maxBody        int64
	logger         *slog.Logger

	mu        sync.RWMutex
	schema    *schema.Schema
	schemaErr error
}

// New creates a Server.
func New(opts Options) *Server {
	s := &Server{
		profiles:       opts.Profiles,
		slicer:         opts.Slicer,
		static:         opts.Static,
		requestTimeout: opts.RequestTimeout,
		maxUpload:      opts.MaxUpload,
		maxBody:        defaultMaxBody,
		logger:         opts.Logger,
	}

	if s.requestTimeout <= 0 {
		s.requestTimeout = DefaultRequestTimeout
	}

	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUpload
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// SetSchema installs the built schema.
func (s *Server) SetSchema(sc *schema.Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schema = sc
	s.schemaErr = nil
}

// SetSchemaError records why the schema is unavailable.
func (s *Server) SetSchemaError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schemaErr = err
}

func (s *Server) currentSchema() (*schema.Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.schema != nil {
		return s.schema, nil
	}

	if s.schemaErr != nil {
		return nil, slicerr.Wrap(slicerr.KindNotReady, "server.schema", "", s.schemaErr)
	}

	return nil, slicerr.New(slicerr.KindNotReady, "server.schema", "", "schema is loading")
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	timeout := middleware.Timeout(s.requestTimeout)

	r.With(timeout).Get("/healthz", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(timeout)

			r.Get("/schema", s.getSchema)
			r.Post("/settings/validate", s.validateSettings)

			r.Get("/profiles", s.getIndex)
			r.Get("/profiles/tiers/{tier}", s.getTier)
			r.Post("/profiles/tiers/{tier}/prefetch", s.prefetchTier)
			r.Get("/profiles/vendors/{vendorID}", s.getVendor)
			r.Get("/profiles/cache", s.getCacheStats)
			r.Delete("/profiles/cache", s.clearCache)

			r.Get("/printers", s.searchPrinters)
			r.Get("/printers/vendor", s.findPrinterVendor)
			r.Get("/slice/last", s.lastSlice)
		})

		// Slices are bounded by the engine timeout, not the request timeout.
		r.Post("/slice", s.postSlice)
	})

	if s.static != nil {
		r.With(timeout).Handle(profiles.URLPrefix+"/*",
			http.StripPrefix(profiles.URLPrefix, http.FileServer(s.static)))
	}

	return r
}

type health struct {
	Status        string `json:"status"`
	SchemaReady   bool   `json:"schemaReady"`
	ProfilesReady bool   `json:"profilesReady"`
	SlicerReady   bool   `json:"slicerReady"`
	SlicerBusy    bool   `json:"slicerBusy"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	_, schemaErr := s.currentSchema()

	s.writeJSON(w, http.StatusOK, health{
		Status:        "ok",
		SchemaReady:   schemaErr == nil,
		ProfilesReady: s.profiles != nil && s.profiles.Ready(),
		SlicerReady:   s.slicer != nil && s.slicer.Ready(),
		SlicerBusy:    s.slicer != nil && s.slicer.Busy(),
	})
}
