// Package server exposes the appraisal, authenticity, fulfillment,
// deal, and listing operations over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"refurrm/internal/ambassador"
	"refurrm/internal/appraisal"
	"refurrm/internal/authenticity"
	"refurrm/internal/config"
	"refurrm/internal/deal"
	"refurrm/internal/listing"
	"refurrm/internal/store"
)

// Server wires the domain services behind a chi router.
type Server struct {
	engine    *appraisal.Engine
	scout     *authenticity.Scout
	directory *ambassador.Directory
	selector  *ambassador.Selector
	evaluator *deal.Evaluator
	generator *listing.Generator
	store     *store.Store
	logger    *zap.Logger

	httpServer *http.Server
}

// Options collects the dependencies for a server.
type Options struct {
	Engine    *appraisal.Engine
	Scout     *authenticity.Scout
	Directory *ambassador.Directory
	Selector  *ambassador.Selector
	Evaluator *deal.Evaluator
	Generator *listing.Generator
	Store     *store.Store
	Logger    *zap.Logger
	Config    *config.Config
}

// New assembles a server. Logger defaults to a no-op logger.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		engine:    opts.Engine,
		scout:     opts.Scout,
		directory: opts.Directory,
		selector:  opts.Selector,
		evaluator: opts.Evaluator,
		generator: opts.Generator,
		store:     opts.Store,
		logger:    logger,
	}

	addr := ":8090"
	readTimeout := 30 * time.Second
	writeTimeout := 150 * time.Second
	if opts.Config != nil {
		addr = opts.Config.Server.Addr
		readTimeout = opts.Config.GetReadTimeout()
		writeTimeout = opts.Config.GetWriteTimeout()
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return s
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/scan", s.handleScan)
		r.Post("/verify", s.handleVerify)
		r.Post("/authenticity/scout", s.handleScout)
		r.Post("/deals/upc", s.handleUPC)

		r.Get("/ambassadors", s.handleListAmbassadors)
		r.Post("/ambassadors/select", s.handleSelectAmbassadors)

		r.Post("/services/requests", s.handleRequestService)
		r.Get("/services/requests/{requestID}", s.handleGetServiceRequest)

		r.Post("/consignments", s.handleConsignment)

		r.Post("/listings", s.handleCreateListing)
		r.Get("/listings", s.handleListListings)
		r.Get("/listings/{listingID}", s.handleGetListing)
		r.Post("/listings/generate", s.handleGenerateListing)
		r.Post("/listings/price-suggestion", s.handlePriceSuggestion)

		r.Get("/comparables", s.handleComparables)
	})

	return r
}

// ListenAndServe runs the HTTP server until the context is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(shutdownCtx)
}
