// Package api is the thin reference transport named in SPEC_FULL.md
// §6: a JSON HTTP surface over internal/engine.Engine's four
// operations, nothing more. It is grounded on the teacher's
// internal/routes.Server (port, router, background cron process,
// gorilla/handlers CORS wrapping, graceful shutdown on SIGINT) but does
// not adopt internal/routes' generic filtered-resource-listing
// machinery (EndpointDesc/CreateResourceEndpoint): those abstractions
// exist to mutualize "list rows from a DB table with query-param
// filters", which doesn't fit four RPC-style actions against one
// in-memory engine.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"

	"ec4x/internal/config"
	"ec4x/internal/engine"
	"ec4x/internal/storage"
	"ec4x/pkg/dispatcher"
	"ec4x/pkg/logger"
)

// ErrUnexpectedServeError mirrors the teacher's sentinel for an
// unrecovered panic inside the serve goroutine.
var ErrUnexpectedServeError = fmt.Errorf("unexpected error occurred while serving http requests")

// ErrServerShutdownError mirrors the teacher's sentinel for a failed
// graceful shutdown.
var ErrServerShutdownError = fmt.Errorf("unexpected error occurred while shutting down server")

// Server exposes Engine over HTTP. `store` is optional: a nil Store
// disables the turn-history/view persistence calls a handler would
// otherwise make, leaving the engine's own in-memory state as the only
// record (suitable for local/demo use).
type Server struct {
	port   int
	router *dispatcher.Router
	eng    *engine.Engine
	store  storage.Store
	log    logger.Logger
	cfg    config.Config
}

// NewServer wires a ready-to-serve Server. `eng` and `log` must not be
// nil; `store` may be nil (see Server's doc comment). `cfg` is the
// table set every new game is seeded with; no request carries a config
// of its own.
func NewServer(port int, eng *engine.Engine, store storage.Store, log logger.Logger, cfg config.Config) *Server {
	if eng == nil {
		panic(fmt.Errorf("cannot create api server from a nil engine"))
	}

	return &Server{
		port:   port,
		router: dispatcher.NewRouter(log),
		eng:    eng,
		store:  store,
		log:    log,
		cfg:    cfg,
	}
}

func (s *Server) cfgForNewGame() config.Config {
	return s.cfg
}

// Serve starts listening and blocks until SIGINT triggers a graceful
// shutdown, exactly like the teacher's routes.Server.Serve.
func (s *Server) Serve() error {
	s.routes()

	aMethods := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})
	aOrigins := handlers.AllowedOrigins([]string{"*"})
	aHeaders := handlers.AllowedHeaders([]string{"Content-Type"})
	corsRouter := handlers.CORS(aHeaders, aOrigins, aMethods)(s.router)

	server := &http.Server{
		Addr:    ":" + strconv.FormatInt(int64(s.port), 10),
		Handler: corsRouter,
	}

	var serveErr error
	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer func() {
			if err := recover(); err != nil {
				s.log.Trace(logger.Fatal, "api", fmt.Sprintf("caught unexpected error while serving requests (err: %v)", err))
				serveErr = ErrUnexpectedServeError
			}
			wg.Done()
			s.log.Trace(logger.Notice, "api", "server has stopped")
		}()

		s.log.Trace(logger.Notice, "api", "server has started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		s.log.Trace(logger.Error, "api", fmt.Sprintf("caught unexpected error while shutting down server (err: %v)", err))
		return ErrServerShutdownError
	}

	wg.Wait()
	return serveErr
}
