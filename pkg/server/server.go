package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/config"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/netops"
	"github.com/babasida246/NetOpsAI-sub007/pkg/session"
)

// Server holds the HTTP router and the components the endpoints decide
// against.
type Server struct {
	Config     *config.NetOpsConfig
	Governance governance.Store
	NetOps     *netops.Service
	Sessions   *session.Manager
	Recorder   *audit.Recorder
	Router     *mux.Router
	srv        *http.Server
}

// Deps are the components a Server is built from. Governance and Config
// are required; the rest are derived from them when nil.
type Deps struct {
	Config     *config.NetOpsConfig
	Governance governance.Store
	NetOps     *netops.Service
	Sessions   *session.Manager
	Recorder   *audit.Recorder
}

func NewServer(deps Deps, host string, port string) *Server {
	if deps.NetOps == nil {
		deps.NetOps = netops.NewService(deps.Governance,
			netops.WithRecorder(deps.Recorder),
			netops.WithMaintenanceWindowInProd(deps.Config.RequireMaintenanceWindowInProd),
			netops.WithDefaultEnvironment(deps.Config.Environment()),
		)
	}
	if deps.Sessions == nil {
		deps.Sessions = session.NewManager(
			session.WithRecorder(deps.Recorder),
			session.WithIdleTimeout(deps.Config.IdleTimeout()),
			session.WithDefaultRules(session.DefaultRules(deps.Config.SessionAllowList)),
		)
	}

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:     deps.Config,
		Governance: deps.Governance,
		NetOps:     deps.NetOps,
		Sessions:   deps.Sessions,
		Recorder:   deps.Recorder,
		Router:     router,
		srv:        srv,
	}
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start serves until Shutdown is called. A graceful shutdown is not an
// error.
func (s *Server) Start() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// StartWithListener serves on l until Shutdown is called.
func (s *Server) StartWithListener(l net.Listener) error {
	err := s.srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
