// Package server provides the HTTP server for the NetOps governance API.
//
// The server uses gorilla/mux for routing and writes an access log through
// gorilla/handlers. Governance decisions are made by the components the
// Server carries; the endpoints subpackage only binds them to HTTP.
//
// # Server Setup
//
//	srv := server.NewServer(server.Deps{
//	    Config:     cfg,
//	    Governance: store,
//	    Recorder:   recorder,
//	}, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//
// # Endpoints
//
// RegisterAll registers:
//
//   - / - Status
//   - /netops/policies - Policy administration and resolution
//   - /netops/approvals, /netops/maintenance-windows, /netops/jit-grants,
//     /netops/break-glass, /netops/evidence - Governance artifacts
//   - /tools/config/* - Config generate, lint and governed push
//   - /tools/mikrotik/* - Intent compile, script validate and diff
//   - /netops/sessions - Interactive command sessions
package server
