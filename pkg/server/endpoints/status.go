package endpoints

import (
	"net/http"
	"os"
	"time"

	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
)

// StatusResponse is returned by GET /
type StatusResponse struct {
	Status             string    `json:"status"`
	Version            string    `json:"version"`
	DefaultEnvironment string    `json:"defaultEnvironment"`
	AuditEnabled       bool      `json:"auditEnabled"`
	Time               time.Time `json:"time"`
}

// RegisterStatusEndpoints registers the unauthenticated status endpoint
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus(s)).Methods("GET")
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("NETOPS_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{
			Status:             "ok",
			Version:            version,
			DefaultEnvironment: string(s.Config.Environment()),
			AuditEnabled:       s.Config.AuditEnabled,
			Time:               time.Now().UTC(),
		})
	}
}
