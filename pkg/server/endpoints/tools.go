package endpoints

import (
	"net/http"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/configtool"
	"github.com/babasida246/NetOpsAI-sub007/pkg/mikrotik"
	"github.com/babasida246/NetOpsAI-sub007/pkg/netops"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
)

// RegisterToolsEndpoints registers the config and MikroTik tooling
func RegisterToolsEndpoints(s *server.Server) {
	router := protected(s, "/tools")

	router.HandleFunc("/config/generate", handleGenerate(s.NetOps)).Methods("POST")
	router.HandleFunc("/config/lint", handleLint(s.NetOps)).Methods("POST")
	router.HandleFunc("/config/push", handlePush(s.NetOps)).Methods("POST")

	router.HandleFunc("/mikrotik/compile", handleCompile(s.NetOps)).Methods("POST")
	router.HandleFunc("/mikrotik/validate", handleValidateScript()).Methods("POST")
	router.HandleFunc("/mikrotik/diff", handleDiff()).Methods("POST")
}

type configRequest struct {
	Vendor string            `json:"vendor"`
	Config configtool.Config `json:"config"`
}

func (req configRequest) vendor() (configtool.Vendor, error) {
	return configtool.ParseVendor(req.Vendor)
}

type lintResponse struct {
	Findings []configtool.Finding `json:"findings"`
}

func handleGenerate(svc *netops.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerWith(r, changecontrol.PermRead)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var body configRequest
		if err := decodeJSON(r, &body); err != nil {
			respondWithAppError(w, err)
			return
		}
		vendor, err := body.vendor()
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		generated, err := svc.Generate(r.Context(), id, body.Config, vendor)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, generated)
	}
}

func handleLint(svc *netops.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerWith(r, changecontrol.PermRead)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var body configRequest
		if err := decodeJSON(r, &body); err != nil {
			respondWithAppError(w, err)
			return
		}
		vendor, err := body.vendor()
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		findings, err := svc.Lint(r.Context(), id, body.Config, vendor)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, lintResponse{Findings: findings})
	}
}

func handlePush(svc *netops.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var req netops.PushRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithAppError(w, err)
			return
		}
		if req.Vendor != "" {
			if req.Vendor, err = configtool.ParseVendor(string(req.Vendor)); err != nil {
				respondWithAppError(w, err)
				return
			}
		}
		result, err := svc.Push(r.Context(), id, req)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, result)
	}
}

type compileRequest struct {
	DeviceID string          `json:"deviceId"`
	Intent   mikrotik.Intent `json:"intent"`
}

func handleCompile(svc *netops.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerWith(r, changecontrol.PermRead)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var body compileRequest
		if err := decodeJSON(r, &body); err != nil {
			respondWithAppError(w, err)
			return
		}
		out, err := svc.CompileMikroTik(r.Context(), id, body.DeviceID, body.Intent)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

type validateScriptRequest struct {
	Config          string `json:"config"`
	RouterOSVersion string `json:"routerOsVersion"`
}

func handleValidateScript() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerWith(r, changecontrol.PermRead); err != nil {
			respondWithAppError(w, err)
			return
		}
		var body validateScriptRequest
		if err := decodeJSON(r, &body); err != nil {
			respondWithAppError(w, err)
			return
		}
		if body.Config == "" {
			respondWithAppError(w, apperr.Validation("Config is required"))
			return
		}
		respondWithJSON(w, http.StatusOK, mikrotik.ValidateRouterOSConfig(body.Config, body.RouterOSVersion))
	}
}

type diffRequest struct {
	RunningConfig string `json:"runningConfig"`
	DesiredConfig string `json:"desiredConfig"`
}

func handleDiff() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerWith(r, changecontrol.PermRead); err != nil {
			respondWithAppError(w, err)
			return
		}
		var body diffRequest
		if err := decodeJSON(r, &body); err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, mikrotik.Diff(body.RunningConfig, body.DesiredConfig))
	}
}
