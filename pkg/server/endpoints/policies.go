package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
)

// RegisterPoliciesEndpoints registers the policy administration endpoints
func RegisterPoliciesEndpoints(s *server.Server) {
	router := protected(s, "/netops/policies")

	router.HandleFunc("", handleListPolicies(s.Governance)).Methods("GET")
	router.HandleFunc("", handleCreatePolicy(s.Governance, s.Recorder)).Methods("POST")
	router.HandleFunc("/resolve/{environment}", handleResolvePolicy(s.Governance)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdatePolicy(s.Governance, s.Recorder)).Methods("PATCH")
}

func handleListPolicies(store governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := adminCaller(r); err != nil {
			respondWithAppError(w, err)
			return
		}
		policies, err := store.ListPolicies(r.Context())
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, policies)
	}
}

func handleCreatePolicy(store governance.Store, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := adminCaller(r)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var in governance.PolicyInput
		if err := decodeJSON(r, &in); err != nil {
			respondWithAppError(w, err)
			return
		}
		if in.Environment == "" {
			in.Environment = governance.EnvAll
		}

		event := audit.PolicyEvent{
			UserID:      id.UserID,
			IPAddress:   id.IP(),
			Environment: string(in.Environment),
			Operation:   "create",
		}
		policy, err := store.CreatePolicy(r.Context(), in)
		if err != nil {
			event.ErrorMessage = err.Error()
			recorder.Record(r.Context(), event)
			respondWithAppError(w, err)
			return
		}
		event.PolicyID = policy.ID
		event.Success = true
		recorder.Record(r.Context(), event)
		respondWithJSON(w, http.StatusCreated, policy)
	}
}

func handleUpdatePolicy(store governance.Store, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := adminCaller(r)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var patch governance.PolicyPatch
		if err := decodeJSON(r, &patch); err != nil {
			respondWithAppError(w, err)
			return
		}

		event := audit.PolicyEvent{
			UserID:    id.UserID,
			IPAddress: id.IP(),
			PolicyID:  mux.Vars(r)["id"],
			Operation: "update",
		}
		policy, err := store.UpdatePolicy(r.Context(), event.PolicyID, patch)
		if err != nil {
			event.ErrorMessage = err.Error()
			recorder.Record(r.Context(), event)
			respondWithAppError(w, err)
			return
		}
		event.Environment = string(policy.Environment)
		event.Success = true
		recorder.Record(r.Context(), event)
		respondWithJSON(w, http.StatusOK, policy)
	}
}

func handleResolvePolicy(store governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerWith(r, changecontrol.PermRead); err != nil {
			respondWithAppError(w, err)
			return
		}
		env, err := governance.ParseEnvironment(mux.Vars(r)["environment"])
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		if env == governance.EnvAll {
			respondWithAppError(w, apperr.Validation("Resolve a concrete environment"))
			return
		}
		policy, err := governance.ResolvePolicy(r.Context(), store, env)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, policy)
	}
}
