package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/logging"
	"github.com/babasida246/NetOpsAI-sub007/pkg/netops"
	"github.com/babasida246/NetOpsAI-sub007/pkg/rule"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
	"github.com/babasida246/NetOpsAI-sub007/pkg/session"
)

var (
	errSessionNeedsApproval = apperr.Forbidden("Approval required for production commands")
	errDeviceMismatch       = apperr.Validation("Device does not match the session")
)

// RegisterSessionsEndpoints registers the interactive session endpoints
func RegisterSessionsEndpoints(s *server.Server) {
	router := protected(s, "/netops/sessions")
	h := &sessionHandlers{
		sessions:   s.Sessions,
		store:      s.Governance,
		recorder:   s.Recorder,
		defaultEnv: s.Config.Environment(),
	}

	router.HandleFunc("", h.list).Methods("GET")
	router.HandleFunc("", h.open).Methods("POST")
	router.HandleFunc("/{id}", h.close).Methods("DELETE")
	router.HandleFunc("/{id}/commands", h.command).Methods("POST")
	router.HandleFunc("/{id}/log", h.log).Methods("GET")
	router.HandleFunc("/{id}/export", h.export).Methods("GET")
}

type sessionHandlers struct {
	sessions   *session.Manager
	store      governance.Store
	recorder   *audit.Recorder
	defaultEnv governance.Environment
}

func (h *sessionHandlers) list(w http.ResponseWriter, r *http.Request) {
	if _, err := callerWith(r, changecontrol.PermRead); err != nil {
		respondWithAppError(w, err)
		return
	}
	if _, err := h.sessions.PurgeIdle(r.Context()); err != nil {
		logging.L().Warnw("idle purge before listing failed", "error", err)
	}
	sessions, err := h.sessions.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sessions)
}

type openSessionRequest struct {
	session.OpenInput
	TicketID string `json:"ticketId,omitempty"`
}

func (h *sessionHandlers) open(w http.ResponseWriter, r *http.Request) {
	id, err := callerWith(r, changecontrol.PermChangeRequest)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	var body openSessionRequest
	if err := decodeJSON(r, &body); err != nil {
		respondWithAppError(w, err)
		return
	}
	s, err := h.sessions.Open(r.Context(), body.OpenInput)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	h.recorder.Record(r.Context(), audit.SessionEvent{
		UserID:    id.UserID,
		IPAddress: id.IP(),
		SessionID: s.ID,
		DeviceID:  s.DeviceID,
		Operation: "open",
		Reason:    ticketOrUnassigned(body.TicketID),
	})
	respondWithJSON(w, http.StatusOK, s)
}

func (h *sessionHandlers) close(w http.ResponseWriter, r *http.Request) {
	id, err := callerWith(r, changecontrol.PermChangeRequest)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	sessionID := mux.Vars(r)["id"]
	if err := h.sessions.Close(r.Context(), sessionID, ""); err != nil {
		respondWithAppError(w, err)
		return
	}
	h.recorder.Record(r.Context(), audit.SessionEvent{
		UserID:    id.UserID,
		IPAddress: id.IP(),
		SessionID: sessionID,
		Operation: "close",
	})
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type commandRequest struct {
	Command  string `json:"command"`
	TicketID string `json:"ticketId,omitempty"`
	DeviceID string `json:"deviceId,omitempty"`
}

func ticketOrUnassigned(ticket string) string {
	if t := strings.TrimSpace(ticket); t != "" {
		return t
	}
	return netops.UnassignedTicket
}

// rulesFor returns the rules a session command in env is matched against.
// Without a stored policy the interactive defaults apply.
func (h *sessionHandlers) rulesFor(policy governance.Policy) rule.Set {
	if policy.ID == governance.DefaultPolicyID {
		return h.sessions.DefaultRules()
	}
	return policy.Rules()
}

func (h *sessionHandlers) environment(r *http.Request) (governance.Environment, error) {
	raw := r.URL.Query().Get("environment")
	if raw == "" {
		return h.defaultEnv, nil
	}
	env, err := governance.ParseEnvironment(raw)
	if err != nil {
		return "", err
	}
	if env == governance.EnvAll {
		return "", apperr.Validation("Commands run in a concrete environment")
	}
	return env, nil
}

func (h *sessionHandlers) command(w http.ResponseWriter, r *http.Request) {
	id, err := callerWith(r, changecontrol.PermChangeRequest)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	var body commandRequest
	if err := decodeJSON(r, &body); err != nil {
		respondWithAppError(w, err)
		return
	}
	if strings.TrimSpace(body.Command) == "" {
		respondWithAppError(w, apperr.Validation("Command is required"))
		return
	}
	env, err := h.environment(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	policy, err := governance.ResolvePolicy(r.Context(), h.store, env)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	// The approval is bound to the session's device, never to one named
	// by the caller.
	sessionID := mux.Vars(r)["id"]
	sess, err := h.sessions.Get(r.Context(), sessionID)
	found := err == nil
	if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		respondWithAppError(w, err)
		return
	}
	if found && body.DeviceID != "" && body.DeviceID != sess.DeviceID {
		respondWithAppError(w, errDeviceMismatch)
		return
	}
	ticket := ticketOrUnassigned(body.TicketID)
	event := audit.SessionEvent{
		UserID:    id.UserID,
		IPAddress: id.IP(),
		SessionID: sessionID,
		DeviceID:  sess.DeviceID,
		Operation: "command",
		Command:   body.Command,
	}

	// Unknown and closed sessions are answered by Send with a blocked result.
	if found && sess.Connected() && (env == governance.EnvProd || policy.RequireApproval) {
		approved, err := h.store.HasApproved(r.Context(), sess.DeviceID, ticket)
		if err != nil {
			respondWithAppError(w, fmt.Errorf("checking approval: %w", err))
			return
		}
		if !approved {
			event.Blocked = true
			event.Reason = errSessionNeedsApproval.Message
			h.recorder.Record(r.Context(), event)
			respondWithAppError(w, errSessionNeedsApproval)
			return
		}
	}

	res, err := h.sessions.Send(r.Context(), sessionID, body.Command, h.rulesFor(policy))
	if err != nil {
		event.Blocked = true
		event.Reason = err.Error()
		h.recorder.Record(r.Context(), event)
		respondWithAppError(w, err)
		return
	}
	event.Blocked = res.Blocked
	event.Dangerous = res.Warning != ""
	if res.Blocked && len(res.Output) > 0 {
		event.Reason = res.Output[0]
	}
	h.recorder.Record(r.Context(), event)
	respondWithJSON(w, http.StatusOK, res)
}

func (h *sessionHandlers) log(w http.ResponseWriter, r *http.Request) {
	if _, err := callerWith(r, changecontrol.PermRead); err != nil {
		respondWithAppError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		h.export(w, r)
		return
	}
	events, err := h.sessions.Transcript(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, events)
}

func (h *sessionHandlers) export(w http.ResponseWriter, r *http.Request) {
	if _, err := callerWith(r, changecontrol.PermRead); err != nil {
		respondWithAppError(w, err)
		return
	}
	text, err := h.sessions.ExportText(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}
