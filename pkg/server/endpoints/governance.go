package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
)

// RegisterGovernanceEndpoints registers the approval, maintenance window,
// JIT grant, break-glass and evidence endpoints
func RegisterGovernanceEndpoints(s *server.Server) {
	router := protected(s, "/netops")

	router.HandleFunc("/approvals", handleListApprovals(s.Governance)).Methods("GET")
	router.HandleFunc("/approvals", handleRequestApproval(s.Governance, s.Recorder)).Methods("POST")
	router.HandleFunc("/approvals/{id}/resolve", handleResolveApproval(s.Governance, s.Recorder)).Methods("POST")

	router.HandleFunc("/maintenance-windows", handleListWindows(s.Governance)).Methods("GET")
	router.HandleFunc("/maintenance-windows", handleCreateWindow(s.Governance, s.Recorder)).Methods("POST")

	router.HandleFunc("/jit-grants", handleListJitGrants(s.Governance)).Methods("GET")
	router.HandleFunc("/jit-grants", handleCreateJitGrant(s.Governance, s.Recorder)).Methods("POST")

	router.HandleFunc("/break-glass", handleListBreakGlass(s.Governance)).Methods("GET")
	router.HandleFunc("/break-glass", handleCreateBreakGlass(s.Governance, s.Recorder)).Methods("POST")

	router.HandleFunc("/evidence", handleListEvidence(s.Governance)).Methods("GET")
	router.HandleFunc("/evidence", handleCreateEvidence(s.Governance, s.Recorder)).Methods("POST")
	router.HandleFunc("/evidence/{id}/report", handleEvidenceReport(s.Governance)).Methods("GET")
}

// actor is the name recorded as the creator or approver of an artifact.
func actor(id *identity.Identity) string {
	if id.Email != "" {
		return id.Email
	}
	return id.UserID
}

func governanceEntry(id *identity.Identity, action, resourceID string, details map[string]any) audit.Entry {
	return audit.Entry{
		UserID:     id.UserID,
		Action:     action,
		Resource:   "governance",
		ResourceID: resourceID,
		Outcome:    audit.OutcomeAllowed,
		Details:    details,
		IPAddress:  id.IP(),
		UserAgent:  id.UserAgent,
	}
}

func handleListApprovals(store governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerWith(r, changecontrol.PermRead); err != nil {
			respondWithAppError(w, err)
			return
		}
		approvals, err := store.ListApprovals(r.Context(), r.URL.Query().Get("deviceId"))
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, approvals)
	}
}

func handleRequestApproval(store governance.Store, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerWith(r, changecontrol.PermChangeRequest)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var in governance.ApprovalInput
		if err := decodeJSON(r, &in); err != nil {
			respondWithAppError(w, err)
			return
		}
		in.RequestedBy = actor(id)

		approval, err := store.RequestApproval(r.Context(), in)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		recorder.Record(r.Context(), audit.ApprovalEvent{
			UserID:     id.UserID,
			IPAddress:  id.IP(),
			ApprovalID: approval.ID,
			DeviceID:   approval.DeviceID,
			TicketID:   approval.TicketID,
			Status:     string(approval.Status),
		})
		respondWithJSON(w, http.StatusCreated, approval)
	}
}

type resolveApprovalRequest struct {
	Status string `json:"status"`
}

func handleResolveApproval(store governance.Store, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerWith(r, changecontrol.PermChangeApprove)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var body resolveApprovalRequest
		if err := decodeJSON(r, &body); err != nil {
			respondWithAppError(w, err)
			return
		}
		status, err := governance.ParseResolution(body.Status)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		approval, err := store.ResolveApproval(r.Context(), mux.Vars(r)["id"], status, actor(id))
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		recorder.Record(r.Context(), audit.ApprovalEvent{
			UserID:     id.UserID,
			IPAddress:  id.IP(),
			ApprovalID: approval.ID,
			DeviceID:   approval.DeviceID,
			TicketID:   approval.TicketID,
			Status:     string(approval.Status),
			Resolved:   true,
		})
		respondWithJSON(w, http.StatusOK, approval)
	}
}

func handleListWindows(store governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerWith(r, changecontrol.PermRead); err != nil {
			respondWithAppError(w, err)
			return
		}
		windows, err := store.ListMaintenanceWindows(r.Context())
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, windows)
	}
}

func handleCreateWindow(store governance.Store, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerWith(r, changecontrol.PermChangeRequest)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var in governance.MaintenanceWindowInput
		if err := decodeJSON(r, &in); err != nil {
			respondWithAppError(w, err)
			return
		}
		if in.Environment == "" {
			in.Environment = governance.EnvAll
		}
		in.CreatedBy = actor(id)

		window, err := store.CreateMaintenanceWindow(r.Context(), in)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		recorder.Record(r.Context(), governanceEntry(id, "maintenance_create", window.ID, map[string]any{
			"title":       window.Title,
			"environment": string(window.Environment),
		}))
		respondWithJSON(w, http.StatusCreated, window)
	}
}

func handleListJitGrants(store governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := adminCaller(r); err != nil {
			respondWithAppError(w, err)
			return
		}
		grants, err := store.ListJitGrants(r.Context())
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, grants)
	}
}

func handleCreateJitGrant(store governance.Store, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := adminCaller(r)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var in governance.JitGrantInput
		if err := decodeJSON(r, &in); err != nil {
			respondWithAppError(w, err)
			return
		}
		if _, err := changecontrol.ParseRole(in.Role); err != nil {
			respondWithAppError(w, err)
			return
		}
		in.CreatedBy = actor(id)

		grant, err := store.CreateJitGrant(r.Context(), in)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		recorder.Record(r.Context(), governanceEntry(id, "jit_grant", grant.ID, map[string]any{
			"userId":    grant.UserID,
			"role":      grant.Role,
			"expiresAt": grant.ExpiresAt,
		}))
		respondWithJSON(w, http.StatusCreated, grant)
	}
}

func handleListBreakGlass(store governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerWith(r, changecontrol.PermRead); err != nil {
			respondWithAppError(w, err)
			return
		}
		events, err := store.ListBreakGlassEvents(r.Context())
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, events)
	}
}

type breakGlassRequest struct {
	Reason string `json:"reason"`
}

func handleCreateBreakGlass(store governance.Store, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerWith(r, changecontrol.PermChangeRequest)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var body breakGlassRequest
		if err := decodeJSON(r, &body); err != nil {
			respondWithAppError(w, err)
			return
		}

		event, err := store.CreateBreakGlassEvent(r.Context(), governance.BreakGlassInput{UserID: id.UserID, Reason: body.Reason})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		recorder.Record(r.Context(), audit.BreakGlassEvent{
			UserID:    id.UserID,
			IPAddress: id.IP(),
			EventID:   event.ID,
			Reason:    event.Reason,
		})
		respondWithJSON(w, http.StatusCreated, event)
	}
}

func handleListEvidence(store governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerWith(r, changecontrol.PermRead); err != nil {
			respondWithAppError(w, err)
			return
		}
		cases, err := store.ListEvidenceCases(r.Context())
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, cases)
	}
}

func handleCreateEvidence(store governance.Store, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerWith(r, changecontrol.PermBackup)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		var in governance.EvidenceCaseInput
		if err := decodeJSON(r, &in); err != nil {
			respondWithAppError(w, err)
			return
		}
		in.CreatedBy = actor(id)

		evidence, err := store.CreateEvidenceCase(r.Context(), in)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		recorder.Record(r.Context(), governanceEntry(id, "evidence_create", evidence.ID, map[string]any{
			"deviceId": evidence.DeviceID,
			"ticketId": evidence.TicketID,
		}))
		respondWithJSON(w, http.StatusCreated, evidence)
	}
}

func handleEvidenceReport(store governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerWith(r, changecontrol.PermRead); err != nil {
			respondWithAppError(w, err)
			return
		}
		evidence, err := store.GetEvidenceCase(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		html, err := governance.EvidenceReport(*evidence)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)
	}
}
