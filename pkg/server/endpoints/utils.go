package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
	"github.com/babasida246/NetOpsAI-sub007/pkg/logging"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server/middleware"
)

// maxBodyBytes bounds request bodies; intents and pushes are small.
const maxBodyBytes = 1 << 20

var (
	errAdminRequired  = apperr.Forbidden("Admin access required")
	errNoIdentity     = apperr.Forbidden("Unable to determine identity")
	errMalformedInput = apperr.Validation("Malformed JSON body")
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithAppError writes err with the status its kind maps to.
// Unclassified errors are logged and reported without detail.
func respondWithAppError(w http.ResponseWriter, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		logging.L().Errorw("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}
	respondWithError(w, apperr.HTTPStatus(err), map[string]string{"kind": string(e.Kind), "message": e.Message})
}

// decodeJSON reads a JSON body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errMalformedInput
	}
	return nil
}

// caller returns the identity the JWT middleware stored.
func caller(r *http.Request) (*identity.Identity, error) {
	id, ok := identity.Get(r.Context())
	if !ok || id == nil {
		return nil, errNoIdentity
	}
	return id, nil
}

// callerWith returns the caller if it holds p.
func callerWith(r *http.Request, p changecontrol.Permission) (*identity.Identity, error) {
	id, err := caller(r)
	if err != nil {
		return nil, err
	}
	if err := changecontrol.RequirePermission(id.Subject(), p); err != nil {
		return nil, err
	}
	return id, nil
}

// adminCaller returns the caller if its role is admin or above.
func adminCaller(r *http.Request) (*identity.Identity, error) {
	id, err := caller(r)
	if err != nil {
		return nil, err
	}
	if id.Role < changecontrol.RoleAdmin {
		return nil, errAdminRequired
	}
	return id, nil
}

// protected returns a subrouter for prefix behind bearer authentication.
func protected(s *server.Server, prefix string) *mux.Router {
	auth := middleware.NewJWTAuthenticator([]byte(s.Config.JWTSigningKey))
	auth.TrustedProxy = s.Config.IsTrustedProxy

	router := s.Router.PathPrefix(prefix).Subrouter()
	router.Use(auth.Middleware)
	return router
}
