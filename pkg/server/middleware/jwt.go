package middleware

import (
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
	"github.com/babasida246/NetOpsAI-sub007/pkg/logging"
)

var tokenRegex = regexp.MustCompile(`^Bearer\s+(\S+)$`)

// JWTAuthenticator is middleware that validates HS256 bearer tokens
type JWTAuthenticator struct {
	Key []byte
	// TrustedProxy reports whether X-Forwarded-For from ip is believed.
	TrustedProxy func(ip string) bool
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(key []byte) *JWTAuthenticator {
	return &JWTAuthenticator{Key: key}
}

// ClientIP returns the caller's address: the first X-Forwarded-For hop
// when the direct peer is a trusted proxy, the peer address otherwise.
func (j *JWTAuthenticator) ClientIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if j.TrustedProxy != nil && j.TrustedProxy(host) {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip
			}
		}
	}
	return net.ParseIP(host)
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// stores the caller's identity in the request context
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		tokenMatches := tokenRegex.FindStringSubmatch(authHeader)
		if len(tokenMatches) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		if len(j.Key) == 0 {
			logging.L().Errorw("bearer token received but no signing key is configured")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Token verification unavailable"))
			return
		}

		id, err := identity.ParseToken(j.Key, tokenMatches[1])
		if err != nil {
			logging.L().Debugw("rejected bearer token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid token"))
			return
		}

		id.WithRemoteIP(j.ClientIP(r)).WithUserAgent(r.UserAgent())
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}
