// Package identity provides the authenticated caller of a NetOps request.
//
// An Identity combines verified token claims (user id, role, extra
// permissions) with request-specific context (remote IP, user agent).
// Governance checks take the caller's permission subject from it.
//
// # Basic Usage
//
//	// Verify a bearer token
//	id, err := identity.ParseToken(signingKey, bearer)
//
//	// Add request context
//	id.WithRemoteIP(clientIP).WithUserAgent(r.UserAgent())
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
//	if !id.Can(changecontrol.PermChangeExecute) { ... }
package identity
