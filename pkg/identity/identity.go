package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated caller of a request.
type Identity struct {
	// Token claims
	UserID      string
	Email       string
	Role        changecontrol.Role
	Permissions []changecontrol.Permission
	IssuedAt    time.Time
	ExpiresAt   time.Time

	// Request context
	RemoteIP  net.IP
	UserAgent string
}

// Claims are the JWT claims the API accepts. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email       string                     `json:"email,omitempty"`
	Role        string                     `json:"role,omitempty"`
	Permissions []changecontrol.Permission `json:"permissions,omitempty"`
}

// FromClaims creates an Identity from verified claims. A missing role
// means viewer.
func FromClaims(c *Claims) (*Identity, error) {
	if c.Subject == "" {
		return nil, errors.New("token subject is required")
	}
	role, err := changecontrol.ParseRole(c.Role)
	if err != nil {
		return nil, err
	}
	id := &Identity{
		UserID:      c.Subject,
		Email:       c.Email,
		Role:        role,
		Permissions: c.Permissions,
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id, nil
}

// ParseToken verifies an HS256 token signed with key and returns the
// identity it carries.
func ParseToken(key []byte, tokenString string) (*Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return FromClaims(claims)
}

// IssueToken signs an HS256 token for a user. It is used by the CLI and by
// tests.
func IssueToken(key []byte, userID string, role changecontrol.Role, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role.String(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// WithUserAgent sets the client user agent.
func (i *Identity) WithUserAgent(ua string) *Identity {
	i.UserAgent = ua
	return i
}

// Subject returns the permission subject of the identity.
func (i *Identity) Subject() changecontrol.Subject {
	return changecontrol.Subject{Role: i.Role, Permissions: i.Permissions}
}

// Can reports whether the identity holds p.
func (i *Identity) Can(p changecontrol.Permission) bool {
	return changecontrol.HasPermission(i.Subject(), p)
}

// IP returns the remote IP as a string, or "".
func (i *Identity) IP() string {
	if i.RemoteIP == nil {
		return ""
	}
	return i.RemoteIP.String()
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
