package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
)

var testKey = []byte("test-signing-key-0123456789abcdef")

func TestParseToken(t *testing.T) {
	now := time.Now()
	tok, err := IssueToken(testKey, "user-1", changecontrol.RoleAdmin, time.Hour, now)
	require.NoError(t, err)

	id, err := ParseToken(testKey, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, changecontrol.RoleAdmin, id.Role)
	assert.WithinDuration(t, now.Add(time.Hour), id.ExpiresAt, time.Second)
	assert.True(t, id.Can(changecontrol.PermChangeExecute))
}

func TestParseTokenRejects(t *testing.T) {
	now := time.Now()
	valid, err := IssueToken(testKey, "user-1", changecontrol.RoleNetops, time.Hour, now)
	require.NoError(t, err)
	expired, err := IssueToken(testKey, "user-1", changecontrol.RoleNetops, time.Hour, now.Add(-2*time.Hour))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}).SignedString(testKey)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		Role:             "root",
	}).SignedString(testKey)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString(testKey)
	require.NoError(t, err)

	tests := []struct {
		name  string
		key   []byte
		token string
	}{
		{name: "wrong key", key: []byte("another-key"), token: valid},
		{name: "expired", key: testKey, token: expired},
		{name: "no expiry", key: testKey, token: noExp},
		{name: "unknown role", key: testKey, token: badRole},
		{name: "no subject", key: testKey, token: noSubject},
		{name: "garbage", key: testKey, token: "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.key, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestFromClaimsDefaultsToViewer(t *testing.T) {
	id, err := FromClaims(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u"},
		Permissions:      []changecontrol.Permission{changecontrol.PermChangeApprove},
	})
	require.NoError(t, err)
	assert.Equal(t, changecontrol.RoleViewer, id.Role)
	assert.True(t, id.Can(changecontrol.PermChangeApprove))
	assert.False(t, id.Can(changecontrol.PermChangeExecute))
}

func TestIdentity_WithMethods(t *testing.T) {
	id := &Identity{UserID: "alice"}

	ip := net.ParseIP("192.168.1.100")
	id.WithRemoteIP(ip).WithUserAgent("netopsctl/1.0")

	assert.Equal(t, ip, id.RemoteIP)
	assert.Equal(t, "192.168.1.100", id.IP())
	assert.Equal(t, "netopsctl/1.0", id.UserAgent)
	assert.Equal(t, "", (&Identity{}).IP())
}

func TestContextGetSet(t *testing.T) {
	ctx := context.Background()

	// Initially no identity
	id, ok := Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, id)

	expected := &Identity{UserID: "alice", Role: changecontrol.RoleNetops}
	ctx = Set(ctx, expected)

	id, ok = Get(ctx)
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, expected.UserID, id.UserID)
	assert.Equal(t, changecontrol.Subject{Role: changecontrol.RoleNetops}, id.Subject())
}
