package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	governancegorm "github.com/babasida246/NetOpsAI-sub007/pkg/governance/gorm"
)

// newMockDBServer creates a server over the Postgres store with a mocked
// database
func newMockDBServer(t *testing.T) (apiClient, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	s := NewTestServer(TestConfig(), governancegorm.NewStore(gormDB))
	return apiClient{t: t, s: s}, mock
}

func TestPoliciesOverPostgresStore(t *testing.T) {
	api, mock := newMockDBServer(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM policies ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "environment", "allow_list", "deny_list", "dangerous_list",
			"require_approval", "created_at", "updated_at",
		}).AddRow("policy_1", "Prod", "prod", "{show}", "{erase}", "{reload}", true, now, now))

	w := api.do("GET", "/netops/policies/resolve/prod", api.token("carol", changecontrol.RoleViewer), "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"id":"policy_1"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalsOverPostgresStore(t *testing.T) {
	api, mock := newMockDBServer(t)

	mock.ExpectQuery(`FROM approval_requests`).WillReturnError(assert.AnError)

	w := api.do("GET", "/netops/approvals?deviceId=edge-1", api.token("carol", changecontrol.RoleViewer), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeError(t, w)["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
