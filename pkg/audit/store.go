package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strconv"

	_ "github.com/lib/pq"
)

// Store handles audit entry persistence to the audit_logs table
type Store struct {
	db *sql.DB
}

var _ Sink = (*Store)(nil)

// NewStore creates a new audit store from AUDIT_DATABASE_URL
// Returns nil if AUDIT_DATABASE_URL is not set (audit DB disabled)
func NewStore() (*Store, error) {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB creates a store with an existing database connection
// Useful for testing with sqlmock
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append persists an audit entry to the database
func (s *Store) Append(ctx context.Context, e Entry) error {
	if s.db == nil {
		return nil
	}

	hostname, _ := os.Hostname()

	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (timestamp, facility, severity, hostname, appname, procid, msgid,
			user_id, action, resource, resource_id, ip_address, user_agent, details, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		e.Timestamp,
		e.Facility(),
		int(e.Severity()),
		hostname,
		"netops",
		strconv.Itoa(os.Getpid()),
		e.MessageID(),
		nullString(e.UserID),
		e.Action,
		e.Resource,
		nullString(e.ResourceID),
		nullString(e.IPAddress),
		nullString(e.UserAgent),
		detailsJSON,
		e.Message(),
	)

	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
