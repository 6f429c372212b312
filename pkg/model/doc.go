// Package model defines the database rows for the governance store.
//
// Each model maps one table created by db/migrations. List columns are
// Postgres text[] arrays scanned through pq.StringArray.
//
// # Tables
//
//   - policies: per-environment allow, deny and dangerous lists
//   - approval_requests: sign-offs keyed by device and ticket
//   - maintenance_windows: declared change windows
//   - jit_grants: time-boxed role elevations
//   - break_glass_events: emergency override records
//   - evidence_cases: snapshot bundles for investigations
//   - audit_logs: governance decisions written by the audit store
package model
