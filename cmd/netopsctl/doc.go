// Command netopsctl runs the NetOps network change governance server.
//
// The server decides whether a user may push configuration to, or run
// interactive commands on, a network device. Every decision is checked
// against the policy resolved for the target environment, the caller's
// role and the approvals on record, and is written to the audit log.
//
// # Quick Start
//
//	# Create the schema
//	export DATABASE_URL=postgres://netops@localhost/netops?sslmode=disable
//	netopsctl db migrate
//
//	# Load policies
//	netopsctl policy load policies.yml
//
//	# Start the server
//	export NETOPS_JWT_SIGNING_KEY=...
//	netopsctl server --store postgres
//
// Offline tooling needs neither the database nor the server:
//
//	netopsctl mikrotik compile intent.yml --plan
//	netopsctl mikrotik validate script.rsc --version 7.14
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string for the governance store
//   - AUDIT_DATABASE_URL: optional PostgreSQL connection string for audit rows
//   - NETOPS_CONFIG_PATH: directory holding netops.yml (default /etc/netops)
//   - NETOPS_JWT_SIGNING_KEY: HS256 key bearer tokens are verified with
//   - NETOPS_LOG_LEVEL: operational log level (debug, info, warn, error)
//   - PORT: server port (default 8080)
package main
