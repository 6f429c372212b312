// Package config provides configuration management for the NetOps service.
//
// Settings are read from $NETOPS_CONFIG_PATH/netops.yml (default
// /etc/netops/netops.yml) and then overridden by environment variables.
// Every attribute remembers whether its value came from the defaults, the
// file or the environment.
//
// # Key Configuration Options
//
//   - NETOPS_JWT_SIGNING_KEY: HS256 key for bearer tokens
//   - NETOPS_IDLE_TIMEOUT_SEC: Interactive session idle timeout
//   - NETOPS_DEFAULT_ENVIRONMENT: Environment of requests that name none
//   - NETOPS_REQUIRE_MAINTENANCE_WINDOW_IN_PROD: Window rule for prod changes
//   - NETOPS_LOG_LEVEL: Logging verbosity
//   - DATABASE_URL: Governance store connection
package config
