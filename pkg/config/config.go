package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

const (
	DefaultConfigPath = "/etc/netops"
	ConfigFileName    = "netops.yml"
)

// NetOpsConfig holds all service configuration settings
type NetOpsConfig struct {
	// TrustedProxies is a list of CIDR ranges whose X-Forwarded-For header
	// is believed when recording the caller's address
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// IdleTimeoutSec closes interactive sessions idle for longer
	IdleTimeoutSec int `yaml:"idle_timeout_sec" json:"idle_timeout_sec"`

	// SweepIntervalSec is how often idle sessions are purged
	SweepIntervalSec int `yaml:"sweep_interval_sec" json:"sweep_interval_sec"`

	// RequireMaintenanceWindowInProd makes R2/R3 actions in prod name a window
	RequireMaintenanceWindowInProd bool `yaml:"require_maintenance_window_in_prod" json:"require_maintenance_window_in_prod"`

	// DefaultEnvironment applies to pushes and sessions that name none
	DefaultEnvironment string `yaml:"default_environment" json:"default_environment"`

	// JWTSigningKey verifies bearer tokens (HS256)
	JWTSigningKey string `yaml:"jwt_signing_key" json:"-"`

	// AuditEnabled turns audit output on or off
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// LogLevel is the operational log level
	LogLevel string `yaml:"log_level" json:"log_level"`

	// SessionAllowList replaces the interactive default allow list
	SessionAllowList []string `yaml:"session_allow_list" json:"session_allow_list"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors the file layout. Pointers tell an explicit false or
// zero apart from an omitted key.
type fileConfig struct {
	TrustedProxies                 []string `yaml:"trusted_proxies"`
	IdleTimeoutSec                 *int     `yaml:"idle_timeout_sec"`
	SweepIntervalSec               *int     `yaml:"sweep_interval_sec"`
	RequireMaintenanceWindowInProd *bool    `yaml:"require_maintenance_window_in_prod"`
	DefaultEnvironment             string   `yaml:"default_environment"`
	JWTSigningKey                  string   `yaml:"jwt_signing_key"`
	AuditEnabled                   *bool    `yaml:"audit_enabled"`
	LogLevel                       string   `yaml:"log_level"`
	SessionAllowList               []string `yaml:"session_allow_list"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *NetOpsConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *NetOpsConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func newDefault() *NetOpsConfig {
	return &NetOpsConfig{
		TrustedProxies:                 []string{},
		IdleTimeoutSec:                 600,
		SweepIntervalSec:               30,
		RequireMaintenanceWindowInProd: true,
		DefaultEnvironment:             string(governance.EnvDev),
		AuditEnabled:                   true,
		LogLevel:                       "info",
		sources:                        make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*NetOpsConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("NETOPS_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"trusted_proxies", "idle_timeout_sec", "sweep_interval_sec",
		"require_maintenance_window_in_prod", "default_environment",
		"jwt_signing_key", "audit_enabled", "log_level", "session_allow_list",
	}
}

func (c *NetOpsConfig) applyFileConfig(file *fileConfig) {
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.IdleTimeoutSec != nil {
		c.IdleTimeoutSec = *file.IdleTimeoutSec
		c.sources["idle_timeout_sec"] = "file"
	}
	if file.SweepIntervalSec != nil {
		c.SweepIntervalSec = *file.SweepIntervalSec
		c.sources["sweep_interval_sec"] = "file"
	}
	if file.RequireMaintenanceWindowInProd != nil {
		c.RequireMaintenanceWindowInProd = *file.RequireMaintenanceWindowInProd
		c.sources["require_maintenance_window_in_prod"] = "file"
	}
	if file.DefaultEnvironment != "" {
		c.DefaultEnvironment = file.DefaultEnvironment
		c.sources["default_environment"] = "file"
	}
	if file.JWTSigningKey != "" {
		c.JWTSigningKey = file.JWTSigningKey
		c.sources["jwt_signing_key"] = "file"
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.SessionAllowList != nil {
		c.SessionAllowList = file.SessionAllowList
		c.sources["session_allow_list"] = "file"
	}
}

func (c *NetOpsConfig) applyEnvConfig() {
	if val := os.Getenv("NETOPS_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("NETOPS_IDLE_TIMEOUT_SEC"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.IdleTimeoutSec = i
			c.sources["idle_timeout_sec"] = "environment"
		}
	}
	if val := os.Getenv("NETOPS_SWEEP_INTERVAL_SEC"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SweepIntervalSec = i
			c.sources["sweep_interval_sec"] = "environment"
		}
	}
	if val := os.Getenv("NETOPS_REQUIRE_MAINTENANCE_WINDOW_IN_PROD"); val != "" {
		c.RequireMaintenanceWindowInProd = val == "true" || val == "1"
		c.sources["require_maintenance_window_in_prod"] = "environment"
	}
	if val := os.Getenv("NETOPS_DEFAULT_ENVIRONMENT"); val != "" {
		c.DefaultEnvironment = val
		c.sources["default_environment"] = "environment"
	}
	if val := os.Getenv("NETOPS_JWT_SIGNING_KEY"); val != "" {
		c.JWTSigningKey = val
		c.sources["jwt_signing_key"] = "environment"
	}
	if val := os.Getenv("NETOPS_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("NETOPS_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("NETOPS_SESSION_ALLOW_LIST"); val != "" {
		c.SessionAllowList = splitAndTrim(val)
		c.sources["session_allow_list"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *NetOpsConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *NetOpsConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

func (c *NetOpsConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSec) * time.Second
}

func (c *NetOpsConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

// Environment returns the default environment. Validate has checked it.
func (c *NetOpsConfig) Environment() governance.Environment {
	return governance.Environment(c.DefaultEnvironment)
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *NetOpsConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *NetOpsConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	if c.IdleTimeoutSec <= 0 {
		return fmt.Errorf("idle_timeout_sec must be positive, got %d", c.IdleTimeoutSec)
	}
	if c.SweepIntervalSec <= 0 {
		return fmt.Errorf("sweep_interval_sec must be positive, got %d", c.SweepIntervalSec)
	}
	env, err := governance.ParseEnvironment(c.DefaultEnvironment)
	if err != nil || env == governance.EnvAll {
		return fmt.Errorf("invalid default_environment: %s", c.DefaultEnvironment)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. The signing key is masked.
func (c *NetOpsConfig) Attributes() []Attribute {
	key := ""
	if c.JWTSigningKey != "" {
		key = "********"
	}
	return []Attribute{
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "idle_timeout_sec", Value: strconv.Itoa(c.IdleTimeoutSec), Source: c.Source("idle_timeout_sec")},
		{Name: "sweep_interval_sec", Value: strconv.Itoa(c.SweepIntervalSec), Source: c.Source("sweep_interval_sec")},
		{Name: "require_maintenance_window_in_prod", Value: strconv.FormatBool(c.RequireMaintenanceWindowInProd), Source: c.Source("require_maintenance_window_in_prod")},
		{Name: "default_environment", Value: c.DefaultEnvironment, Source: c.Source("default_environment")},
		{Name: "jwt_signing_key", Value: key, Source: c.Source("jwt_signing_key")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "session_allow_list", Value: strings.Join(c.SessionAllowList, ","), Source: c.Source("session_allow_list")},
	}
}

// FormatText returns a text representation of the configuration
func (c *NetOpsConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *NetOpsConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
