// Package configtool renders a vendor-neutral device configuration to
// MikroTik RouterOS or Cisco IOS commands and lints it.
//
// Rendered output is split into named sections so that callers can show a
// plan, and always carries verify and rollback commands.
package configtool

import (
	"encoding/binary"
	"math/bits"
	"net/netip"
	"strconv"
	"strings"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

type Vendor string

const (
	VendorMikroTik Vendor = "mikrotik"
	VendorCisco    Vendor = "cisco"
)

func ParseVendor(s string) (Vendor, error) {
	switch v := Vendor(strings.ToLower(strings.TrimSpace(s))); v {
	case VendorMikroTik, VendorCisco:
		return v, nil
	}
	return "", apperr.Validation("Unsupported vendor: " + s)
}

type InterfaceRole string

const (
	InterfaceUplink InterfaceRole = "uplink"
	InterfaceAccess InterfaceRole = "access"
)

type Interface struct {
	Name        string        `json:"name" yaml:"name"`
	Role        InterfaceRole `json:"role" yaml:"role"`
	IPAddress   string        `json:"ipAddress,omitempty" yaml:"ipAddress,omitempty"`
	SubnetMask  string        `json:"subnetMask,omitempty" yaml:"subnetMask,omitempty"`
	VLANID      int           `json:"vlanId,omitempty" yaml:"vlanId,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled     *bool         `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

type VLAN struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Subnet  string `json:"subnet,omitempty" yaml:"subnet,omitempty"`
	Gateway string `json:"gateway,omitempty" yaml:"gateway,omitempty"`
}

type StaticRoute struct {
	Destination string `json:"destination" yaml:"destination"`
	Netmask     string `json:"netmask,omitempty" yaml:"netmask,omitempty"`
	NextHop     string `json:"nextHop" yaml:"nextHop"`
}

type Routing struct {
	StaticRoutes []StaticRoute `json:"staticRoutes,omitempty" yaml:"staticRoutes,omitempty"`
}

type SSH struct {
	Enabled       bool `json:"enabled" yaml:"enabled"`
	Version       int  `json:"version" yaml:"version"`
	AllowPassword bool `json:"allowPassword" yaml:"allowPassword"`
}

type Services struct {
	SSH           *SSH     `json:"ssh,omitempty" yaml:"ssh,omitempty"`
	NTPServers    []string `json:"ntpServers,omitempty" yaml:"ntpServers,omitempty"`
	DNSServers    []string `json:"dnsServers,omitempty" yaml:"dnsServers,omitempty"`
	SyslogServers []string `json:"syslogServers,omitempty" yaml:"syslogServers,omitempty"`
}

type Firewall struct {
	Enabled       bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	AllowMgmtFrom string `json:"allowMgmtFrom,omitempty" yaml:"allowMgmtFrom,omitempty"`
}

type Metadata struct {
	Environment governance.Environment `json:"environment,omitempty" yaml:"environment,omitempty"`
}

// Config is the vendor-neutral description of a device.
type Config struct {
	Hostname   string      `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Interfaces []Interface `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	VLANs      []VLAN      `json:"vlans,omitempty" yaml:"vlans,omitempty"`
	Routing    *Routing    `json:"routing,omitempty" yaml:"routing,omitempty"`
	Services   *Services   `json:"services,omitempty" yaml:"services,omitempty"`
	Firewall   *Firewall   `json:"firewall,omitempty" yaml:"firewall,omitempty"`
	Metadata   *Metadata   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// EnvironmentOrDefault returns metadata.environment, or dev when unset.
func (c Config) EnvironmentOrDefault() governance.Environment {
	if c.Metadata == nil || c.Metadata.Environment == "" {
		return governance.EnvDev
	}
	return c.Metadata.Environment
}

func (c Config) ssh() *SSH {
	if c.Services == nil {
		return nil
	}
	return c.Services.SSH
}

func (c Config) staticRoutes() []StaticRoute {
	if c.Routing == nil {
		return nil
	}
	return c.Routing.StaticRoutes
}

func (c Config) firewallEnabled() bool {
	return c.Firewall != nil && c.Firewall.Enabled
}

type Section struct {
	Name     string   `json:"name"`
	Commands []string `json:"commands"`
}

// Result is a rendered configuration.
type Result struct {
	Commands         []string  `json:"commands"`
	Sections         []Section `json:"sections"`
	VerifyCommands   []string  `json:"verifyCommands"`
	RollbackCommands []string  `json:"rollbackCommands"`
}

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

type Finding struct {
	ID         string   `json:"id"`
	Severity   Severity `json:"severity"`
	Field      string   `json:"field"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Generated is a rendered configuration together with its lint findings.
type Generated struct {
	Result
	LintFindings []Finding `json:"lintFindings"`
}

// Render renders cfg for vendor.
func Render(cfg Config, vendor Vendor) (Result, error) {
	switch vendor {
	case VendorMikroTik:
		return renderMikroTik(cfg), nil
	case VendorCisco:
		return renderCisco(cfg), nil
	}
	return Result{}, apperr.Validation("Unsupported vendor: " + string(vendor))
}

// Generate renders cfg and lints it.
func Generate(cfg Config, vendor Vendor) (Generated, error) {
	res, err := Render(cfg, vendor)
	if err != nil {
		return Generated{}, err
	}
	return Generated{Result: res, LintFindings: Lint(cfg, vendor)}, nil
}

// Lint reports SSH hardening gaps. Cisco requires SSH v2; RouterOS only
// warns when SSH is explicitly disabled.
func Lint(cfg Config, vendor Vendor) []Finding {
	findings := []Finding{}
	ssh := cfg.ssh()
	switch vendor {
	case VendorCisco:
		if ssh == nil || !ssh.Enabled {
			findings = append(findings, Finding{
				ID:         "ssh-required",
				Severity:   SeverityError,
				Field:      "services.ssh.enabled",
				Message:    "SSH must be enabled on Cisco IOS.",
				Suggestion: "Enable SSH and enforce v2.",
			})
		}
		if ssh == nil || ssh.Version != 2 {
			findings = append(findings, Finding{
				ID:         "ssh-v2",
				Severity:   SeverityWarn,
				Field:      "services.ssh.version",
				Message:    "Cisco requires SSH v2.",
				Suggestion: "Set SSH version to 2.",
			})
		}
	case VendorMikroTik:
		if ssh != nil && !ssh.Enabled {
			findings = append(findings, Finding{
				ID:         "ssh-enabled",
				Severity:   SeverityWarn,
				Field:      "services.ssh.enabled",
				Message:    "SSH service should be enabled on RouterOS.",
				Suggestion: "Enable SSH or ensure remote access policy.",
			})
		}
	}
	return findings
}

func flatten(sections []Section) []string {
	out := []string{}
	for _, s := range sections {
		out = append(out, s.Commands...)
	}
	return out
}

// maskToPrefix converts a dotted mask or a CIDR to a prefix length. It
// returns "" when the input cannot be read.
func maskToPrefix(mask string) string {
	mask = strings.TrimSpace(mask)
	if mask == "" {
		return ""
	}
	if _, after, ok := strings.Cut(mask, "/"); ok {
		return after
	}
	a, err := netip.ParseAddr(mask)
	if err != nil || !a.Is4() {
		return ""
	}
	b := a.As4()
	return strconv.Itoa(bits.OnesCount32(binary.BigEndian.Uint32(b[:])))
}

// maskFromCIDR returns the dotted mask of a CIDR, or "".
func maskFromCIDR(cidr string) string {
	_, after, ok := strings.Cut(strings.TrimSpace(cidr), "/")
	if !ok {
		return ""
	}
	n, err := strconv.Atoi(after)
	if err != nil || n < 0 || n > 32 {
		return ""
	}
	var m uint32
	if n > 0 {
		m = ^uint32(0) << (32 - n)
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], m)
	return netip.AddrFrom4(b).String()
}
