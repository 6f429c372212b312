package mikrotik

import (
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

// Role selects a template of defaults and requirements.
type Role string

const (
	RoleEdgeInternet    Role = "edge-internet"
	RoleCoreRouter      Role = "core-router"
	RoleDistributionL3  Role = "distribution-l3"
	RoleAccessSwitchCRS Role = "access-switch-crs"
	RoleMgmtOnly        Role = "mgmt-only"
)

// Routed reports whether the role terminates VLANs on layer 3.
func (r Role) Routed() bool {
	switch r {
	case RoleEdgeInternet, RoleCoreRouter, RoleDistributionL3:
		return true
	}
	return false
}

type SecurityPreset string

const (
	PresetHospitalSecure SecurityPreset = "hospital-secure"
	PresetStandardSecure SecurityPreset = "standard-secure"
	PresetLab            SecurityPreset = "lab"
)

type InterfacePurpose string

const (
	PurposeWAN    InterfacePurpose = "wan"
	PurposeTrunk  InterfacePurpose = "trunk"
	PurposeAccess InterfacePurpose = "access"
	PurposeMgmt   InterfacePurpose = "mgmt"
)

type FastTrack string

const (
	FastTrackAuto     FastTrack = "auto"
	FastTrackEnabled  FastTrack = "enabled"
	FastTrackDisabled FastTrack = "disabled"
)

type PublicType string

const (
	PublicDHCP   PublicType = "dhcp"
	PublicStatic PublicType = "static"
	PublicPPPoE  PublicType = "pppoe"
)

type Device struct {
	Model           string        `json:"model" yaml:"model"`
	RouterOSMajor   int           `json:"routerOsMajor" yaml:"routerOsMajor"`
	RouterOSVersion string        `json:"routerOsVersion" yaml:"routerOsVersion"`
	Capabilities    *Capabilities `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

type Capabilities struct {
	HasSwitchChip bool   `json:"hasSwitchChip,omitempty" yaml:"hasSwitchChip,omitempty"`
	HasWifi       bool   `json:"hasWifi,omitempty" yaml:"hasWifi,omitempty"`
	HasSFP        bool   `json:"hasSfp,omitempty" yaml:"hasSfp,omitempty"`
	Notes         string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type Interface struct {
	Name         string           `json:"name" yaml:"name"`
	Purpose      InterfacePurpose `json:"purpose" yaml:"purpose"`
	Comment      string           `json:"comment,omitempty" yaml:"comment,omitempty"`
	AccessVLANID int              `json:"accessVlanId,omitempty" yaml:"accessVlanId,omitempty"`
	TrunkVLANIDs []int            `json:"trunkVlanIds,omitempty" yaml:"trunkVlanIds,omitempty"`
}

type DHCP struct {
	Enabled    bool     `json:"enabled" yaml:"enabled"`
	PoolStart  string   `json:"poolStart,omitempty" yaml:"poolStart,omitempty"`
	PoolEnd    string   `json:"poolEnd,omitempty" yaml:"poolEnd,omitempty"`
	LeaseTime  string   `json:"leaseTime,omitempty" yaml:"leaseTime,omitempty"`
	DNSServers []string `json:"dnsServers,omitempty" yaml:"dnsServers,omitempty"`
	NTPServers []string `json:"ntpServers,omitempty" yaml:"ntpServers,omitempty"`
}

type VLAN struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Subnet  string `json:"subnet" yaml:"subnet"`
	Gateway string `json:"gateway" yaml:"gateway"`
	DHCP    *DHCP  `json:"dhcp,omitempty" yaml:"dhcp,omitempty"`
	// Group is one of MGMT, STAFF, GUEST, SERVER or IOT.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
}

type StaticRoute struct {
	Dst      string `json:"dst" yaml:"dst"`
	Gateway  string `json:"gateway" yaml:"gateway"`
	Distance int    `json:"distance,omitempty" yaml:"distance,omitempty"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type OSPF struct {
	Enabled           bool     `json:"enabled" yaml:"enabled"`
	RouterID          string   `json:"routerId,omitempty" yaml:"routerId,omitempty"`
	Area              string   `json:"area,omitempty" yaml:"area,omitempty"`
	Networks          []string `json:"networks,omitempty" yaml:"networks,omitempty"`
	PassiveInterfaces []string `json:"passiveInterfaces,omitempty" yaml:"passiveInterfaces,omitempty"`
}

type Routing struct {
	StaticRoutes []StaticRoute `json:"staticRoutes,omitempty" yaml:"staticRoutes,omitempty"`
	OSPF         *OSPF         `json:"ospf,omitempty" yaml:"ospf,omitempty"`
}

// Internet describes the WAN uplink. Address and Gateway apply to static
// uplinks, Username, Password and ServiceName to PPPoE.
type Internet struct {
	WANInterface string     `json:"wanInterface" yaml:"wanInterface"`
	PublicType   PublicType `json:"publicType" yaml:"publicType"`
	Address      string     `json:"address,omitempty" yaml:"address,omitempty"`
	Gateway      string     `json:"gateway,omitempty" yaml:"gateway,omitempty"`
	Username     string     `json:"username,omitempty" yaml:"username,omitempty"`
	Password     string     `json:"password,omitempty" yaml:"password,omitempty"`
	ServiceName  string     `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	DNSServers   []string   `json:"dnsServers,omitempty" yaml:"dnsServers,omitempty"`
	DefaultRoute *bool      `json:"defaultRoute,omitempty" yaml:"defaultRoute,omitempty"`
}

// WantsDefaultRoute reports whether a default route is installed. It is
// on unless explicitly disabled.
func (i Internet) WantsDefaultRoute() bool {
	return i.DefaultRoute == nil || *i.DefaultRoute
}

type SecurityProfile struct {
	Preset SecurityPreset `json:"preset" yaml:"preset"`
}

type SSH struct {
	Port           int      `json:"port,omitempty" yaml:"port,omitempty"`
	AllowPassword  bool     `json:"allowPassword,omitempty" yaml:"allowPassword,omitempty"`
	AuthorizedKeys []string `json:"authorizedKeys,omitempty" yaml:"authorizedKeys,omitempty"`
}

type Winbox struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Port    int   `json:"port,omitempty" yaml:"port,omitempty"`
}

type Syslog struct {
	Remote string   `json:"remote,omitempty" yaml:"remote,omitempty"`
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`
}

type SNMP struct {
	Enabled       bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Community     string `json:"community,omitempty" yaml:"community,omitempty"`
	AllowedSubnet string `json:"allowedSubnet,omitempty" yaml:"allowedSubnet,omitempty"`
}

type Management struct {
	MgmtSubnet             string   `json:"mgmtSubnet" yaml:"mgmtSubnet"`
	AllowedSubnets         []string `json:"allowedSubnets,omitempty" yaml:"allowedSubnets,omitempty"`
	SSH                    *SSH     `json:"ssh,omitempty" yaml:"ssh,omitempty"`
	Winbox                 *Winbox  `json:"winbox,omitempty" yaml:"winbox,omitempty"`
	DNSAllowRemoteRequests *bool    `json:"dnsAllowRemoteRequests,omitempty" yaml:"dnsAllowRemoteRequests,omitempty"`
	Timezone               string   `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	NTPServers             []string `json:"ntpServers,omitempty" yaml:"ntpServers,omitempty"`
	Syslog                 *Syslog  `json:"syslog,omitempty" yaml:"syslog,omitempty"`
	SNMP                   *SNMP    `json:"snmp,omitempty" yaml:"snmp,omitempty"`
}

type MatrixRule struct {
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	Action  string `json:"action" yaml:"action"` // allow or deny
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type AddressList struct {
	Name    string   `json:"name" yaml:"name"`
	Entries []string `json:"entries" yaml:"entries"`
}

type FirewallPolicy struct {
	AddressLists    []AddressList `json:"addressLists,omitempty" yaml:"addressLists,omitempty"`
	InterVLANMatrix []MatrixRule  `json:"interVlanMatrix,omitempty" yaml:"interVlanMatrix,omitempty"`
	FastTrack       FastTrack     `json:"fastTrack,omitempty" yaml:"fastTrack,omitempty"`
}

type QoS struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Profile string `json:"profile" yaml:"profile"` // his-pacs-priority, voip, guest-limit or custom
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type WireguardPeer struct {
	Name                string   `json:"name" yaml:"name"`
	PublicKey           string   `json:"publicKey" yaml:"publicKey"`
	AllowedIPs          []string `json:"allowedIps" yaml:"allowedIps"`
	Endpoint            string   `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PersistentKeepalive int      `json:"persistentKeepalive,omitempty" yaml:"persistentKeepalive,omitempty"`
}

type Wireguard struct {
	Enabled       bool            `json:"enabled" yaml:"enabled"`
	InterfaceName string          `json:"interfaceName,omitempty" yaml:"interfaceName,omitempty"`
	ListenPort    int             `json:"listenPort,omitempty" yaml:"listenPort,omitempty"`
	Address       string          `json:"address,omitempty" yaml:"address,omitempty"`
	PrivateKey    string          `json:"privateKey,omitempty" yaml:"privateKey,omitempty"`
	Peers         []WireguardPeer `json:"peers,omitempty" yaml:"peers,omitempty"`
}

type VPN struct {
	Wireguard *Wireguard `json:"wireguard,omitempty" yaml:"wireguard,omitempty"`
}

// Intent is the declarative desired state of one device.
type Intent struct {
	Device          Device                 `json:"device" yaml:"device"`
	Role            Role                   `json:"role" yaml:"role"`
	Hostname        string                 `json:"hostname" yaml:"hostname"`
	Environment     governance.Environment `json:"environment,omitempty" yaml:"environment,omitempty"`
	LabMode         bool                   `json:"labMode,omitempty" yaml:"labMode,omitempty"`
	Interfaces      []Interface            `json:"interfaces" yaml:"interfaces"`
	VLANs           []VLAN                 `json:"vlans,omitempty" yaml:"vlans,omitempty"`
	Routing         *Routing               `json:"routing,omitempty" yaml:"routing,omitempty"`
	Internet        *Internet              `json:"internet,omitempty" yaml:"internet,omitempty"`
	SecurityProfile SecurityProfile        `json:"securityProfile" yaml:"securityProfile"`
	Management      Management             `json:"management" yaml:"management"`
	FirewallPolicy  *FirewallPolicy        `json:"firewallPolicy,omitempty" yaml:"firewallPolicy,omitempty"`
	QoS             *QoS                   `json:"qos,omitempty" yaml:"qos,omitempty"`
	VPN             *VPN                   `json:"vpn,omitempty" yaml:"vpn,omitempty"`
	Notes           string                 `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (in Intent) staticRoutes() []StaticRoute {
	if in.Routing == nil {
		return nil
	}
	return in.Routing.StaticRoutes
}

func (in Intent) ospf() *OSPF {
	if in.Routing == nil || in.Routing.OSPF == nil || !in.Routing.OSPF.Enabled {
		return nil
	}
	return in.Routing.OSPF
}

func (in Intent) fastTrack() FastTrack {
	if in.FirewallPolicy == nil || in.FirewallPolicy.FastTrack == "" {
		return FastTrackAuto
	}
	return in.FirewallPolicy.FastTrack
}

func (in Intent) dnsRemoteRequests() bool {
	return in.Management.DNSAllowRemoteRequests != nil && *in.Management.DNSAllowRemoteRequests
}

func (in Intent) wireguard() *Wireguard {
	if in.VPN == nil || in.VPN.Wireguard == nil || !in.VPN.Wireguard.Enabled {
		return nil
	}
	return in.VPN.Wireguard
}

// Message is one validation finding. ID is stable and machine readable.
type Message struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Report collects validation findings. Valid is false when any error is
// present.
type Report struct {
	Valid    bool      `json:"valid"`
	Errors   []Message `json:"errors"`
	Warnings []Message `json:"warnings"`
}

func newReport() *Report {
	return &Report{Errors: []Message{}, Warnings: []Message{}}
}

func (r *Report) errorf(id, field, msg string) {
	r.Errors = append(r.Errors, Message{ID: id, Message: msg, Field: field})
}

func (r *Report) warnf(id, field, msg string) {
	r.Warnings = append(r.Warnings, Message{ID: id, Message: msg, Field: field})
}

func (r *Report) finish() Report {
	r.Valid = len(r.Errors) == 0
	return *r
}

// Merge combines two reports.
func (r Report) Merge(other Report) Report {
	out := Report{
		Errors:   append(append([]Message{}, r.Errors...), other.Errors...),
		Warnings: append(append([]Message{}, r.Warnings...), other.Warnings...),
	}
	out.Valid = len(out.Errors) == 0
	return out
}

// PlanStep is one module of the rendered configuration.
type PlanStep struct {
	Module   string `json:"module"`
	Title    string `json:"title"`
	Affected int    `json:"affected"`
	Notes    string `json:"notes,omitempty"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Risk struct {
	Level   RiskLevel `json:"level"`
	Reasons []string  `json:"reasons"`
}

// Output is the result of Compile. When Validation.Valid is false, Config
// is advisory and must not be pushed.
type Output struct {
	Config       string     `json:"config"`
	Rollback     string     `json:"rollback"`
	Validation   Report     `json:"validation"`
	Plan         []PlanStep `json:"plan"`
	Risk         Risk       `json:"risk"`
	Assumptions  []string   `json:"assumptions"`
	VersionNotes []string   `json:"versionNotes"`
}
