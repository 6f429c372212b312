package mikrotik

import (
	"fmt"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

// TemplateDefaults are filled into an intent that leaves them unset.
type TemplateDefaults struct {
	Environment            governance.Environment `json:"environment"`
	SecurityPreset         SecurityPreset         `json:"securityPreset"`
	DNSAllowRemoteRequests bool                   `json:"dnsAllowRemoteRequests"`
	WinboxEnabled          bool                   `json:"winboxEnabled"`
	FastTrack              FastTrack              `json:"fastTrack"`
}

type RoleTemplate struct {
	ID             Role             `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	RequiredInputs []string         `json:"requiredInputs"`
	Defaults       TemplateDefaults `json:"defaults"`
}

func defaults(preset SecurityPreset, fastTrack FastTrack) TemplateDefaults {
	return TemplateDefaults{
		Environment:    governance.EnvDev,
		SecurityPreset: preset,
		WinboxEnabled:  true,
		FastTrack:      fastTrack,
	}
}

// Templates lists the supported roles.
var Templates = []RoleTemplate{
	{
		ID:             RoleEdgeInternet,
		Title:          "Edge Internet Router",
		Description:    "WAN uplink with NAT and a secure firewall baseline.",
		RequiredInputs: []string{"internet.wanInterface", "internet.publicType", "management.mgmtSubnet"},
		Defaults:       defaults(PresetStandardSecure, FastTrackAuto),
	},
	{
		ID:             RoleCoreRouter,
		Title:          "Core Router (VLAN Gateway)",
		Description:    "VLAN gateway with inter-VLAN policy and optional static or OSPF routing.",
		RequiredInputs: []string{"vlans", "interfaces", "management.mgmtSubnet"},
		Defaults:       defaults(PresetHospitalSecure, FastTrackAuto),
	},
	{
		ID:             RoleDistributionL3,
		Title:          "Distribution L3",
		Description:    "Internal routing with VLAN trunking. NAT is not configured.",
		RequiredInputs: []string{"vlans", "interfaces", "management.mgmtSubnet"},
		Defaults:       defaults(PresetHospitalSecure, FastTrackAuto),
	},
	{
		ID:             RoleAccessSwitchCRS,
		Title:          "Access Switch (CRS)",
		Description:    "Bridge VLAN filtering for trunk and access ports, no routing.",
		RequiredInputs: []string{"interfaces", "vlans"},
		Defaults:       defaults(PresetStandardSecure, FastTrackDisabled),
	},
	{
		ID:             RoleMgmtOnly,
		Title:          "Management Only",
		Description:    "Management hardening, logging and SNMP. Routing is left alone.",
		RequiredInputs: []string{"management.mgmtSubnet"},
		Defaults:       defaults(PresetStandardSecure, FastTrackDisabled),
	},
}

// Template returns the template for role.
func Template(role Role) (RoleTemplate, error) {
	for _, t := range Templates {
		if t.ID == role {
			return t, nil
		}
	}
	return RoleTemplate{}, apperr.Validation("Unknown MikroTik role template: " + string(role))
}

// ApplyDefaults fills the unset template fields of in and reports each
// default it applied.
func ApplyDefaults(in Intent) (Intent, []string, error) {
	t, err := Template(in.Role)
	if err != nil {
		return in, nil, err
	}
	var assumptions []string
	note := func(format string, args ...any) {
		assumptions = append(assumptions, fmt.Sprintf(format, args...))
	}

	out := in
	if out.Environment == "" {
		out.Environment = t.Defaults.Environment
		note("Environment defaulted to %s.", out.Environment)
	}
	if out.SecurityProfile.Preset == "" {
		out.SecurityProfile.Preset = t.Defaults.SecurityPreset
		note("Security preset defaulted to %s for role %s.", out.SecurityProfile.Preset, t.ID)
	}

	fw := FirewallPolicy{}
	if in.FirewallPolicy != nil {
		fw = *in.FirewallPolicy
	}
	if fw.FastTrack == "" {
		fw.FastTrack = t.Defaults.FastTrack
		note("FastTrack defaulted to %s.", fw.FastTrack)
	}
	out.FirewallPolicy = &fw

	winbox := Winbox{}
	if in.Management.Winbox != nil {
		winbox = *in.Management.Winbox
	}
	if winbox.Enabled == nil {
		enabled := t.Defaults.WinboxEnabled
		winbox.Enabled = &enabled
		note("Winbox enabled=%t by default, limited to the management subnet.", enabled)
	}
	out.Management.Winbox = &winbox

	if in.Management.DNSAllowRemoteRequests == nil {
		dns := t.Defaults.DNSAllowRemoteRequests
		out.Management.DNSAllowRemoteRequests = &dns
		note("DNS allow-remote-requests defaulted to %t.", dns)
	}
	return out, assumptions, nil
}

var validPurposes = map[InterfacePurpose]bool{
	PurposeWAN: true, PurposeTrunk: true, PurposeAccess: true, PurposeMgmt: true,
}

// Check rejects intents that are structurally malformed. Semantic problems
// such as overlapping subnets are reported by ValidateIntent instead.
func (in Intent) Check() error {
	if _, err := Template(in.Role); err != nil {
		return err
	}
	if in.Device.Model == "" || in.Device.RouterOSVersion == "" {
		return apperr.Validation("Device model and RouterOS version are required")
	}
	if in.Device.RouterOSMajor < 6 || in.Device.RouterOSMajor > 7 {
		return apperr.Validation("RouterOS major version must be 6 or 7")
	}
	if in.Environment != "" && in.Environment != governance.EnvDev &&
		in.Environment != governance.EnvStaging && in.Environment != governance.EnvProd {
		return apperr.Validation("Unsupported environment: " + string(in.Environment))
	}
	if len(in.Interfaces) == 0 {
		return apperr.Validation("At least one interface is required")
	}
	for i, iface := range in.Interfaces {
		if iface.Name == "" {
			return apperr.Validation(fmt.Sprintf("interfaces.%d: name is required", i))
		}
		if !validPurposes[iface.Purpose] {
			return apperr.Validation(fmt.Sprintf("interfaces.%d: unsupported purpose %q", i, iface.Purpose))
		}
	}
	for i, v := range in.VLANs {
		if v.ID < 1 || v.ID > 4094 {
			return apperr.Validation(fmt.Sprintf("vlans.%d: VLAN ID must be between 1 and 4094", i))
		}
	}
	switch in.SecurityProfile.Preset {
	case "", PresetHospitalSecure, PresetStandardSecure, PresetLab:
	default:
		return apperr.Validation("Unsupported security preset: " + string(in.SecurityProfile.Preset))
	}
	if in.FirewallPolicy != nil {
		switch in.FirewallPolicy.FastTrack {
		case "", FastTrackAuto, FastTrackEnabled, FastTrackDisabled:
		default:
			return apperr.Validation("Unsupported fastTrack mode: " + string(in.FirewallPolicy.FastTrack))
		}
	}
	if in.Internet != nil {
		switch in.Internet.PublicType {
		case PublicDHCP:
		case PublicStatic:
			if in.Internet.Address == "" || in.Internet.Gateway == "" {
				return apperr.Validation("Static internet requires address and gateway")
			}
		case PublicPPPoE:
			if in.Internet.Username == "" {
				return apperr.Validation("PPPoE internet requires a username")
			}
		default:
			return apperr.Validation("Unsupported internet publicType: " + string(in.Internet.PublicType))
		}
	}
	return nil
}
