package mikrotik

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

// LoadIntent decodes a YAML (or JSON) intent. Unknown fields are rejected.
func LoadIntent(r io.Reader) (Intent, error) {
	var in Intent
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return in, apperr.Validation("Intent document is empty")
		}
		return in, apperr.Validation("Invalid intent: " + err.Error())
	}
	return in, nil
}

// Compile validates, renders and scores an intent. The returned error is
// set only for structurally malformed intents. Semantic problems are
// reported in Output.Validation, in which case Config is advisory and must
// not be pushed.
func Compile(in Intent) (Output, error) {
	if err := in.Check(); err != nil {
		return Output{}, err
	}
	resolved, assumptions, err := ApplyDefaults(in)
	if err != nil {
		return Output{}, err
	}

	report := ValidateIntent(resolved)
	rendered := Render(resolved)
	report = report.Merge(ValidateRouterOSConfig(rendered.Config, resolved.Device.RouterOSVersion))

	out := Output{
		Config:       rendered.Config,
		Rollback:     rendered.Rollback,
		Validation:   report,
		Plan:         rendered.Plan,
		Risk:         assessRisk(resolved, rendered, report),
		Assumptions:  append(assumptions, rendered.Assumptions...),
		VersionNotes: versionNotes(resolved),
	}
	if out.Assumptions == nil {
		out.Assumptions = []string{}
	}
	if out.Plan == nil {
		out.Plan = []PlanStep{}
	}
	return out, nil
}

func assessRisk(in Intent, rendered Rendered, report Report) Risk {
	var reasons []string
	severe := false

	if in.Role.Routed() {
		reasons = append(reasons, "Forward firewall policy is replaced by the generated baseline.")
	}
	if rendered.RoutingChanged {
		reasons = append(reasons, "Routing changes: default route, static routes or OSPF.")
	}
	if rendered.BridgeFiltering {
		reasons = append(reasons, "Bridge VLAN filtering is enabled on switch ports.")
	}
	if rendered.NAT {
		reasons = append(reasons, "NAT masquerade is configured on the WAN uplink.")
	}
	if shutsInterfaces(rendered.Config) {
		reasons = append(reasons, "Interfaces are shut down by the script.")
		severe = true
	}
	if found := DetectDangerous(rendered.Config); len(found) > 0 {
		reasons = append(reasons, "Dangerous patterns detected: "+strings.Join(found, ", "))
		severe = true
	}
	if !report.Valid {
		reasons = append(reasons, fmt.Sprintf("Validation reported %d error(s).", len(report.Errors)))
		severe = true
	}

	level := RiskLow
	switch {
	case severe, in.Environment == governance.EnvProd && len(reasons) > 0:
		level = RiskHigh
	case len(reasons) > 0:
		level = RiskMedium
	}
	if reasons == nil {
		reasons = []string{}
	}
	return Risk{Level: level, Reasons: reasons}
}

func versionNotes(in Intent) []string {
	notes := []string{"Generated with RouterOS 7 syntax (routing ospf instance/area/interface-template, bridge vlan-filtering)."}
	if in.Device.RouterOSMajor == 6 {
		notes = append(notes, "RouterOS 6 uses different OSPF menus and bridge VLAN options; review the routing and bridge sections before apply.")
		if in.wireguard() != nil {
			notes = append(notes, "WireGuard requires RouterOS 7.")
		}
	}
	if c := in.Device.Capabilities; c != nil && c.HasSwitchChip && in.Role == RoleAccessSwitchCRS {
		notes = append(notes, "Bridge hardware offload depends on the switch chip; confirm with /interface bridge port print.")
	}
	return notes
}
