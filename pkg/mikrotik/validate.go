package mikrotik

import (
	"fmt"
	"net/netip"
	"strings"
)

func normalizeInterfaceName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateIntent checks the semantic rules of an intent: hostname, VLAN
// uniqueness, subnet overlap, gateway placement, WAN usage, role
// requirements and management exposure.
func ValidateIntent(in Intent) Report {
	r := newReport()

	if strings.TrimSpace(in.Hostname) == "" {
		r.errorf("hostname.required", "hostname", "Hostname is required.")
	}

	seen := make(map[int]bool, len(in.VLANs))
	for i, v := range in.VLANs {
		if seen[v.ID] {
			r.errorf(fmt.Sprintf("vlans.duplicate.%d", v.ID), fmt.Sprintf("vlans.%d.id", i),
				fmt.Sprintf("Duplicate VLAN ID %d.", v.ID))
		}
		seen[v.ID] = true
	}

	type subnet struct {
		id     int
		raw    string
		prefix netip.Prefix
	}
	var subnets []subnet
	for _, v := range in.VLANs {
		if p, ok := parseSubnet(v.Subnet); ok {
			subnets = append(subnets, subnet{id: v.ID, raw: v.Subnet, prefix: p})
		}
	}
	for i := 0; i < len(subnets); i++ {
		for j := i + 1; j < len(subnets); j++ {
			a, b := subnets[i], subnets[j]
			if a.prefix.Overlaps(b.prefix) {
				r.errorf(fmt.Sprintf("vlans.overlap.%d-%d", a.id, b.id), "vlans",
					fmt.Sprintf("Subnet overlap detected between VLAN %d (%s) and VLAN %d (%s).", a.id, a.raw, b.id, b.raw))
			}
		}
	}

	for i, v := range in.VLANs {
		inside, ok := gatewayInSubnet(v.Gateway, v.Subnet)
		switch {
		case !ok:
			r.warnf(fmt.Sprintf("vlans.gateway.parse.%d", v.ID), fmt.Sprintf("vlans.%d", i),
				fmt.Sprintf("Unable to validate gateway %s against subnet %s for VLAN %d.", v.Gateway, v.Subnet, v.ID))
		case !inside:
			r.errorf(fmt.Sprintf("vlans.gateway.%d", v.ID), fmt.Sprintf("vlans.%d.gateway", i),
				fmt.Sprintf("Gateway %s is not inside subnet %s for VLAN %d.", v.Gateway, v.Subnet, v.ID))
		}
	}

	if in.Internet != nil && in.Internet.WANInterface != "" {
		wan := normalizeInterfaceName(in.Internet.WANInterface)
		wanInterfaces := map[string]bool{}
		conflict := false
		for _, iface := range in.Interfaces {
			name := normalizeInterfaceName(iface.Name)
			if iface.Purpose == PurposeWAN {
				wanInterfaces[name] = true
			} else if name == wan {
				conflict = true
			}
		}
		if len(wanInterfaces) > 0 && !wanInterfaces[wan] {
			r.warnf("internet.wan.mismatch", "internet.wanInterface",
				"internet.wanInterface does not match any interface with purpose=wan.")
		}
		if conflict {
			r.errorf("internet.wan.conflict", "internet.wanInterface",
				fmt.Sprintf("WAN interface %s is also used as a non-WAN interface.", in.Internet.WANInterface))
		}
	}

	validateRole(in, r)

	if strings.TrimSpace(in.Management.MgmtSubnet) == "0.0.0.0/0" {
		r.errorf("management.mgmtSubnet.open", "management.mgmtSubnet", "Management subnet must not be 0.0.0.0/0.")
	}

	return r.finish()
}

func validateRole(in Intent, r *Report) {
	hasVLANs := len(in.VLANs) > 0
	hasInternet := in.Internet != nil
	hasStatic := len(in.staticRoutes()) > 0

	switch in.Role {
	case RoleEdgeInternet:
		if !hasInternet {
			r.errorf("internet.required", "internet", "Edge role requires internet configuration.")
		} else if !in.Internet.WantsDefaultRoute() {
			r.warnf("internet.defaultRoute.off", "internet.defaultRoute", "Default route is disabled. Internet access may not work.")
		}
	case RoleCoreRouter, RoleDistributionL3:
		if !hasVLANs {
			r.errorf("vlans.required", "vlans", "This role requires at least one VLAN.")
		}
		if hasInternet && in.SecurityProfile.Preset == PresetHospitalSecure {
			r.warnf("security.hospital.internet", "securityProfile.preset",
				"Hospital-secure preset with internet enabled may require stricter WAN policies.")
		}
	case RoleAccessSwitchCRS:
		if !hasVLANs {
			r.errorf("vlans.required", "vlans", "This role requires at least one VLAN.")
		}
		if hasStatic {
			r.warnf("routing.unused", "routing.staticRoutes", "Access-switch role typically does not use static routes.")
		}
		if hasInternet {
			r.warnf("internet.unused", "internet", "Access-switch role typically does not configure internet uplink.")
		}
	case RoleMgmtOnly:
		if hasVLANs {
			r.warnf("vlans.unused", "vlans", "mgmt-only role ignores VLAN configuration unless explicitly pushed.")
		}
		if hasStatic {
			r.warnf("routing.unused", "routing", "mgmt-only role ignores routing configuration.")
		}
	}

	if in.Management.SSH != nil && in.Management.SSH.AllowPassword {
		r.warnf("management.ssh.password", "management.ssh.allowPassword",
			"SSH password authentication is enabled; consider using SSH keys only.")
	}
}

// scriptLines returns the trimmed, non-empty, non-comment lines of a
// RouterOS script.
func scriptLines(config string) []string {
	var lines []string
	for _, line := range strings.Split(config, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func anyLine(lines []string, prefix string, parts ...string) bool {
	for _, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		match := true
		for _, p := range parts {
			if !strings.Contains(line, p) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

const filterAdd = "/ip firewall filter add"

// ValidateRouterOSConfig checks a RouterOS script for the baseline
// firewall rules and common hardening gaps.
func ValidateRouterOSConfig(config, routerOSVersion string) Report {
	r := newReport()
	lines := scriptLines(config)

	if !anyLine(lines, filterAdd, "chain=input", "connection-state=established,related", "action=accept") {
		r.errorf("firewall.missing.established", "", "Firewall input chain is missing established/related accept rule.")
	}
	if !anyLine(lines, filterAdd, "chain=input", "connection-state=invalid", "action=drop") {
		r.errorf("firewall.missing.invalid", "", "Firewall input chain is missing drop invalid rule.")
	}
	if !anyLine(lines, filterAdd, "chain=input", "action=drop") {
		r.warnf("firewall.missing.finalDrop", "", "Firewall input chain has no explicit drop rule; default policies may expose services.")
	}
	if !anyLine(lines, "/ip service set telnet", "disabled=yes") {
		r.warnf("services.telnet", "", "Telnet is not explicitly disabled.")
	}
	if anyLine(lines, "/ip dns set", "allow-remote-requests=yes") &&
		!anyLine(lines, filterAdd, "chain=input", "dst-port=53") {
		r.warnf("dns.remoteRequests.unprotected", "",
			"DNS allow-remote-requests is enabled but no firewall rule for dst-port=53 was found.")
	}
	if anyLine(lines, filterAdd, "action=fasttrack-connection") && anyLine(lines, "/queue tree add") {
		r.warnf("qos.fasttrack", "", "FastTrack is enabled while queue tree rules exist. This may bypass QoS.")
	}
	if !strings.HasPrefix(routerOSVersion, "7") {
		r.warnf("routeros.version", "",
			fmt.Sprintf("RouterOS version %s may require adjustments (this generator targets RouterOS 7).", routerOSVersion))
	}

	seen := make(map[string]bool, len(lines))
	duplicates := make(map[string]bool)
	for _, line := range lines {
		if seen[line] {
			duplicates[line] = true
		}
		seen[line] = true
	}
	if len(duplicates) > 0 {
		r.warnf("config.duplicates", "", fmt.Sprintf("Config contains %d duplicate command line(s).", len(duplicates)))
	}

	return r.finish()
}
