package configtool

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"
)

const defaultMask = "255.255.255.0"

func renderCisco(cfg Config) Result {
	var base, vlans, interfaces, routing, services, firewall, rollback []string

	if cfg.Hostname != "" {
		base = append(base, "hostname "+cfg.Hostname)
	}

	if ssh := cfg.ssh(); ssh != nil && ssh.Enabled {
		services = append(services, "ip ssh version 2", "line vty 0 4", " transport input ssh")
		rollback = append(rollback, "line vty 0 4", " transport input telnet")
	}
	services = append(services, "no ip http server")

	if s := cfg.Services; s != nil {
		for _, host := range s.SyslogServers {
			services = append(services, "logging host "+host)
		}
		if len(s.SyslogServers) > 0 {
			services = append(services, "logging trap informational")
		}
		for _, ntp := range s.NTPServers {
			services = append(services, "ntp server "+ntp)
		}
	}

	for _, v := range cfg.VLANs {
		name := v.Name
		if name == "" {
			name = fmt.Sprintf("VLAN%d", v.ID)
		}
		vlans = append(vlans, fmt.Sprintf("vlan %d", v.ID), " name "+name)
		if v.Gateway != "" {
			mask := maskFromCIDR(v.Subnet)
			if mask == "" {
				mask = defaultMask
			}
			interfaces = append(interfaces,
				fmt.Sprintf("interface Vlan%d", v.ID),
				fmt.Sprintf(" ip address %s %s", v.Gateway, mask),
				" no shutdown",
			)
			rollback = append(rollback, fmt.Sprintf("no interface Vlan%d", v.ID))
		}
		rollback = append(rollback, fmt.Sprintf("no vlan %d", v.ID))
	}

	for _, iface := range cfg.Interfaces {
		interfaces = append(interfaces, "interface "+iface.Name)
		if iface.Description != "" {
			interfaces = append(interfaces, " description "+iface.Description)
		}
		if iface.Role == InterfaceAccess && iface.VLANID > 0 {
			interfaces = append(interfaces, " switchport mode access", fmt.Sprintf(" switchport access vlan %d", iface.VLANID))
		}
		if iface.IPAddress != "" {
			mask := iface.SubnetMask
			if mask == "" {
				mask = defaultMask
			}
			interfaces = append(interfaces, fmt.Sprintf(" ip address %s %s", iface.IPAddress, mask))
		}
		if iface.Enabled != nil && !*iface.Enabled {
			interfaces = append(interfaces, " shutdown")
		} else {
			interfaces = append(interfaces, " no shutdown")
		}
	}

	for _, r := range cfg.staticRoutes() {
		mask := r.Netmask
		if mask == "" {
			mask = defaultMask
		}
		routing = append(routing, fmt.Sprintf("ip route %s %s %s", r.Destination, mask, r.NextHop))
		rollback = append(rollback, fmt.Sprintf("no ip route %s %s %s", r.Destination, mask, r.NextHop))
	}

	if cfg.firewallEnabled() {
		firewall = append(firewall, "ip access-list extended MGMT-IN")
		if from := cfg.Firewall.AllowMgmtFrom; from != "" {
			firewall = append(firewall, " permit tcp "+ciscoSource(from)+" any eq 22", " deny tcp any any eq 22")
		}
		firewall = append(firewall, " permit ip any any")
		rollback = append(rollback, "no ip access-list extended MGMT-IN")
	}

	sections := []Section{
		{Name: "base", Commands: nonNil(base)},
		{Name: "vlan", Commands: nonNil(vlans)},
		{Name: "interfaces", Commands: nonNil(interfaces)},
		{Name: "routing", Commands: nonNil(routing)},
		{Name: "services", Commands: nonNil(services)},
		{Name: "firewall", Commands: nonNil(firewall)},
	}
	return Result{
		Commands:         flatten(sections),
		Sections:         sections,
		VerifyCommands:   []string{"show vlan brief", "show ip interface brief", "show ip route"},
		RollbackCommands: nonNil(rollback),
	}
}

// ciscoSource renders a CIDR as "network wildcard", or anything else as
// "host <addr>".
func ciscoSource(cidr string) string {
	p, err := netip.ParsePrefix(strings.TrimSpace(cidr))
	if err != nil || !p.Addr().Is4() {
		return "host " + strings.TrimSpace(cidr)
	}
	var m uint32
	if p.Bits() > 0 {
		m = ^uint32(0) << (32 - p.Bits())
	}
	var w [4]byte
	binary.BigEndian.PutUint32(w[:], ^m)
	return p.Masked().Addr().String() + " " + netip.AddrFrom4(w).String()
}
