package configtool

import (
	"fmt"
	"strings"
)

const mikrotikBridge = "br0"

func renderMikroTik(cfg Config) Result {
	var base, vlans, routing, firewall, services, rollback []string

	if cfg.Hostname != "" {
		base = append(base, "/system identity set name="+cfg.Hostname)
	}

	if len(cfg.VLANs) > 0 {
		base = append(base, fmt.Sprintf("/interface bridge add name=%s vlan-filtering=yes", mikrotikBridge))
		rollback = append(rollback, fmt.Sprintf("/interface bridge remove [find name=%s]", mikrotikBridge))
	}

	for _, v := range cfg.VLANs {
		name := fmt.Sprintf("vlan%d", v.ID)
		vlans = append(vlans, fmt.Sprintf("/interface vlan add name=%s vlan-id=%d interface=%s", name, v.ID, mikrotikBridge))
		if v.Gateway != "" {
			prefix := maskToPrefix(v.Subnet)
			if prefix == "" {
				prefix = "24"
			}
			vlans = append(vlans, fmt.Sprintf("/ip address add address=%s/%s interface=%s", v.Gateway, prefix, name))
			rollback = append(rollback, fmt.Sprintf("/ip address remove [find interface=%s]", name))
		}
		rollback = append(rollback, fmt.Sprintf("/interface vlan remove [find name=%s]", name))
	}

	for _, iface := range cfg.Interfaces {
		if iface.IPAddress == "" {
			continue
		}
		prefix := maskToPrefix(iface.SubnetMask)
		if prefix == "" {
			prefix = "24"
		}
		base = append(base, fmt.Sprintf("/ip address add address=%s/%s interface=%s", iface.IPAddress, prefix, iface.Name))
		rollback = append(rollback, fmt.Sprintf("/ip address remove [find interface=%s]", iface.Name))
	}

	for _, r := range cfg.staticRoutes() {
		dst := r.Destination
		if r.Netmask != "" {
			if prefix := maskToPrefix(r.Netmask); prefix != "" {
				dst += "/" + prefix
			}
		}
		routing = append(routing, fmt.Sprintf("/ip route add dst-address=%s gateway=%s", dst, r.NextHop))
		rollback = append(rollback, fmt.Sprintf(`/ip route remove [find dst-address~"%s"]`, r.Destination))
	}

	if ssh := cfg.ssh(); ssh != nil && ssh.Enabled {
		services = append(services, "/ip service set ssh disabled=no")
	} else {
		services = append(services, "/ip service set ssh disabled=yes")
	}
	services = append(services, "/ip service set telnet disabled=yes")

	if cfg.firewallEnabled() {
		firewall = append(firewall,
			"/ip firewall filter add chain=input connection-state=established,related action=accept",
			"/ip firewall filter add chain=input connection-state=invalid action=drop",
		)
		if from := cfg.Firewall.AllowMgmtFrom; from != "" {
			firewall = append(firewall, "/ip firewall filter add chain=input src-address="+from+" action=accept")
		}
		firewall = append(firewall, "/ip firewall filter add chain=input action=drop")
	}

	if s := cfg.Services; s != nil {
		if len(s.NTPServers) > 0 {
			services = append(services, "/system ntp client set enabled=yes servers="+strings.Join(s.NTPServers, ","))
		}
		if len(s.DNSServers) > 0 {
			services = append(services, "/ip dns set servers="+strings.Join(s.DNSServers, ","))
		}
		if len(s.SyslogServers) > 0 {
			services = append(services,
				"/system logging action set remote remote="+s.SyslogServers[0],
				"/system logging add topics=info action=remote",
			)
		}
	}

	sections := []Section{
		{Name: "base", Commands: nonNil(base)},
		{Name: "vlan", Commands: nonNil(vlans)},
		{Name: "routing", Commands: nonNil(routing)},
		{Name: "firewall", Commands: nonNil(firewall)},
		{Name: "services", Commands: nonNil(services)},
	}
	return Result{
		Commands:         flatten(sections),
		Sections:         sections,
		VerifyCommands:   []string{"/interface vlan print", "/ip address print", "/ip route print"},
		RollbackCommands: nonNil(rollback),
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
