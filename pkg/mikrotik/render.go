package mikrotik

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"sort"
	"strconv"
	"strings"
)

const (
	bridgeName  = "bridge1"
	tag         = "netops"
	mgmtList    = "MGMT"
	lanList     = "LAN"
	wanList     = "WAN"
	pppoeName   = "pppoe-out1"
	ospfName    = "netops-ospf"
	ospfArea    = "netops-area"
	syslogName  = "netops-remote"
	defaultWGIf = "wg0"
	defaultWGPt = 13231
)

// Rendered is the script produced for an intent.
type Rendered struct {
	Config      string
	Rollback    string
	Plan        []PlanStep
	Assumptions []string

	// Facts used for risk scoring.
	RoutingChanged  bool
	BridgeFiltering bool
	NAT             bool
}

// renderer accumulates script lines per module. Every object it adds is
// commented "netops: ..." so the rollback can find it again.
type renderer struct {
	lines       []string
	plan        []PlanStep
	menus       []string
	menuSeen    map[string]bool
	undo        []string
	assumptions []string
}

func newRenderer() *renderer {
	return &renderer{menuSeen: make(map[string]bool)}
}

func (r *renderer) section(module, title string) {
	r.lines = append(r.lines, "", "# "+title)
	r.plan = append(r.plan, PlanStep{Module: module, Title: title})
}

func (r *renderer) note(notes string) {
	step := &r.plan[len(r.plan)-1]
	if step.Notes == "" {
		step.Notes = notes
		return
	}
	step.Notes += " " + notes
}

func (r *renderer) emit(line string) {
	r.lines = append(r.lines, line)
	r.plan[len(r.plan)-1].Affected++
}

// add emits "<menu> add <args> comment=..." and remembers menu for the
// rollback.
func (r *renderer) add(menu, comment string, args ...string) {
	parts := append([]string{menu, "add"}, args...)
	parts = append(parts, "comment="+quote(tag+": "+comment))
	r.emit(strings.Join(parts, " "))
	if !r.menuSeen[menu] {
		r.menuSeen[menu] = true
		r.menus = append(r.menus, menu)
	}
}

// set emits a settings change and the line that reverses it.
func (r *renderer) set(line, reverse string) {
	r.emit(line)
	if reverse != "" {
		r.undo = append(r.undo, reverse)
	}
}

func (r *renderer) assume(format string, args ...any) {
	r.assumptions = append(r.assumptions, fmt.Sprintf(format, args...))
}

// result assembles the script. Sections that ended up empty are dropped
// from both the plan and the config.
func (r *renderer) result(in Intent) Rendered {
	var plan []PlanStep
	for _, step := range r.plan {
		if step.Affected > 0 {
			plan = append(plan, step)
		}
	}

	var cfg []string
	cfg = append(cfg, fmt.Sprintf("# %s (%s) RouterOS %s", in.Hostname, in.Role, in.Device.RouterOSVersion))
	for i := 0; i < len(r.lines); i++ {
		line := r.lines[i]
		if line == "" && i+1 < len(r.lines) && strings.HasPrefix(r.lines[i+1], "# ") &&
			(i+2 >= len(r.lines) || r.lines[i+2] == "") {
			i++
			continue
		}
		cfg = append(cfg, line)
	}

	return Rendered{
		Config:      strings.Join(cfg, "\n") + "\n",
		Rollback:    r.rollback(in),
		Plan:        plan,
		Assumptions: r.assumptions,
	}
}

func (r *renderer) rollback(in Intent) string {
	out := []string{fmt.Sprintf("# Rollback for %s (%s)", in.Hostname, in.Role)}
	if r.menuSeen["/interface bridge"] {
		out = append(out, fmt.Sprintf("/interface bridge set %s vlan-filtering=no", bridgeName))
	}
	for i := len(r.menus) - 1; i >= 0; i-- {
		out = append(out, fmt.Sprintf(`%s remove [find where comment~"^%s"]`, r.menus[i], tag))
	}
	for i := len(r.undo) - 1; i >= 0; i-- {
		out = append(out, r.undo[i])
	}
	out = append(out, "# System identity, clock and hardened services are not reverted.")
	return strings.Join(out, "\n") + "\n"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func vlanIface(id int) string {
	return "vlan" + strconv.Itoa(id)
}

// defaultPool derives a DHCP range that skips the first addresses of the
// subnet and stops before broadcast.
func defaultPool(p netip.Prefix) (string, string, bool) {
	if p.Bits() > 29 {
		return "", "", false
	}
	a4 := p.Addr().As4()
	base := binary.BigEndian.Uint32(a4[:])
	size := uint32(1) << (32 - p.Bits())
	offset := uint32(10)
	if size <= 32 {
		offset = 2
	}
	return u32Addr(base + offset).String(), u32Addr(base + size - 2).String(), true
}

func u32Addr(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}

// Render produces the RouterOS script and rollback for an intent that has
// had its role defaults applied.
func Render(in Intent) Rendered {
	r := newRenderer()
	out := Rendered{}

	renderSystem(r, in)
	renderInterfaces(r, in)
	bridged := renderBridge(r, in)
	out.BridgeFiltering = bridged
	renderVLANs(r, in, bridged)
	egress := renderInternet(r, in, &out)
	renderRouting(r, in, &out)
	renderVPN(r, in)
	renderManagement(r, in, egress)
	renderFirewall(r, in, egress)
	renderQoS(r, in)

	res := r.result(in)
	res.RoutingChanged = out.RoutingChanged
	res.BridgeFiltering = out.BridgeFiltering
	res.NAT = out.NAT
	return res
}

func renderSystem(r *renderer, in Intent) {
	r.section("system", "System")
	r.emit("/system identity set name=" + quote(in.Hostname))
	if in.Management.Timezone != "" {
		r.emit("/system clock set time-zone-name=" + in.Management.Timezone)
	}
	if len(in.Management.NTPServers) > 0 {
		r.set("/system ntp client set enabled=yes servers="+strings.Join(in.Management.NTPServers, ","),
			"/system ntp client set enabled=no")
	}
	if sl := in.Management.Syslog; sl != nil && sl.Remote != "" {
		r.set(fmt.Sprintf("/system logging action add name=%s target=remote remote=%s", syslogName, sl.Remote),
			fmt.Sprintf("/system logging action remove [find where name=%s]", syslogName))
		topics := sl.Topics
		if len(topics) == 0 {
			topics = []string{"info", "warning", "error", "critical"}
			r.assume("Remote syslog topics defaulted to %s.", strings.Join(topics, ","))
		}
		r.set(fmt.Sprintf("/system logging add topics=%s action=%s", strings.Join(topics, ","), syslogName),
			fmt.Sprintf("/system logging remove [find where action=%s]", syslogName))
	}
}

func renderInterfaces(r *renderer, in Intent) {
	r.section("interfaces", "Interfaces")
	for _, iface := range in.Interfaces {
		label := string(iface.Purpose)
		if iface.Comment != "" {
			label += ": " + iface.Comment
		}
		r.emit(fmt.Sprintf("/interface ethernet set %s comment=%s", iface.Name, quote(label)))
	}
}

// switchPorts returns the access and trunk interfaces that join the bridge.
func switchPorts(in Intent) (access, trunk []Interface) {
	if in.Role == RoleMgmtOnly || len(in.VLANs) == 0 {
		return nil, nil
	}
	for _, iface := range in.Interfaces {
		switch iface.Purpose {
		case PurposeAccess:
			if iface.AccessVLANID > 0 {
				access = append(access, iface)
			}
		case PurposeTrunk:
			trunk = append(trunk, iface)
		}
	}
	return access, trunk
}

func carries(iface Interface, id int) bool {
	if len(iface.TrunkVLANIDs) == 0 {
		return true
	}
	for _, v := range iface.TrunkVLANIDs {
		if v == id {
			return true
		}
	}
	return false
}

func renderBridge(r *renderer, in Intent) bool {
	access, trunk := switchPorts(in)
	if len(access)+len(trunk) == 0 {
		return false
	}

	r.section("bridge", "Bridge VLAN filtering")
	r.assume("Switch ports join bridge %s.", bridgeName)
	r.add("/interface bridge", "bridge", "name="+bridgeName, "vlan-filtering=no")
	for _, iface := range access {
		r.add("/interface bridge port", "access "+iface.Name,
			"bridge="+bridgeName, "interface="+iface.Name, fmt.Sprintf("pvid=%d", iface.AccessVLANID),
			"frame-types=admit-only-untagged-and-priority-tagged")
	}
	for _, iface := range trunk {
		r.add("/interface bridge port", "trunk "+iface.Name,
			"bridge="+bridgeName, "interface="+iface.Name, "frame-types=admit-only-vlan-tagged")
	}

	for _, v := range in.VLANs {
		var tagged, untagged []string
		if in.Role.Routed() || strings.EqualFold(v.Group, "MGMT") {
			tagged = append(tagged, bridgeName)
		}
		for _, iface := range trunk {
			if carries(iface, v.ID) {
				tagged = append(tagged, iface.Name)
			}
		}
		for _, iface := range access {
			if iface.AccessVLANID == v.ID {
				untagged = append(untagged, iface.Name)
			}
		}
		if len(tagged)+len(untagged) == 0 {
			continue
		}
		args := []string{"bridge=" + bridgeName, fmt.Sprintf("vlan-ids=%d", v.ID)}
		if len(tagged) > 0 {
			args = append(args, "tagged="+strings.Join(tagged, ","))
		}
		if len(untagged) > 0 {
			args = append(args, "untagged="+strings.Join(untagged, ","))
		}
		r.add("/interface bridge vlan", fmt.Sprintf("vlan %d %s", v.ID, v.Name), args...)
	}

	r.emit(fmt.Sprintf("/interface bridge set %s vlan-filtering=yes", bridgeName))
	r.note("Enabling VLAN filtering can interrupt connectivity; keep an out-of-band path.")
	return true
}

// vlanParent picks the interface VLANs are attached to when there is no
// bridge.
func vlanParent(in Intent, bridged bool) string {
	if bridged {
		return bridgeName
	}
	for _, iface := range in.Interfaces {
		if iface.Purpose == PurposeTrunk || iface.Purpose == PurposeAccess || iface.Purpose == PurposeMgmt {
			return iface.Name
		}
	}
	return in.Interfaces[0].Name
}

func renderVLANs(r *renderer, in Intent, bridged bool) {
	if !in.Role.Routed() || len(in.VLANs) == 0 {
		return
	}
	parent := vlanParent(in, bridged)
	if !bridged {
		r.assume("VLAN interfaces attach to %s.", parent)
	}

	r.section("vlans", "VLAN interfaces and addressing")
	for _, v := range in.VLANs {
		r.add("/interface vlan", v.Name, "name="+vlanIface(v.ID), fmt.Sprintf("vlan-id=%d", v.ID), "interface="+parent)
		r.add("/ip address", v.Name, "address="+interfaceAddress(v.Gateway, v.Subnet), "interface="+vlanIface(v.ID))
	}

	r.section("dhcp", "DHCP servers")
	for _, v := range in.VLANs {
		if v.DHCP == nil || !v.DHCP.Enabled {
			continue
		}
		p, ok := parseSubnet(v.Subnet)
		if !ok {
			continue
		}
		start, end := v.DHCP.PoolStart, v.DHCP.PoolEnd
		if start == "" || end == "" {
			var derived bool
			start, end, derived = defaultPool(p)
			if !derived {
				continue
			}
			r.assume("DHCP pool for VLAN %d defaulted to %s-%s.", v.ID, start, end)
		}
		lease := v.DHCP.LeaseTime
		if lease == "" {
			lease = "1h"
		}
		pool := fmt.Sprintf("pool-vlan%d", v.ID)
		r.add("/ip pool", v.Name, "name="+pool, "ranges="+start+"-"+end)
		r.add("/ip dhcp-server", v.Name,
			fmt.Sprintf("name=dhcp-vlan%d", v.ID), "interface="+vlanIface(v.ID),
			"address-pool="+pool, "lease-time="+lease, "disabled=no")
		args := []string{"address=" + p.String(), "gateway=" + v.Gateway}
		dns := v.DHCP.DNSServers
		if len(dns) == 0 {
			dns = []string{v.Gateway}
		}
		args = append(args, "dns-server="+strings.Join(dns, ","))
		if len(v.DHCP.NTPServers) > 0 {
			args = append(args, "ntp-server="+strings.Join(v.DHCP.NTPServers, ","))
		}
		r.add("/ip dhcp-server network", v.Name, args...)
	}
}

// renderInternet configures the uplink and returns the egress interface,
// or "" when no uplink is rendered.
func renderInternet(r *renderer, in Intent, out *Rendered) string {
	inet := in.Internet
	if inet == nil || in.Role == RoleAccessSwitchCRS || in.Role == RoleMgmtOnly {
		return ""
	}

	r.section("internet", "Internet uplink")
	egress := inet.WANInterface
	switch inet.PublicType {
	case PublicDHCP:
		r.add("/ip dhcp-client", "wan", "interface="+inet.WANInterface,
			"add-default-route="+yesNo(inet.WantsDefaultRoute()), "use-peer-dns=no", "disabled=no")
		out.RoutingChanged = out.RoutingChanged || inet.WantsDefaultRoute()
	case PublicStatic:
		r.add("/ip address", "wan", "address="+inet.Address, "interface="+inet.WANInterface)
		if inet.WantsDefaultRoute() {
			r.add("/ip route", "default route", "dst-address=0.0.0.0/0", "gateway="+inet.Gateway)
			out.RoutingChanged = true
		}
	case PublicPPPoE:
		egress = pppoeName
		args := []string{"name=" + pppoeName, "interface=" + inet.WANInterface, "user=" + inet.Username, "password=" + quote(inet.Password)}
		if inet.ServiceName != "" {
			args = append(args, "service-name="+inet.ServiceName)
		}
		args = append(args, "add-default-route="+yesNo(inet.WantsDefaultRoute()), "disabled=no")
		r.add("/interface pppoe-client", "wan", args...)
		out.RoutingChanged = out.RoutingChanged || inet.WantsDefaultRoute()
	}

	r.add("/interface list", "wan", "name="+wanList)
	r.add("/interface list member", "wan", "list="+wanList, "interface="+egress)

	if in.Role != RoleDistributionL3 {
		r.add("/ip firewall nat", "masquerade", "chain=srcnat", "out-interface-list="+wanList, "action=masquerade")
		out.NAT = true
	}
	return egress
}

func renderRouting(r *renderer, in Intent, out *Rendered) {
	if in.Role == RoleAccessSwitchCRS || in.Role == RoleMgmtOnly {
		return
	}
	routes := in.staticRoutes()
	ospf := in.ospf()
	if len(routes) == 0 && ospf == nil {
		return
	}

	r.section("routing", "Routing")
	out.RoutingChanged = true
	for _, rt := range routes {
		comment := "route " + rt.Dst
		if rt.Comment != "" {
			comment = rt.Comment
		}
		args := []string{"dst-address=" + rt.Dst, "gateway=" + rt.Gateway}
		if rt.Distance > 0 {
			args = append(args, fmt.Sprintf("distance=%d", rt.Distance))
		}
		r.add("/ip route", comment, args...)
	}
	if ospf == nil {
		return
	}

	instance := []string{"name=" + ospfName}
	if ospf.RouterID != "" {
		instance = append(instance, "router-id="+ospf.RouterID)
	} else {
		r.assume("OSPF router-id left to RouterOS selection.")
	}
	r.add("/routing ospf instance", "ospf", instance...)
	area := ospf.Area
	if area == "" {
		area = "0.0.0.0"
		r.assume("OSPF area defaulted to backbone 0.0.0.0.")
	}
	r.add("/routing ospf area", "ospf", "name="+ospfArea, "area-id="+area, "instance="+ospfName)
	networks := ospf.Networks
	if len(networks) == 0 {
		for _, v := range in.VLANs {
			if p, ok := parseSubnet(v.Subnet); ok {
				networks = append(networks, p.String())
			}
		}
	}
	if len(networks) > 0 {
		r.add("/routing ospf interface-template", "ospf networks", "area="+ospfArea, "networks="+strings.Join(networks, ","))
	}
	for _, iface := range ospf.PassiveInterfaces {
		r.add("/routing ospf interface-template", "ospf passive "+iface, "area="+ospfArea, "interfaces="+iface, "passive")
	}
}

func renderVPN(r *renderer, in Intent) {
	wg := in.wireguard()
	if wg == nil {
		return
	}
	r.section("vpn", "WireGuard")
	name, port := wgDefaults(wg)
	args := []string{"name=" + name, fmt.Sprintf("listen-port=%d", port)}
	if wg.PrivateKey != "" {
		args = append(args, "private-key="+quote(wg.PrivateKey))
	} else {
		r.assume("WireGuard private key is generated by RouterOS.")
	}
	r.add("/interface wireguard", "wireguard", args...)
	if wg.Address != "" {
		r.add("/ip address", "wireguard", "address="+wg.Address, "interface="+name)
	}
	for _, peer := range wg.Peers {
		pargs := []string{"interface=" + name, "public-key=" + quote(peer.PublicKey), "allowed-address=" + strings.Join(peer.AllowedIPs, ",")}
		if peer.Endpoint != "" {
			host, p, found := strings.Cut(peer.Endpoint, ":")
			pargs = append(pargs, "endpoint-address="+host)
			if found {
				pargs = append(pargs, "endpoint-port="+p)
			}
		}
		if peer.PersistentKeepalive > 0 {
			pargs = append(pargs, fmt.Sprintf("persistent-keepalive=%ds", peer.PersistentKeepalive))
		}
		r.add("/interface wireguard peers", "peer "+peer.Name, pargs...)
	}
}

func wgDefaults(wg *Wireguard) (string, int) {
	name, port := wg.InterfaceName, wg.ListenPort
	if name == "" {
		name = defaultWGIf
	}
	if port == 0 {
		port = defaultWGPt
	}
	return name, port
}

// mgmtSources lists the management subnet and extra allowed subnets once
// each.
func mgmtSources(in Intent) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range append([]string{in.Management.MgmtSubnet}, in.Management.AllowedSubnets...) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func renderManagement(r *renderer, in Intent, egress string) {
	r.section("management", "Management hardening")
	sources := mgmtSources(in)
	for _, s := range sources {
		r.add("/ip firewall address-list", "management", "list="+mgmtList, "address="+s)
	}
	addresses := strings.Join(sources, ",")

	disabled := []string{"telnet", "ftp", "api"}
	if in.SecurityProfile.Preset != PresetLab {
		disabled = append(disabled, "www")
	}
	if in.SecurityProfile.Preset == PresetHospitalSecure {
		disabled = append(disabled, "api-ssl", "www-ssl")
	}
	for _, svc := range disabled {
		r.emit(fmt.Sprintf("/ip service set %s disabled=yes", svc))
	}

	sshPort, allowPassword := 22, false
	if ssh := in.Management.SSH; ssh != nil {
		if ssh.Port > 0 {
			sshPort = ssh.Port
		}
		allowPassword = ssh.AllowPassword
		if len(ssh.AuthorizedKeys) > 0 {
			r.assume("%d SSH authorized key(s) must be imported with /user ssh-keys import.", len(ssh.AuthorizedKeys))
		}
	}
	r.emit(fmt.Sprintf("/ip service set ssh port=%d address=%s disabled=no", sshPort, addresses))
	r.emit("/ip ssh set strong-crypto=yes always-allow-password-login=" + yesNo(allowPassword))

	winbox := in.Management.Winbox
	if winbox != nil && winbox.Enabled != nil && *winbox.Enabled {
		port := winbox.Port
		if port == 0 {
			port = 8291
		}
		r.emit(fmt.Sprintf("/ip service set winbox port=%d address=%s disabled=no", port, addresses))
	} else {
		r.emit("/ip service set winbox disabled=yes")
	}

	dns := []string{"/ip dns set"}
	if in.Internet != nil && len(in.Internet.DNSServers) > 0 && egress != "" {
		dns = append(dns, "servers="+strings.Join(in.Internet.DNSServers, ","))
	}
	dns = append(dns, "allow-remote-requests="+yesNo(in.dnsRemoteRequests()))
	r.set(strings.Join(dns, " "), "/ip dns set allow-remote-requests=no")

	if snmp := in.Management.SNMP; snmp != nil && snmp.Enabled {
		allowed := snmp.AllowedSubnet
		if allowed == "" {
			allowed = in.Management.MgmtSubnet
		}
		community := snmp.Community
		if community == "" {
			community = "netops"
			r.assume("SNMP community name defaulted; replace it before apply.")
		}
		r.add("/snmp community", "snmp", "name="+community, "addresses="+allowed)
		r.set("/snmp set enabled=yes", "/snmp set enabled=no")
	}
}

// fastTrackOn resolves the fastTrack mode. Auto turns it off when QoS is
// enabled, since fast-tracked traffic bypasses queues.
func fastTrackOn(in Intent) bool {
	switch in.fastTrack() {
	case FastTrackEnabled:
		return true
	case FastTrackDisabled:
		return false
	}
	return in.QoS == nil || !in.QoS.Enabled
}

func vlanByRef(in Intent, ref string) (VLAN, bool) {
	for _, v := range in.VLANs {
		if strings.EqualFold(v.Name, ref) || strconv.Itoa(v.ID) == ref || strings.EqualFold(v.Group, ref) {
			return v, true
		}
	}
	return VLAN{}, false
}

func renderFirewall(r *renderer, in Intent, egress string) {
	const filter = "/ip firewall filter"
	r.section("firewall", "Firewall")

	for _, v := range in.VLANs {
		if p, ok := parseSubnet(v.Subnet); ok {
			r.add("/ip firewall address-list", "lan "+v.Name, "list="+lanList, "address="+p.String())
		}
	}
	if in.FirewallPolicy != nil {
		lists := append([]AddressList(nil), in.FirewallPolicy.AddressLists...)
		sort.SliceStable(lists, func(i, j int) bool { return lists[i].Name < lists[j].Name })
		for _, l := range lists {
			for _, e := range l.Entries {
				r.add("/ip firewall address-list", "list "+l.Name, "list="+l.Name, "address="+e)
			}
		}
	}

	r.add(filter, "accept established", "chain=input", "connection-state=established,related", "action=accept")
	r.add(filter, "drop invalid", "chain=input", "connection-state=invalid", "action=drop")
	r.add(filter, "accept icmp", "chain=input", "protocol=icmp", "action=accept")
	r.add(filter, "management access", "chain=input", "src-address-list="+mgmtList, "action=accept")
	if in.dnsRemoteRequests() {
		src := lanList
		if len(in.VLANs) == 0 {
			src = mgmtList
		}
		r.add(filter, "dns udp", "chain=input", "protocol=udp", "dst-port=53", "src-address-list="+src, "action=accept")
		r.add(filter, "dns tcp", "chain=input", "protocol=tcp", "dst-port=53", "src-address-list="+src, "action=accept")
	}
	if wg := in.wireguard(); wg != nil {
		_, port := wgDefaults(wg)
		r.add(filter, "wireguard", "chain=input", "protocol=udp", fmt.Sprintf("dst-port=%d", port), "action=accept")
	}
	r.add(filter, "drop all other input", "chain=input", "action=drop")

	if !in.Role.Routed() {
		r.note("Input chain only.")
		return
	}

	if fastTrackOn(in) {
		r.add(filter, "fasttrack", "chain=forward", "connection-state=established,related", "action=fasttrack-connection", "hw-offload=yes")
	} else if in.fastTrack() == FastTrackAuto {
		r.assume("FastTrack disabled because QoS is enabled.")
	}
	r.add(filter, "forward established", "chain=forward", "connection-state=established,related", "action=accept")
	r.add(filter, "forward invalid", "chain=forward", "connection-state=invalid", "action=drop")

	if in.FirewallPolicy != nil {
		for _, rule := range in.FirewallPolicy.InterVLANMatrix {
			from, fok := vlanByRef(in, rule.From)
			to, tok := vlanByRef(in, rule.To)
			if !fok || !tok {
				r.assume("Inter-VLAN rule %s -> %s skipped: unknown VLAN.", rule.From, rule.To)
				continue
			}
			action := "drop"
			if rule.Action == "allow" {
				action = "accept"
			}
			comment := fmt.Sprintf("%s to %s", from.Name, to.Name)
			if rule.Comment != "" {
				comment = rule.Comment
			}
			r.add(filter, comment, "chain=forward", "in-interface="+vlanIface(from.ID), "out-interface="+vlanIface(to.ID), "action="+action)
		}
	}

	if egress != "" {
		r.add(filter, "lan to wan", "chain=forward", "in-interface-list=!"+wanList, "out-interface-list="+wanList, "action=accept")
		r.add(filter, "drop unsolicited wan", "chain=forward", "in-interface-list="+wanList, "connection-nat-state=!dstnat", "action=drop")
	}
	if in.SecurityProfile.Preset == PresetHospitalSecure {
		r.add(filter, "default deny forward", "chain=forward", "action=drop")
		r.note("Forward chain denies by default; only listed inter-VLAN flows pass.")
	}
}

func renderQoS(r *renderer, in Intent) {
	q := in.QoS
	if q == nil || !q.Enabled {
		return
	}
	r.section("qos", "QoS")
	switch q.Profile {
	case "his-pacs-priority":
		r.add("/ip firewall mangle", "pacs", "chain=forward", "protocol=tcp", "dst-port=104,11112", "action=mark-packet", "new-packet-mark=pacs", "passthrough=no")
		r.add("/queue tree", "pacs", "name=netops-pacs", "parent=global", "packet-mark=pacs", "priority=1")
	case "voip":
		r.add("/ip firewall mangle", "voip", "chain=forward", "protocol=udp", "dst-port=5060,10000-20000", "action=mark-packet", "new-packet-mark=voip", "passthrough=no")
		r.add("/queue tree", "voip", "name=netops-voip", "parent=global", "packet-mark=voip", "priority=1")
	case "guest-limit":
		for _, v := range in.VLANs {
			if !strings.EqualFold(v.Group, "GUEST") {
				continue
			}
			if p, ok := parseSubnet(v.Subnet); ok {
				r.add("/queue simple", "guest "+v.Name, fmt.Sprintf("name=netops-guest-%d", v.ID), "target="+p.String(), "max-limit=10M/10M")
			}
		}
		r.assume("Guest VLANs are limited to 10M/10M.")
	default:
		r.assume("Custom QoS profile: no queues rendered.")
	}
	if q.Notes != "" {
		r.note(q.Notes)
	}
}
