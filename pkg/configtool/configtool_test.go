package configtool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

func branchConfig() Config {
	off := false
	return Config{
		Hostname: "branch-1",
		Interfaces: []Interface{
			{Name: "ether1", Role: InterfaceUplink, IPAddress: "192.0.2.2", SubnetMask: "255.255.255.252"},
			{Name: "ether2", Role: InterfaceAccess, VLANID: 20, Description: "front desk"},
			{Name: "ether9", Role: InterfaceAccess, Enabled: &off},
		},
		VLANs: []VLAN{
			{ID: 20, Name: "STAFF", Subnet: "10.20.0.0/24", Gateway: "10.20.0.1"},
			{ID: 30, Subnet: "10.30.0.0/25", Gateway: "10.30.0.1"},
		},
		Routing: &Routing{StaticRoutes: []StaticRoute{
			{Destination: "0.0.0.0", Netmask: "0.0.0.0", NextHop: "192.0.2.1"},
		}},
		Services: &Services{
			SSH:           &SSH{Enabled: true, Version: 2},
			NTPServers:    []string{"10.0.0.123"},
			SyslogServers: []string{"10.0.0.50"},
		},
		Firewall: &Firewall{Enabled: true, AllowMgmtFrom: "10.99.0.0/24"},
		Metadata: &Metadata{Environment: governance.EnvProd},
	}
}

func section(t *testing.T, res Result, name string) []string {
	t.Helper()
	for _, s := range res.Sections {
		if s.Name == name {
			return s.Commands
		}
	}
	t.Fatalf("section %q not rendered", name)
	return nil
}

func TestRenderMikroTik(t *testing.T) {
	res, err := Render(branchConfig(), VendorMikroTik)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/system identity set name=branch-1",
		"/interface bridge add name=br0 vlan-filtering=yes",
		"/ip address add address=192.0.2.2/30 interface=ether1",
	}, section(t, res, "base"))
	assert.Equal(t, []string{
		"/interface vlan add name=vlan20 vlan-id=20 interface=br0",
		"/ip address add address=10.20.0.1/24 interface=vlan20",
		"/interface vlan add name=vlan30 vlan-id=30 interface=br0",
		"/ip address add address=10.30.0.1/25 interface=vlan30",
	}, section(t, res, "vlan"))
	assert.Equal(t, []string{"/ip route add dst-address=0.0.0.0/0 gateway=192.0.2.1"}, section(t, res, "routing"))
	assert.Contains(t, section(t, res, "firewall"), "/ip firewall filter add chain=input src-address=10.99.0.0/24 action=accept")
	assert.Equal(t, "/ip firewall filter add chain=input action=drop", section(t, res, "firewall")[3])
	assert.Contains(t, section(t, res, "services"), "/ip service set ssh disabled=no")
	assert.Contains(t, section(t, res, "services"), "/ip service set telnet disabled=yes")

	assert.Len(t, res.Commands, 3+4+1+4+5)
	assert.Equal(t, []string{"/interface vlan print", "/ip address print", "/ip route print"}, res.VerifyCommands)
	assert.Equal(t, "/interface bridge remove [find name=br0]", res.RollbackCommands[0])
	assert.Contains(t, res.RollbackCommands, `/ip route remove [find dst-address~"0.0.0.0"]`)
}

func TestRenderCisco(t *testing.T) {
	res, err := Render(branchConfig(), VendorCisco)
	require.NoError(t, err)

	assert.Equal(t, []string{"hostname branch-1"}, section(t, res, "base"))
	assert.Equal(t, []string{"vlan 20", " name STAFF", "vlan 30", " name VLAN30"}, section(t, res, "vlan"))

	ifaces := section(t, res, "interfaces")
	assert.Equal(t, []string{"interface Vlan20", " ip address 10.20.0.1 255.255.255.0", " no shutdown"}, ifaces[:3])
	assert.Contains(t, ifaces, " ip address 10.30.0.1 255.255.255.128")
	assert.Contains(t, ifaces, " ip address 192.0.2.2 255.255.255.252")
	assert.Contains(t, ifaces, " switchport access vlan 20")
	assert.Equal(t, " shutdown", ifaces[len(ifaces)-1])

	assert.Equal(t, []string{"ip route 0.0.0.0 0.0.0.0 192.0.2.1"}, section(t, res, "routing"))
	assert.Equal(t, []string{
		"ip ssh version 2", "line vty 0 4", " transport input ssh", "no ip http server",
		"logging host 10.0.0.50", "logging trap informational", "ntp server 10.0.0.123",
	}, section(t, res, "services"))
	assert.Equal(t, []string{
		"ip access-list extended MGMT-IN",
		" permit tcp 10.99.0.0 0.0.0.255 any eq 22",
		" deny tcp any any eq 22",
		" permit ip any any",
	}, section(t, res, "firewall"))
	assert.Contains(t, res.RollbackCommands, "no ip route 0.0.0.0 0.0.0.0 192.0.2.1")
	assert.Contains(t, res.RollbackCommands, "no vlan 30")
}

func TestRenderUnsupportedVendor(t *testing.T) {
	_, err := Render(branchConfig(), "juniper")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = ParseVendor("juniper")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	v, err := ParseVendor(" MikroTik ")
	require.NoError(t, err)
	assert.Equal(t, VendorMikroTik, v)
}

func TestLint(t *testing.T) {
	tests := []struct {
		name   string
		vendor Vendor
		ssh    *SSH
		want   []string
	}{
		{name: "cisco without ssh", vendor: VendorCisco, ssh: nil, want: []string{"ssh-required", "ssh-v2"}},
		{name: "cisco ssh v1", vendor: VendorCisco, ssh: &SSH{Enabled: true, Version: 1}, want: []string{"ssh-v2"}},
		{name: "cisco ssh v2", vendor: VendorCisco, ssh: &SSH{Enabled: true, Version: 2}, want: []string{}},
		{name: "mikrotik ssh off", vendor: VendorMikroTik, ssh: &SSH{Enabled: false}, want: []string{"ssh-enabled"}},
		{name: "mikrotik ssh unset", vendor: VendorMikroTik, ssh: nil, want: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Services: &Services{SSH: tc.ssh}}
			var got []string
			for _, f := range Lint(cfg, tc.vendor) {
				got = append(got, f.ID)
			}
			assert.ElementsMatch(t, tc.want, got)
		})
	}

	findings := Lint(Config{}, VendorCisco)
	require.Len(t, findings, 2)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, SeverityWarn, findings[1].Severity)
}

func TestGenerate(t *testing.T) {
	cfg := branchConfig()
	cfg.Services.SSH.Version = 1

	g, err := Generate(cfg, VendorCisco)
	require.NoError(t, err)
	assert.NotEmpty(t, g.Commands)
	require.Len(t, g.LintFindings, 1)
	assert.Equal(t, "ssh-v2", g.LintFindings[0].ID)
}

func TestEnvironmentOrDefault(t *testing.T) {
	assert.Equal(t, governance.EnvDev, Config{}.EnvironmentOrDefault())
	assert.Equal(t, governance.EnvProd, branchConfig().EnvironmentOrDefault())
}

func TestMasks(t *testing.T) {
	assert.Equal(t, "24", maskToPrefix("255.255.255.0"))
	assert.Equal(t, "30", maskToPrefix("255.255.255.252"))
	assert.Equal(t, "25", maskToPrefix("10.0.0.0/25"))
	assert.Equal(t, "", maskToPrefix("not-a-mask"))
	assert.Equal(t, "255.255.255.128", maskFromCIDR("10.30.0.0/25"))
	assert.Equal(t, "0.0.0.0", maskFromCIDR("0.0.0.0/0"))
	assert.Equal(t, "", maskFromCIDR("10.0.0.1"))
}
