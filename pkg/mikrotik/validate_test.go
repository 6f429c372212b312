package mikrotik

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(msgs []Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func TestValidateIntentOverlap(t *testing.T) {
	in := coreIntent()
	in.VLANs = []VLAN{
		{ID: 10, Name: "MGMT", Subnet: "10.10.0.0/24", Gateway: "10.10.0.1"},
		{ID: 30, Name: "SERVERS", Subnet: "10.10.0.128/25", Gateway: "10.10.0.129"},
		{ID: 20, Name: "STAFF", Subnet: "10.20.0.0/24", Gateway: "10.20.0.1"},
	}

	r := ValidateIntent(in)
	assert.False(t, r.Valid)
	assert.Contains(t, ids(r.Errors), "vlans.overlap.10-30")
	assert.NotContains(t, ids(r.Errors), "vlans.overlap.10-20")
	assert.NotContains(t, ids(r.Errors), "vlans.overlap.30-20")
}

func TestValidateIntentGateway(t *testing.T) {
	tests := []struct {
		name    string
		gateway string
		wantErr bool
	}{
		{name: "outside subnet", gateway: "10.20.0.1", wantErr: true},
		{name: "inside subnet", gateway: "10.10.0.1", wantErr: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := coreIntent()
			in.VLANs = []VLAN{{ID: 10, Name: "MGMT", Subnet: "10.10.0.0/24", Gateway: tc.gateway}}
			in.Interfaces = []Interface{{Name: "ether2", Purpose: PurposeTrunk}}
			in.Internet = nil

			r := ValidateIntent(in)
			if tc.wantErr {
				assert.Contains(t, ids(r.Errors), "vlans.gateway.10")
				assert.False(t, r.Valid)
			} else {
				assert.NotContains(t, ids(r.Errors), "vlans.gateway.10")
				assert.True(t, r.Valid)
			}
		})
	}
}

func TestValidateIntentUnparsableGateway(t *testing.T) {
	in := coreIntent()
	in.VLANs[0].Gateway = "gw"

	r := ValidateIntent(in)
	assert.Contains(t, ids(r.Warnings), "vlans.gateway.parse.10")
}

func TestValidateIntentDuplicateVLAN(t *testing.T) {
	in := coreIntent()
	in.VLANs = append(in.VLANs, VLAN{ID: 20, Name: "DUP", Subnet: "10.30.0.0/24", Gateway: "10.30.0.1"})

	r := ValidateIntent(in)
	assert.Contains(t, ids(r.Errors), "vlans.duplicate.20")
}

func TestValidateIntentRoles(t *testing.T) {
	t.Run("edge requires internet", func(t *testing.T) {
		in := coreIntent()
		in.Role = RoleEdgeInternet
		in.Internet = nil
		assert.Contains(t, ids(ValidateIntent(in).Errors), "internet.required")
	})
	t.Run("edge without default route", func(t *testing.T) {
		in := coreIntent()
		in.Role = RoleEdgeInternet
		off := false
		in.Internet.DefaultRoute = &off
		assert.Contains(t, ids(ValidateIntent(in).Warnings), "internet.defaultRoute.off")
	})
	t.Run("core requires vlans", func(t *testing.T) {
		in := coreIntent()
		in.VLANs = nil
		assert.Contains(t, ids(ValidateIntent(in).Errors), "vlans.required")
	})
	t.Run("hospital preset with internet", func(t *testing.T) {
		in := coreIntent()
		in.SecurityProfile.Preset = PresetHospitalSecure
		assert.Contains(t, ids(ValidateIntent(in).Warnings), "security.hospital.internet")
	})
	t.Run("access switch ignores routing", func(t *testing.T) {
		in := coreIntent()
		in.Role = RoleAccessSwitchCRS
		in.Routing = &Routing{StaticRoutes: []StaticRoute{{Dst: "0.0.0.0/0", Gateway: "10.0.0.1"}}}
		r := ValidateIntent(in)
		assert.Contains(t, ids(r.Warnings), "routing.unused")
		assert.Contains(t, ids(r.Warnings), "internet.unused")
	})
	t.Run("mgmt-only ignores vlans", func(t *testing.T) {
		in := coreIntent()
		in.Role = RoleMgmtOnly
		assert.Contains(t, ids(ValidateIntent(in).Warnings), "vlans.unused")
	})
}

func TestValidateIntentManagement(t *testing.T) {
	in := coreIntent()
	in.Management.MgmtSubnet = "0.0.0.0/0"
	in.Management.SSH = &SSH{AllowPassword: true}

	r := ValidateIntent(in)
	assert.Contains(t, ids(r.Errors), "management.mgmtSubnet.open")
	assert.Contains(t, ids(r.Warnings), "management.ssh.password")
	assert.NotContains(t, ids(r.Errors), "management.ssh.password")
}

func TestValidateIntentWAN(t *testing.T) {
	t.Run("mismatch", func(t *testing.T) {
		in := coreIntent()
		in.Internet.WANInterface = "sfp1"
		assert.Contains(t, ids(ValidateIntent(in).Warnings), "internet.wan.mismatch")
	})
	t.Run("conflict", func(t *testing.T) {
		in := coreIntent()
		in.Internet.WANInterface = "ether2"
		assert.Contains(t, ids(ValidateIntent(in).Errors), "internet.wan.conflict")
	})
}

func TestValidateRouterOSConfig(t *testing.T) {
	const baseline = `
/ip firewall filter add chain=input connection-state=established,related action=accept
/ip firewall filter add chain=input connection-state=invalid action=drop
/ip firewall filter add chain=input action=drop
/ip service set telnet disabled=yes
`
	tests := []struct {
		name     string
		config   string
		version  string
		errors   []string
		warnings []string
	}{
		{
			name:    "baseline",
			config:  baseline,
			version: "7.14",
		},
		{
			name:    "empty",
			config:  "",
			version: "7.14",
			errors:  []string{"firewall.missing.established", "firewall.missing.invalid"},
			warnings: []string{
				"firewall.missing.finalDrop",
				"services.telnet",
			},
		},
		{
			name:     "dns without protection",
			config:   baseline + "/ip dns set allow-remote-requests=yes\n",
			version:  "7.14",
			warnings: []string{"dns.remoteRequests.unprotected"},
		},
		{
			name:    "dns protected",
			config:  baseline + "/ip dns set allow-remote-requests=yes\n/ip firewall filter add chain=input protocol=udp dst-port=53 action=accept\n",
			version: "7.14",
		},
		{
			name: "fasttrack with queues",
			config: baseline +
				"/ip firewall filter add chain=forward action=fasttrack-connection\n/queue tree add name=q parent=global\n",
			version:  "7.14",
			warnings: []string{"qos.fasttrack"},
		},
		{
			name:     "routeros 6",
			config:   baseline,
			version:  "6.49",
			warnings: []string{"routeros.version"},
		},
		{
			name:     "duplicates",
			config:   baseline + "/ip service set telnet disabled=yes\n",
			version:  "7.14",
			warnings: []string{"config.duplicates"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := ValidateRouterOSConfig(tc.config, tc.version)
			assert.ElementsMatch(t, tc.errors, ids(r.Errors))
			assert.ElementsMatch(t, tc.warnings, ids(r.Warnings))
			assert.Equal(t, len(tc.errors) == 0, r.Valid)
		})
	}
}

func TestDetectDangerous(t *testing.T) {
	assert.Empty(t, DetectDangerous("/ip address add address=10.0.0.1/24 interface=ether2"))
	assert.Equal(t,
		[]string{"reset-configuration", "/system reset-configuration"},
		DetectDangerous("/System Reset-Configuration no-defaults=yes"))
	assert.Equal(t, []string{"remove [find"}, DetectDangerous(`/ip route remove [find where dynamic=no]`))
}
