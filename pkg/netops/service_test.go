package netops

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/configtool"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
)

type fixture struct {
	store *governance.MemoryStore
	sink  *audit.Memory
	svc   *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{store: governance.NewMemoryStore(), sink: audit.NewMemory()}
	opts = append([]Option{WithRecorder(audit.NewRecorder(f.sink))}, opts...)
	f.svc = NewService(f.store, opts...)
	return f
}

func (f *fixture) policy(t *testing.T, in governance.PolicyInput) {
	t.Helper()
	_, err := f.store.CreatePolicy(context.Background(), in)
	require.NoError(t, err)
}

func (f *fixture) approve(t *testing.T, device, ticket string) {
	t.Helper()
	ctx := context.Background()
	a, err := f.store.RequestApproval(ctx, governance.ApprovalInput{
		DeviceID: device, TicketID: ticket, RequestedBy: "netops-1", Reason: "planned reboot",
	})
	require.NoError(t, err)
	_, err = f.store.ResolveApproval(ctx, a.ID, governance.ApprovalApproved, "admin-1")
	require.NoError(t, err)
}

func admin() *identity.Identity {
	return &identity.Identity{UserID: "admin-1", Role: changecontrol.RoleAdmin}
}

func prodConfig() *configtool.Config {
	return &configtool.Config{Hostname: "edge-1", Metadata: &configtool.Metadata{Environment: governance.EnvProd}}
}

func prodPolicy() governance.PolicyInput {
	return governance.PolicyInput{
		Name:          "prod",
		Environment:   governance.EnvProd,
		AllowList:     []string{"show", "reload", "interface"},
		DenyList:      []string{"erase"},
		DangerousList: []string{"reload"},
	}
}

func TestPushDangerousCommandNeedsApproval(t *testing.T) {
	f := newFixture(t)
	f.policy(t, prodPolicy())
	ctx := context.Background()

	req := PushRequest{
		DeviceID: "edge-1",
		Vendor:   configtool.VendorCisco,
		Commands: []string{"reload"},
		TicketID: "T1",
		Reason:   "planned reboot",
		Config:   prodConfig(),
	}

	_, err := f.svc.Push(ctx, admin(), req)
	require.ErrorIs(t, err, ErrDangerousCommand)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	f.approve(t, "edge-1", "T1")

	res, err := f.svc.Push(ctx, admin(), req)
	require.NoError(t, err)
	assert.Equal(t, PushSuccess, res.Status)
	assert.Equal(t, []string{"Config push accepted (mock)."}, res.Details)

	assert.Equal(t, []string{"config_push_blocked", "config_push"}, f.sink.Actions())
	blocked := f.sink.Entries()[0]
	assert.Equal(t, "edge-1", blocked.ResourceID)
	assert.Equal(t, "Dangerous command requires approval", blocked.Details["reason"])
}

func TestPushProdNeedsApproval(t *testing.T) {
	f := newFixture(t)
	f.policy(t, prodPolicy())

	_, err := f.svc.Push(context.Background(), admin(), PushRequest{
		DeviceID: "edge-1",
		Commands: []string{"show version"},
		TicketID: "T2",
		Reason:   "inventory",
		Config:   prodConfig(),
	})
	require.ErrorIs(t, err, ErrPushNeedsApproval)
	assert.Equal(t, []string{"config_push_blocked"}, f.sink.Actions())
}

func TestPushBlockedByPolicy(t *testing.T) {
	f := newFixture(t)
	f.policy(t, governance.PolicyInput{
		Name:        "dev",
		Environment: governance.EnvDev,
		AllowList:   []string{"show", "interface"},
		DenyList:    []string{"shutdown"},
	})

	tests := []struct {
		name    string
		command string
	}{
		{name: "not allowed", command: "copy run start"},
		{name: "denied", command: "interface Gi0/1 shutdown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Push(context.Background(), admin(), PushRequest{
				DeviceID: "dev-1",
				Commands: []string{"show run", tt.command},
				Reason:   "lab change",
			})
			require.ErrorIs(t, err, ErrCommandBlocked)
			entries := f.sink.Entries()
			last := entries[len(entries)-1]
			assert.Equal(t, "config_push_blocked", last.Action)
			assert.Equal(t, []string{tt.command}, last.Details["sample"])
		})
	}
}

func TestPushDryRun(t *testing.T) {
	f := newFixture(t)
	f.policy(t, prodPolicy())

	res, err := f.svc.Push(context.Background(), admin(), PushRequest{
		DeviceID: "edge-1",
		Commands: []string{"reload"},
		Reason:   "rehearsal",
		DryRun:   true,
		Config:   prodConfig(),
	})
	require.NoError(t, err)
	assert.Equal(t, PushDryRun, res.Status)
	assert.Equal(t, []string{"config_push_dry_run"}, f.sink.Actions())
	assert.Equal(t, UnassignedTicket, f.sink.Entries()[0].Details["ticketId"])
}

func TestPushPreconditions(t *testing.T) {
	ctx := context.Background()

	viewer := &identity.Identity{UserID: "v", Role: changecontrol.RoleViewer}

	tests := []struct {
		name    string
		caller  *identity.Identity
		req     PushRequest
		want    error
		audited bool // false when the refusal precedes a known device
	}{
		{
			name: "no caller",
			req:  PushRequest{DeviceID: "d", Commands: []string{"show"}, Reason: "check it"},
			want: ErrUnauthenticatedOps,
		},
		{
			name:   "no device",
			caller: admin(),
			req:    PushRequest{Commands: []string{"show"}, Reason: "check it"},
			want:   ErrDeviceIDRequired,
		},
		{
			name:    "read risk",
			caller:  admin(),
			req:     PushRequest{DeviceID: "d", Commands: []string{"show"}, Reason: "check it", RiskLevel: "R0_READ"},
			want:    ErrReadOnlyPush,
			audited: true,
		},
		{
			name:    "short reason",
			caller:  admin(),
			req:     PushRequest{DeviceID: "d", Commands: []string{"show"}, Reason: "x"},
			want:    changecontrol.ErrReasonRequired,
			audited: true,
		},
		{
			name:    "viewer",
			caller:  viewer,
			req:     PushRequest{DeviceID: "d", Commands: []string{"show"}, Reason: "check it"},
			want:    changecontrol.ErrInsufficientPermissions,
			audited: true,
		},
		{
			name:    "change without request id",
			caller:  admin(),
			req:     PushRequest{DeviceID: "d", Commands: []string{"show"}, Reason: "check it", RiskLevel: "R2_CHANGE"},
			want:    changecontrol.ErrChangeRequestRequired,
			audited: true,
		},
		{
			name:    "no commands",
			caller:  admin(),
			req:     PushRequest{DeviceID: "d", Reason: "check it"},
			want:    ErrCommandsRequired,
			audited: true,
		},
		{
			name:    "default policy",
			caller:  admin(),
			req:     PushRequest{DeviceID: "d", Commands: []string{"show"}, Reason: "check it"},
			want:    ErrEmptyAllowList,
			audited: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Push(ctx, tt.caller, tt.req)
			require.ErrorIs(t, err, tt.want)

			if !tt.audited {
				assert.Empty(t, f.sink.Entries())
				return
			}
			require.Equal(t, []string{"config_push_blocked"}, f.sink.Actions())
			var appErr *apperr.Error
			require.True(t, errors.As(tt.want, &appErr))
			assert.Equal(t, appErr.Message, f.sink.Entries()[0].Details["reason"])
			assert.Equal(t, "d", f.sink.Entries()[0].ResourceID)
		})
	}
}

func TestPushProdChangeWithoutRequestIsAudited(t *testing.T) {
	f := newFixture(t)
	f.policy(t, prodPolicy())

	_, err := f.svc.Push(context.Background(), admin(), PushRequest{
		DeviceID:  "edge-1",
		Commands:  []string{"interface Gi0/2 shutdown"},
		TicketID:  "CHG-2",
		RiskLevel: "R2_CHANGE",
		Reason:    "retire access port",
		Config:    prodConfig(),
	})
	require.ErrorIs(t, err, changecontrol.ErrChangeRequestRequired)

	require.Equal(t, []string{"config_push_blocked"}, f.sink.Actions())
	entry := f.sink.Entries()[0]
	assert.Equal(t, audit.OutcomeBlocked, entry.Outcome)
	assert.Equal(t, "prod", entry.Details["environment"])
	assert.Equal(t, "R2_CHANGE", entry.Details["riskLevel"])
	assert.Equal(t, "CHG-2", entry.Details["ticketId"])
	assert.Equal(t, changecontrol.ErrChangeRequestRequired.Message, entry.Details["reason"])
}

func TestPushChangeInProdNeedsWindow(t *testing.T) {
	f := newFixture(t)
	f.policy(t, prodPolicy())
	f.approve(t, "edge-1", "CHG-1")

	req := PushRequest{
		DeviceID:        "edge-1",
		Commands:        []string{"interface Gi0/1 description uplink"},
		TicketID:        "CHG-1",
		RiskLevel:       "R2_CHANGE",
		Reason:          "relabel uplink",
		ChangeRequestID: "CR-9",
		RollbackPlan:    "restore previous description",
		Precheck:        []string{"show interface Gi0/1"},
		Postcheck:       []string{"show interface Gi0/1"},
		Config:          prodConfig(),
	}
	_, err := f.svc.Push(context.Background(), admin(), req)
	require.ErrorIs(t, err, changecontrol.ErrMaintenanceWindowRequired)

	req.MaintenanceWindowID = "mw-1"
	res, err := f.svc.Push(context.Background(), admin(), req)
	require.NoError(t, err)
	assert.Equal(t, PushSuccess, res.Status)

	relaxed := newFixture(t, WithMaintenanceWindowInProd(false))
	relaxed.policy(t, prodPolicy())
	relaxed.approve(t, "edge-1", "CHG-1")
	req.MaintenanceWindowID = ""
	_, err = relaxed.svc.Push(context.Background(), admin(), req)
	assert.NoError(t, err)
}

func TestPushBreakGlassNeedsSuperAdmin(t *testing.T) {
	f := newFixture(t, WithDefaultEnvironment(governance.EnvStaging))
	f.policy(t, governance.PolicyInput{Name: "staging", Environment: governance.EnvStaging, AllowList: []string{"interface"}})
	f.approve(t, "core-1", "INC-7")

	req := PushRequest{
		DeviceID:        "core-1",
		Commands:        []string{"interface vlan 10 shutdown"},
		TicketID:        "INC-7",
		RiskLevel:       "R3_DANGEROUS",
		Reason:          "isolate broadcast storm",
		ChangeRequestID: "CR-10",
		BreakGlass:      true,
		RollbackPlan:    "no shutdown on vlan 10",
		Precheck:        []string{"show vlan"},
		Postcheck:       []string{"show vlan"},
	}
	_, err := f.svc.Push(context.Background(), admin(), req)
	require.ErrorIs(t, err, changecontrol.ErrBreakGlassRequired)

	super := &identity.Identity{UserID: "root-1", Role: changecontrol.RoleSuperAdmin}
	res, err := f.svc.Push(context.Background(), super, req)
	require.NoError(t, err)
	assert.Equal(t, PushSuccess, res.Status)
}

func TestPushMikroTikDangerousScript(t *testing.T) {
	f := newFixture(t)
	f.policy(t, governance.PolicyInput{Name: "prod", Environment: governance.EnvProd, AllowList: []string{"/system"}})

	_, err := f.svc.Push(context.Background(), admin(), PushRequest{
		DeviceID: "mt-1",
		Vendor:   configtool.VendorMikroTik,
		Commands: []string{"/system reset-configuration no-defaults=yes"},
		TicketID: "T9",
		Reason:   "factory reset",
		Config:   prodConfig(),
	})
	assert.ErrorIs(t, err, ErrDangerousCommand)
}

func TestPushCollector(t *testing.T) {
	dev := governance.PolicyInput{Name: "dev", Environment: governance.EnvDev, AllowList: []string{"show"}}
	req := PushRequest{DeviceID: "lab-1", Commands: []string{"show clock"}, Reason: "time check"}

	t.Run("applied", func(t *testing.T) {
		var got PushRequest
		f := newFixture(t, WithCollector(CollectorFunc(func(_ context.Context, r PushRequest) ([]string, error) {
			got = r
			return []string{"12:00:00 UTC"}, nil
		})))
		f.policy(t, dev)

		res, err := f.svc.Push(context.Background(), admin(), req)
		require.NoError(t, err)
		assert.Equal(t, "lab-1", got.DeviceID)
		assert.Equal(t, []string{"Config push applied."}, res.Details)
		assert.Equal(t, []string{"12:00:00 UTC"}, res.Output)
	})

	t.Run("failure", func(t *testing.T) {
		f := newFixture(t, WithCollector(CollectorFunc(func(context.Context, PushRequest) ([]string, error) {
			return nil, errors.New("ssh: handshake failed")
		})))
		f.policy(t, dev)

		_, err := f.svc.Push(context.Background(), admin(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
		assert.Equal(t, []string{"config_push_blocked"}, f.sink.Actions())
	})
}
