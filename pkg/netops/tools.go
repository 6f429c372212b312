package netops

import (
	"context"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/configtool"
	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
	"github.com/babasida246/NetOpsAI-sub007/pkg/mikrotik"
)

func toolEntry(caller *identity.Identity, action string, details map[string]any) audit.Entry {
	e := audit.Entry{
		Action:   action,
		Resource: "config_tools",
		Outcome:  audit.OutcomeAllowed,
		Details:  details,
	}
	if caller != nil {
		e.UserID = caller.UserID
		e.IPAddress = caller.IP()
		e.UserAgent = caller.UserAgent
	}
	return e
}

// Generate renders cfg for vendor with its lint findings.
func (s *Service) Generate(ctx context.Context, caller *identity.Identity, cfg configtool.Config, vendor configtool.Vendor) (configtool.Generated, error) {
	g, err := configtool.Generate(cfg, vendor)
	if err != nil {
		return g, err
	}
	s.recorder.Record(ctx, toolEntry(caller, "config_generate", map[string]any{
		"vendor":   string(vendor),
		"hostname": cfg.Hostname,
		"findings": len(g.LintFindings),
	}))
	return g, nil
}

// Lint lints cfg for vendor.
func (s *Service) Lint(ctx context.Context, caller *identity.Identity, cfg configtool.Config, vendor configtool.Vendor) ([]configtool.Finding, error) {
	if _, err := configtool.ParseVendor(string(vendor)); err != nil {
		return nil, err
	}
	findings := configtool.Lint(cfg, vendor)
	s.recorder.Record(ctx, toolEntry(caller, "config_lint", map[string]any{
		"vendor":   string(vendor),
		"findings": len(findings),
	}))
	return findings, nil
}

// CompileMikroTik compiles an intent and records the outcome. deviceID is
// optional and only used for the audit trail.
func (s *Service) CompileMikroTik(ctx context.Context, caller *identity.Identity, deviceID string, in mikrotik.Intent) (mikrotik.Output, error) {
	out, err := mikrotik.Compile(in)
	if err != nil {
		return out, err
	}
	e := audit.CompileEvent{
		DeviceID:     deviceID,
		Hostname:     in.Hostname,
		Role:         string(in.Role),
		Valid:        out.Validation.Valid,
		ErrorCount:   len(out.Validation.Errors),
		WarningCount: len(out.Validation.Warnings),
		RiskLevel:    string(out.Risk.Level),
	}
	if caller != nil {
		e.UserID = caller.UserID
	}
	s.recorder.Record(ctx, e)
	return out, nil
}
