package changecontrol

import (
	"strings"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
)

// RiskLevel classifies the blast radius of an action, from read-only to
// destructive.
//
//go:generate go run github.com/dmarkham/enumer -type RiskLevel -transform snake-upper -text -output risklevel.gen.go
type RiskLevel int

const (
	R0Read RiskLevel = iota
	R1SafeWrite
	R2Change
	R3Dangerous
)

// IsWrite reports whether l is anything other than a read.
func (l RiskLevel) IsWrite() bool {
	return l >= R1SafeWrite
}

// IsChange reports whether l is R2 or R3.
func (l RiskLevel) IsChange() bool {
	return l >= R2Change
}

// NormalizeRiskLevel parses s. An empty string is R0_READ and names are
// matched exactly.
func NormalizeRiskLevel(s string) (RiskLevel, error) {
	if s == "" {
		return R0Read, nil
	}
	l, err := RiskLevelString(s)
	if err != nil || l.String() != s {
		return R0Read, apperr.Validation("Unsupported risk level: " + s)
	}
	return l, nil
}

// MinReasonLength is the number of non-blank characters a write action
// must justify itself with.
const MinReasonLength = 5

// EnforceReason rejects write actions without a reason.
func EnforceReason(level RiskLevel, reason string) error {
	if level == R0Read {
		return nil
	}
	if len(strings.TrimSpace(reason)) < MinReasonLength {
		return ErrReasonRequired
	}
	return nil
}
