package mikrotik

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	running := `# running
/system identity set name="old"
/ip service set telnet disabled=yes
/ip address add address=10.0.0.1/24 interface=ether2
`
	desired := `/system identity set name="core-1"
/ip service set telnet disabled=yes
/ip firewall filter add chain=input connection-state=invalid action=drop

# trailing comment
`
	res := Diff(running, desired)

	assert.Equal(t, DiffSummary{Added: 2, Removed: 2, Unchanged: 1}, res.Summary)
	assert.Equal(t, []DiffLine{
		{Kind: DiffAdd, Line: `/system identity set name="core-1"`},
		{Kind: DiffSame, Line: "/ip service set telnet disabled=yes"},
		{Kind: DiffAdd, Line: "/ip firewall filter add chain=input connection-state=invalid action=drop"},
		{Kind: DiffRemove, Line: `/system identity set name="old"`},
		{Kind: DiffRemove, Line: "/ip address add address=10.0.0.1/24 interface=ether2"},
	}, res.Lines)
	assert.Len(t, res.SafeApplyNotes, 2)
}

func TestDiffIdentical(t *testing.T) {
	out, err := Compile(coreIntent())
	if !assert.NoError(t, err) {
		return
	}
	res := Diff(out.Config, out.Config)
	assert.Zero(t, res.Summary.Added)
	assert.Zero(t, res.Summary.Removed)
	assert.Equal(t, len(scriptLines(out.Config)), res.Summary.Unchanged)
	assert.Len(t, res.SafeApplyNotes, 3)
}
