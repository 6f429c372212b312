package mikrotik

import "strings"

type DiffKind string

const (
	DiffSame   DiffKind = "same"
	DiffAdd    DiffKind = "add"
	DiffRemove DiffKind = "remove"
)

type DiffLine struct {
	Kind DiffKind `json:"kind"`
	Line string   `json:"line"`
}

type DiffSummary struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

type DiffResult struct {
	Summary        DiffSummary `json:"summary"`
	Lines          []DiffLine  `json:"lines"`
	SafeApplyNotes []string    `json:"safeApplyNotes"`
}

func diffLines(config string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(config, "\r\n", "\n"), "\n") {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Diff compares a running config with a desired one line by line. Desired
// lines come first, marked same or add, followed by the running lines that
// are no longer wanted.
func Diff(running, desired string) DiffResult {
	runningLines := diffLines(running)
	desiredLines := diffLines(desired)

	runningSet := make(map[string]bool, len(runningLines))
	for _, l := range runningLines {
		runningSet[l] = true
	}
	desiredSet := make(map[string]bool, len(desiredLines))
	for _, l := range desiredLines {
		desiredSet[l] = true
	}

	res := DiffResult{Lines: []DiffLine{}, SafeApplyNotes: []string{}}
	for _, l := range desiredLines {
		kind := DiffAdd
		if runningSet[l] {
			kind = DiffSame
		} else {
			res.Summary.Added++
		}
		res.Lines = append(res.Lines, DiffLine{Kind: kind, Line: l})
	}
	res.Summary.Unchanged = len(desiredLines) - res.Summary.Added
	for _, l := range runningLines {
		if !desiredSet[l] {
			res.Summary.Removed++
			res.Lines = append(res.Lines, DiffLine{Kind: DiffRemove, Line: l})
		}
	}

	text := strings.ToLower(strings.Join(desiredLines, "\n"))
	if strings.Contains(text, "vlan-filtering=yes") {
		res.SafeApplyNotes = append(res.SafeApplyNotes,
			"Bridge VLAN filtering changes can cause loss of connectivity. Apply during a maintenance window and keep an out-of-band path.")
	}
	if strings.Contains(text, "/ip firewall filter") {
		res.SafeApplyNotes = append(res.SafeApplyNotes,
			"Firewall changes can lock you out. Ensure management allow rules are in place before applying drop rules.")
	}
	if strings.Contains(text, "/system identity set") {
		res.SafeApplyNotes = append(res.SafeApplyNotes,
			"Identity changes are safe but can affect monitoring. Update CMDB/monitoring labels after apply.")
	}
	return res
}
