package governance

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// EvidenceMarkdown renders an evidence case as a markdown document. The
// case summary is embedded as written.
func EvidenceMarkdown(e EvidenceCase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Evidence case %s\n\n", e.ID)
	fmt.Fprintf(&b, "- Device: `%s`\n", e.DeviceID)
	if e.TicketID != "" {
		fmt.Fprintf(&b, "- Ticket: `%s`\n", e.TicketID)
	}
	if e.CreatedBy != "" {
		fmt.Fprintf(&b, "- Created by: %s\n", e.CreatedBy)
	}
	fmt.Fprintf(&b, "- Created at: %s\n\n", e.CreatedAt.UTC().Format(time.RFC3339))

	b.WriteString("## Summary\n\n")
	if strings.TrimSpace(e.Summary) == "" {
		b.WriteString("_No summary provided._\n\n")
	} else {
		b.WriteString(strings.TrimSpace(e.Summary))
		b.WriteString("\n\n")
	}

	b.WriteString("## Snapshots\n\n")
	if len(e.SnapshotIDs) == 0 {
		b.WriteString("_No snapshots attached._\n")
	}
	for _, id := range e.SnapshotIDs {
		fmt.Fprintf(&b, "- `%s`\n", id)
	}
	return b.String()
}

// EvidenceReport renders an evidence case to HTML. Raw HTML in the summary
// is not passed through.
func EvidenceReport(e EvidenceCase) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(EvidenceMarkdown(e)), &buf); err != nil {
		return nil, fmt.Errorf("rendering evidence case %s: %w", e.ID, err)
	}
	return buf.Bytes(), nil
}
