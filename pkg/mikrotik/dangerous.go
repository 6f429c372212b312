package mikrotik

import "strings"

var dangerousPatterns = []string{
	"reset-configuration",
	"format",
	"write erase",
	"/system reset-configuration",
	"/disk format",
	"/interface set [find",
	"remove [find",
}

// DetectDangerous returns the dangerous patterns found in a RouterOS
// script, in pattern order. Matching is case insensitive.
func DetectDangerous(config string) []string {
	lower := strings.ToLower(config)
	var found []string
	for _, p := range dangerousPatterns {
		if strings.Contains(lower, p) {
			found = append(found, p)
		}
	}
	return found
}

// shutsInterfaces reports whether the script disables any interface.
func shutsInterfaces(config string) bool {
	for _, line := range scriptLines(config) {
		if !strings.HasPrefix(line, "/interface") {
			continue
		}
		if strings.Contains(line, " disable ") || strings.HasSuffix(line, " disable") ||
			strings.Contains(line, "disabled=yes") {
			return true
		}
	}
	return false
}
