package journal

import (
	"regexp"
	"strings"
)

// maxSummary caps the stored command or path text.
const maxSummary = 200

var sensitiveFlags = map[string]struct{}{
	"--token":    {},
	"--password": {},
	"--api-key":  {},
	"--secret":   {},
}

// sensitiveAssign matches NAME=value pairs whose name looks like a secret.
var sensitiveAssign = regexp.MustCompile(`(?i)\b([A-Z0-9_]*(?:TOKEN|SECRET|PASSWORD|PASSWD|API_KEY|APIKEY)[A-Z0-9_]*)=("[^"]*"|'[^']*'|\S+)`)

// Redact masks secret-looking flag values and variable assignments in a
// command line and truncates it for storage.
func Redact(command string) string {
	command = sensitiveAssign.ReplaceAllString(command, "$1=<redacted>")

	fields := strings.Fields(command)
	out := make([]string, 0, len(fields))
	skipNext := false
	for _, f := range fields {
		if skipNext {
			out = append(out, "<redacted>")
			skipNext = false
			continue
		}
		if _, ok := sensitiveFlags[f]; ok {
			out = append(out, f)
			skipNext = true
			continue
		}
		if key, _, ok := strings.Cut(f, "="); ok {
			if _, ok := sensitiveFlags[key]; ok {
				out = append(out, key+"=<redacted>")
				continue
			}
		}
		out = append(out, f)
	}
	if skipNext {
		out = append(out, "<redacted>")
	}

	return truncate(strings.Join(out, " "), maxSummary)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
