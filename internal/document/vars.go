package document

import (
	"strings"
	"time"
)

// ExpandVars performs simple placeholder substitutions for template strings
// used in config-provided text fields (e.g., the report title).
//
// Supported variables:
// - {.CurrentDate} => formatted as DD-MM-YYYY (local time)
// - {.Topic}       => the report topic
func ExpandVars(s, topic string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	out := strings.ReplaceAll(s, "{.CurrentDate}", now.Format(DateLayout))
	out = strings.ReplaceAll(out, "{.Topic}", topic)
	return out
}
