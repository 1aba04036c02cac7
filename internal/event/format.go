package event

import (
	"fmt"
	"sort"
	"strings"
)

// Format renders one event as a human-readable line for playout logs.
func Format(e Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-24s", e.Type)
	if e.Actor != "" {
		fmt.Fprintf(&sb, " actor=%s", e.Actor)
	}
	keys := make([]string, 0, len(e.Payload))
	for k := range e.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Payload[k])
	}
	return sb.String()
}

// FormatAll renders a slice of events as a multi-line string.
func FormatAll(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(Format(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}
