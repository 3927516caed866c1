package alert

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity is an ordinal log level. Values follow the Monolog/RFC 5424 scale.
type Severity int

const (
	SeverityDebug     Severity = 100
	SeverityInfo      Severity = 200
	SeverityNotice    Severity = 250
	SeverityWarning   Severity = 300
	SeverityError     Severity = 400
	SeverityCritical  Severity = 500
	SeverityAlert     Severity = 550
	SeverityEmergency Severity = 600
)

var severityNames = map[Severity]string{
	SeverityDebug:     "DEBUG",
	SeverityInfo:      "INFO",
	SeverityNotice:    "NOTICE",
	SeverityWarning:   "WARNING",
	SeverityError:     "ERROR",
	SeverityCritical:  "CRITICAL",
	SeverityAlert:     "ALERT",
	SeverityEmergency: "EMERGENCY",
}

// String returns the canonical upper-case name.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "SEVERITY(" + strconv.Itoa(int(s)) + ")"
}

// ParseSeverity parses a case-insensitive level name.
// WARN, FATAL and PANIC are accepted as aliases.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "TRACE":
		return SeverityDebug, nil
	case "INFO":
		return SeverityInfo, nil
	case "NOTICE":
		return SeverityNotice, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "ERROR":
		return SeverityError, nil
	case "CRITICAL", "FATAL":
		return SeverityCritical, nil
	case "ALERT":
		return SeverityAlert, nil
	case "EMERGENCY", "PANIC":
		return SeverityEmergency, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

// Emoji maps a canonical severity name to its header symbol.
// Unknown names get "❓".
func Emoji(name string) string {
	switch name {
	case "EMERGENCY":
		return "🚨"
	case "ALERT":
		return "⚠️"
	case "CRITICAL":
		return "🔴"
	case "ERROR":
		return "❌"
	case "WARNING":
		return "⚡"
	case "NOTICE":
		return "📢"
	case "INFO":
		return "ℹ️"
	case "DEBUG":
		return "🐛"
	default:
		return "❓"
	}
}
