package bot

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timeWords resolves a unit token (single letter, singular, or plural) to a
// duration unit.
var timeWords = map[string]time.Duration{
	"s":       time.Second,
	"second":  time.Second,
	"seconds": time.Second,
	"m":       time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"h":       time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"d":       24 * time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
}

var (
	remindPattern = regexp.MustCompile(`(?i)^remind\s+(.+)\s+in\s+(\d+)\s*(s|m|h|d|seconds?|minutes?|hours?|days?)\s+to\s+(.+)$`)
	listPattern   = regexp.MustCompile(`(?i)^what\s+(?:will you remind|are your reminders)`)
	forgetPattern = regexp.MustCompile(`(?i)^(?:forget|rm|remove)\s+reminder\s+(\d+)$`)
)

// remindCommand is a parsed "remind <who> in <n><unit> to <what>" request.
type remindCommand struct {
	target   string
	duration time.Duration
	text     string
}

// resolveUnit maps a unit token to its duration. The token must already be
// validated by the remind pattern; unknown tokens report false.
func resolveUnit(token string) (time.Duration, bool) {
	d, ok := timeWords[strings.ToLower(token)]
	return d, ok
}

// parseRemind parses a remind command. It reports false when the text is not
// a remind command at all or its quantity does not fit an int.
func parseRemind(text string) (remindCommand, bool) {
	m := remindPattern.FindStringSubmatch(text)
	if m == nil {
		return remindCommand{}, false
	}

	amount, err := strconv.Atoi(m[2])
	if err != nil {
		return remindCommand{}, false
	}
	unit, ok := resolveUnit(m[3])
	if !ok {
		return remindCommand{}, false
	}

	return remindCommand{
		target:   strings.TrimSpace(m[1]),
		duration: time.Duration(amount) * unit,
		text:     strings.TrimSpace(m[4]),
	}, true
}

// parseForget parses a "forget reminder <id>" command, reporting false when
// the text is not one.
func parseForget(text string) (int64, bool) {
	m := forgetPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// isListCommand reports whether the text asks for the pending reminders.
func isListCommand(text string) bool {
	return listPattern.MatchString(text)
}

// stripAddress removes a leading "<name>", "<name>:", "<name>," or "@<name>"
// so commands addressed to the bot by name still parse. With an empty name
// the text passes through unchanged.
func stripAddress(text, name string) string {
	if name == "" {
		return text
	}

	rest := strings.TrimPrefix(text, "@")
	if len(rest) < len(name) || !strings.EqualFold(rest[:len(name)], name) {
		return text
	}
	rest = rest[len(name):]

	trimmed := strings.TrimLeft(rest, ":, ")
	if trimmed == rest {
		// "remindderize" must not match a bot named "remindd".
		return text
	}
	return trimmed
}
