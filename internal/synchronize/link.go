package synchronize

import (
	"regexp"
	"strings"
)

// FindTaskID returns the first Asana task id linked in body after
// triggerPhrase, or "" when there is none
func FindTaskID(triggerPhrase, body string) string {
	pattern := `(?i)` + regexp.QuoteMeta(triggerPhrase) +
		`\s*https://app\.asana\.com/\d+/(\d+)/(\d+)`
	re := regexp.MustCompile(pattern)

	match := re.FindStringSubmatch(body)
	if match == nil {
		return ""
	}
	return match[2]
}

// Description extracts the "Why?" section of a pull request body, falling
// back to the whole body
func Description(body string) string {
	_, after, found := strings.Cut(body, "Why?")
	if !found {
		return strings.TrimSpace(body)
	}
	section, _, _ := strings.Cut(strings.TrimSpace(after), "###")
	return strings.TrimSpace(section)
}
