package services

import (
	"regexp"
	"strings"
)

// Upstream speaker data routinely carries internal identifiers where a company
// name should be. The thresholds below are an inherited data-quality patch;
// keep them as-is.
var (
	uuidRe   = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	digitsRe = regexp.MustCompile(`^\d+$`)
)

func looksLikeUUID(s string) bool {
	return uuidRe.MatchString(strings.TrimSpace(s))
}

func looksLikeBareID(s string) bool {
	trimmed := strings.TrimSpace(s)
	return digitsRe.MatchString(trimmed) || len(trimmed) < 3
}

// cleanCompanyName returns nil when the value is garbage rather than a
// plausible company name.
func cleanCompanyName(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || looksLikeUUID(trimmed) || looksLikeBareID(trimmed) {
		return nil
	}
	return &trimmed
}
