package storage

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	bracketChars   = regexp.MustCompile(`[\[\](){}<>]`)
	disallowedChar = regexp.MustCompile(`[^a-z0-9._-]`)
	underscoreRun  = regexp.MustCompile(`_+`)
)

// SanitizeFilename turns an arbitrary file name into a storage-safe one:
// lowercase, whitespace runs become "_", brackets and anything outside
// [a-z0-9._-] are dropped, "_" runs collapse and edge underscores are trimmed.
func SanitizeFilename(name string) string {
	s := strings.ToLower(name)
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = bracketChars.ReplaceAllString(s, "")
	s = disallowedChar.ReplaceAllString(s, "")
	s = underscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ObjectKey builds "<folder>/<unix millis>_<sanitized name>"
func ObjectKey(folder string, at time.Time, name string) string {
	return folder + "/" + strconv.FormatInt(at.UnixMilli(), 10) + "_" + SanitizeFilename(name)
}
