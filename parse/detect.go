package parse

import (
	"strings"

	"github.com/tidwall/gjson"
)

// separators are the candidate field separators for delimited files, in
// the order they are tried.
var separators = []string{",", "\t", ";"}

// Detect classifies file content by shape. A full-document JSON check runs
// first; failing that, the first non-empty line is scanned for a known
// field separator. Unknown is a valid terminal answer, never an error.
func Detect(content []byte) Format {
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return FormatUnknown
	}

	if gjson.Valid(trimmed) {
		return FormatStructured
	}

	line := firstNonEmptyLine(trimmed)
	for _, sep := range separators {
		if strings.Contains(line, sep) {
			return FormatDelimited
		}
	}

	return FormatUnknown
}

func firstNonEmptyLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// splitAndTrim splits a line on the separator and strips surrounding
// whitespace from every field.
func splitAndTrim(input, sep string) []string {
	items := strings.Split(input, sep)
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}
