package utils

import (
	"regexp"
	"strings"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes every <...> span; a span ends at the first '>'
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// NormalizeWhitespace collapses whitespace runs into single spaces and trims the ends
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ClearString strips markup and normalizes whitespace
func ClearString(s string) string {
	return NormalizeWhitespace(StripTags(s))
}

// SanitizeField cleans one raw cell. Tags are removed before line breaks are
// looked at, so a cell with line breaks becomes a multi-value with one cleaned
// entry per line, empty lines included.
func SanitizeField(raw string) models.FieldValue {
	stripped := StripTags(raw)
	if !strings.Contains(stripped, "\n") {
		return models.SingleValue(NormalizeWhitespace(stripped))
	}

	lines := strings.Split(stripped, "\n")
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = NormalizeWhitespace(line)
	}
	return models.MultiValue(parts)
}

// SanitizeRow cleans every cell of a row, keeping positions
func SanitizeRow(row []string) []models.FieldValue {
	out := make([]models.FieldValue, len(row))
	for i, cell := range row {
		out[i] = SanitizeField(cell)
	}
	return out
}
