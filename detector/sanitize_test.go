package detector

import (
	"testing"

	"blindmatch_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeIdentityOnNoFindings(t *testing.T) {
	text := "just a normal message"
	assert.Equal(t, text, Sanitize(text, nil, "[redacted]"))
	assert.Equal(t, text, Sanitize(text, []models.PIIFinding{}, "[redacted]"))
}

func TestSanitizeReplacesSpans(t *testing.T) {
	rules := compileDefaults(t)

	text := "my name is Sarah, email me at s@example.com"
	findings := rules.Detect(text)
	require.NotEmpty(t, findings)

	out := Sanitize(text, findings, rules.Placeholder())
	assert.NotContains(t, out, "Sarah")
	assert.NotContains(t, out, "s@example.com")
	assert.Contains(t, out, "my name is")
	assert.Contains(t, out, "[redacted]")
}

func TestSanitizeIsIdempotent(t *testing.T) {
	rules := compileDefaults(t)

	text := "add me on instagram @sarah.xo or call 9876543210"
	once := Sanitize(text, rules.Detect(text), rules.Placeholder())
	twice := Sanitize(once, rules.Detect(once), rules.Placeholder())
	assert.Equal(t, once, twice)
}

func TestSanitizePreservesSurroundingText(t *testing.T) {
	text := "keep THIS and THAT"
	findings := []models.PIIFinding{
		{Category: models.PIICategoryOther, Text: "THIS", StartOffset: 5, EndOffset: 9, Confidence: 0.9},
		{Category: models.PIICategoryOther, Text: "THAT", StartOffset: 14, EndOffset: 18, Confidence: 0.9},
	}
	assert.Equal(t, "keep [x] and [x]", Sanitize(text, findings, "[x]"))
}

func TestSanitizeHandlesOverlappingSpans(t *testing.T) {
	text := "0123456789"
	findings := []models.PIIFinding{
		{StartOffset: 2, EndOffset: 8, Confidence: 0.9},
		{StartOffset: 5, EndOffset: 9, Confidence: 0.9},
	}
	out := Sanitize(text, findings, "[x]")
	assert.Equal(t, "01[x][x]9", out)
}

func TestSanitizeIgnoresInvalidOffsets(t *testing.T) {
	text := "short"
	findings := []models.PIIFinding{
		{StartOffset: -1, EndOffset: 3},
		{StartOffset: 2, EndOffset: 99},
		{StartOffset: 4, EndOffset: 4},
	}
	assert.Equal(t, text, Sanitize(text, findings, "[x]"))
}
