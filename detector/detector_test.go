package detector

import (
	"os"
	"testing"

	"blindmatch_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileDefaults(t *testing.T) *Rules {
	t.Helper()
	rules, err := Compile(DefaultRuleSet())
	require.NoError(t, err)
	return rules
}

func TestIsSafePhrase(t *testing.T) {
	rules := compileDefaults(t)

	safe := []string{
		"hey",
		"Hello!",
		"how are you doing",
		"I live in a big city",
		"I'm an engineer",
		"I work in tech",
		"you're really attractive",
		"that's fucking awesome",
		"lol",
		"Thanks so much!",
		"tell me about yourself",
	}
	for _, msg := range safe {
		assert.True(t, rules.IsSafePhrase(msg), "expected allowlisted: %q", msg)
	}

	notSafe := []string{
		"my name is Sarah",
		"I work at Google",
		"that's awesome, add me on insta",
	}
	for _, msg := range notSafe {
		assert.False(t, rules.IsSafePhrase(msg), "expected not allowlisted: %q", msg)
	}
}

func TestQuickCheckSkipsOrdinaryConversation(t *testing.T) {
	rules := compileDefaults(t)

	ordinary := []string{
		"You have beautiful eyes",
		"what kind of music are you into?",
		"I had such a long day, tired now",
		"do you like hiking or more of a movie person?",
	}
	for _, msg := range ordinary {
		assert.False(t, rules.QuickCheck(msg), "expected quick check miss: %q", msg)
	}

	suspicious := []string{
		"my name is Sarah",
		"call 9876543210",
		"add me on instagram @handle",
		"reach me at foo@bar.com",
		"i work at that startup",
		"five five five one two three four",
	}
	for _, msg := range suspicious {
		assert.True(t, rules.QuickCheck(msg), "expected quick check hit: %q", msg)
	}
}

func TestDetectCategories(t *testing.T) {
	rules := compileDefaults(t)

	tests := []struct {
		name     string
		text     string
		category string
		blocked  bool
	}{
		{"name intro", "My name is Sarah", models.PIICategoryName, true},
		{"call me", "you can call me Emma btw", models.PIICategoryName, true},
		{"spanish name intro", "me llamo Sofia", models.PIICategoryName, true},
		{"digit phone", "call 9876543210", models.PIICategoryPhone, true},
		{"formatted phone", "text me at 555-014-2368 later", models.PIICategoryPhone, true},
		{"spelled phone", "nine eight seven six five four three two", models.PIICategoryPhone, true},
		{"spanish spelled phone", "cinco cinco cinco cuatro tres dos", models.PIICategoryPhone, true},
		{"email", "write me at sarah.jones@gmail.com", models.PIICategoryEmail, true},
		{"handle with platform", "add me on instagram @handle", models.PIICategoryHandle, true},
		{"bare handle", "it's @sarah.xo obviously", models.PIICategoryHandle, true},
		{"url", "check www.mysite.com/about", models.PIICategoryURL, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := rules.Detect(tt.text)
			require.NotEmpty(t, findings, "expected findings in %q", tt.text)

			categories := map[string]bool{}
			for _, f := range findings {
				categories[f.Category] = true
			}
			assert.True(t, categories[tt.category],
				"expected category %s in %v for %q", tt.category, categories, tt.text)

			blocked, _ := rules.Evaluate(findings)
			assert.Equal(t, tt.blocked, blocked, "blocked mismatch for %q", tt.text)
		})
	}
}

func TestDetectPlatformMentionWithoutHandleStaysWeak(t *testing.T) {
	rules := compileDefaults(t)

	// a platform keyword followed by ordinary words is a bare mention, not a
	// handle exchange
	findings := rules.Detect("i deleted my instagram last year")
	require.Len(t, findings, 1)
	assert.Equal(t, models.PIICategoryHandle, findings[0].Category)
	assert.Equal(t, "instagram", findings[0].Text)
	assert.InDelta(t, 0.60, findings[0].Confidence, 1e-9)

	blocked, _ := rules.Evaluate(findings)
	assert.False(t, blocked)

	// an @-token or an explicit connector still reads as a handle
	for _, msg := range []string{
		"add me on instagram @sarah.xo",
		"my insta is sarah_k",
		"snapchat: sarahk99",
	} {
		findings := rules.Detect(msg)
		require.NotEmpty(t, findings, "expected findings in %q", msg)
		blocked, _ := rules.Evaluate(findings)
		assert.True(t, blocked, "expected block for %q", msg)
	}
}

func TestDetectCoLocationRules(t *testing.T) {
	rules := compileDefaults(t)

	// employer/school names count only next to an employment/enrollment verb
	findings := rules.Detect("I work at Initech Systems")
	require.NotEmpty(t, findings)
	assert.Equal(t, models.PIICategoryWorkplace, findings[0].Category)
	assert.Equal(t, "Initech Systems", findings[0].Text)

	findings = rules.Detect("I study at Stanford")
	require.NotEmpty(t, findings)
	assert.Equal(t, models.PIICategorySchool, findings[0].Category)

	// a bare mention is not an employment statement
	assert.Empty(t, rules.Detect("Initech stock is doing well lately"))
}

func TestDetectGuardsAgainstFalsePositiveNames(t *testing.T) {
	rules := compileDefaults(t)

	// "call me crazy" is an idiom, not an introduction
	assert.Empty(t, rules.Detect("Call me Crazy but I love rainy days"))
	// capitalized job titles are not dictionary names
	assert.Empty(t, rules.Detect("An Engineer walks into a bar"))
}

func TestDetectOffsetsMatchText(t *testing.T) {
	rules := compileDefaults(t)

	text := "ok so my name is Sarah and my email is s@example.com"
	for _, f := range rules.Detect(text) {
		assert.Equal(t, f.Text, text[f.StartOffset:f.EndOffset])
	}
}

func TestDedupePrefersStrongerFinding(t *testing.T) {
	rules := compileDefaults(t)

	// the email span must not additionally surface as a handle or URL
	findings := rules.Detect("reach me at sarah.jones@gmail.com")
	require.Len(t, findings, 1)
	assert.Equal(t, models.PIICategoryEmail, findings[0].Category)
}

func TestEvaluateCombinedThreshold(t *testing.T) {
	rules := compileDefaults(t)

	// two weak-ish findings in one message add up past the combined threshold
	findings := rules.Detect("I'm Sarah, come by apt 12 sometime")
	require.GreaterOrEqual(t, len(findings), 2)

	blocked, overall := rules.Evaluate(findings)
	assert.True(t, blocked)
	assert.Greater(t, overall, 0.0)

	// a single sub-threshold finding stays inconclusive
	single := rules.Detect("I work at Initech")
	require.Len(t, single, 1)
	blocked, _ = rules.Evaluate(single)
	assert.False(t, blocked)
}

func TestLoadRuleSetOverrides(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/rules.yaml"
	content := []byte("block_threshold: 0.5\nplaceholder: \"[hidden]\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	set, err := LoadRuleSet(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, set.BlockThreshold)
	assert.Equal(t, "[hidden]", set.Placeholder)
	// untouched keys keep defaults
	assert.NotEmpty(t, set.SafePhrases)
	assert.NotEmpty(t, set.FirstNames)
}

func TestCompileRejectsBadPattern(t *testing.T) {
	set := DefaultRuleSet()
	set.SafePhrases = append(set.SafePhrases, `((`)
	_, err := Compile(set)
	assert.Error(t, err)
}
