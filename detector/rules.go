package detector

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSet is the full tunable configuration of the detector: thresholds, the
// safe-phrase allowlist, quick-check patterns and every tier-3 pattern table.
// It is plain data so deployments can swap it from a YAML file without touching
// the matching or lifecycle code.
type RuleSet struct {
	BlockThreshold    float64 `yaml:"block_threshold"`
	CombinedThreshold float64 `yaml:"combined_threshold"`
	Placeholder       string  `yaml:"placeholder"`

	SafePhrases   []string `yaml:"safe_phrases"`   // full-message regexes, case-insensitive
	QuickPatterns []string `yaml:"quick_patterns"` // high-precision anywhere-in-message regexes

	FirstNames    []string            `yaml:"first_names"`
	JobTitleGuard []string            `yaml:"job_title_guard"`
	NumberWords   map[string][]string `yaml:"number_words"` // language → digit words
	Platforms     []string            `yaml:"platforms"`

	EmploymentVerbs []string `yaml:"employment_verbs"`
	SchoolVerbs     []string `yaml:"school_verbs"`

	Confidence map[string]float64 `yaml:"confidence"` // pattern key → confidence
}

// LoadRuleSet reads rule overrides from a YAML file on top of the built-in
// defaults. Keys absent from the file keep their default values.
func LoadRuleSet(path string) (RuleSet, error) {
	set := DefaultRuleSet()

	data, err := os.ReadFile(path)
	if err != nil {
		return set, fmt.Errorf("failed to read rule set file: %w", err)
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return set, fmt.Errorf("failed to decode rule set file: %w", err)
	}
	return set, nil
}

// Rules is a compiled RuleSet ready for matching.
type Rules struct {
	set RuleSet

	safe  []*regexp.Regexp
	quick []*regexp.Regexp

	email      *regexp.Regexp
	url        *regexp.Regexp
	handle     *regexp.Regexp
	digitPhone *regexp.Regexp
	address    *regexp.Regexp
	unit       *regexp.Regexp
	nameIntro  *regexp.Regexp
	employment *regexp.Regexp
	school     *regexp.Regexp
	platform   *regexp.Regexp
	word       *regexp.Regexp

	nameDict    map[string]bool
	guard       map[string]bool
	numberWords map[string]bool
}

// Compile validates and compiles a RuleSet. The returned Rules value is
// read-only and safe for concurrent use.
func Compile(set RuleSet) (*Rules, error) {
	r := &Rules{
		set:         set,
		nameDict:    map[string]bool{},
		guard:       map[string]bool{},
		numberWords: map[string]bool{},
	}

	for _, p := range set.SafePhrases {
		re, err := regexp.Compile(`(?i)^(?:` + p + `)$`)
		if err != nil {
			return nil, fmt.Errorf("invalid safe phrase %q: %w", p, err)
		}
		r.safe = append(r.safe, re)
	}
	for _, p := range set.QuickPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid quick pattern %q: %w", p, err)
		}
		r.quick = append(r.quick, re)
	}

	for _, n := range set.FirstNames {
		r.nameDict[strings.ToLower(n)] = true
	}
	for _, g := range set.JobTitleGuard {
		r.guard[strings.ToLower(g)] = true
	}
	for _, words := range set.NumberWords {
		for _, w := range words {
			r.numberWords[strings.ToLower(w)] = true
		}
	}

	var err error
	if r.email, err = regexp.Compile(emailPattern); err != nil {
		return nil, err
	}
	if r.url, err = regexp.Compile(urlPattern); err != nil {
		return nil, err
	}
	if r.handle, err = regexp.Compile(handlePattern); err != nil {
		return nil, err
	}
	if r.digitPhone, err = regexp.Compile(digitPhonePattern); err != nil {
		return nil, err
	}
	if r.address, err = regexp.Compile(addressPattern); err != nil {
		return nil, err
	}
	if r.unit, err = regexp.Compile(unitPattern); err != nil {
		return nil, err
	}
	if r.nameIntro, err = regexp.Compile(nameIntroPattern); err != nil {
		return nil, err
	}
	if r.word, err = regexp.Compile(`[\p{L}']+`); err != nil {
		return nil, err
	}

	if r.employment, err = compileVerbPhrase(set.EmploymentVerbs); err != nil {
		return nil, fmt.Errorf("invalid employment verbs: %w", err)
	}
	if r.school, err = compileVerbPhrase(set.SchoolVerbs); err != nil {
		return nil, fmt.Errorf("invalid school verbs: %w", err)
	}

	if len(set.Platforms) > 0 {
		// a trailing token is only a handle when @-prefixed or introduced by
		// an explicit connector; a platform keyword followed by an ordinary
		// word stays a bare mention
		p := `(?i)\b(?:` + strings.Join(set.Platforms, "|") + `)\b` +
			`(?:\s*:\s*(@?[A-Za-z0-9_.]{3,})` +
			`|\s+(?:is|at|me)\s+(@?[A-Za-z0-9_.]{3,})` +
			`|\s+(@[A-Za-z0-9_.]{3,}))?`
		if r.platform, err = regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("invalid platform list: %w", err)
		}
	}

	return r, nil
}

// compileVerbPhrase builds a "verb + proper-noun phrase" pattern; the
// co-location requirement is what keeps bare company or school mentions from
// being flagged.
func compileVerbPhrase(verbs []string) (*regexp.Regexp, error) {
	if len(verbs) == 0 {
		return nil, nil
	}
	// verbs match case-insensitively; the capture stays case-sensitive so only
	// capitalized phrases (a named organization, not a noun) qualify
	p := `\b(?i:` + strings.Join(verbs, "|") + `)\s+(?i:the\s+)?`
	p += `([A-Z][\w&.'-]*(?:\s+[A-Z][\w&.'-]*){0,3})`
	return regexp.Compile(p)
}

// confidence looks up a pattern key, falling back to a conservative default.
func (r *Rules) confidence(key string) float64 {
	if c, ok := r.set.Confidence[key]; ok {
		return c
	}
	return 0.5
}

// Placeholder returns the redaction token for this rule set.
func (r *Rules) Placeholder() string {
	if r.set.Placeholder == "" {
		return "[redacted]"
	}
	return r.set.Placeholder
}

// BlockThreshold returns the single-finding blocking threshold.
func (r *Rules) BlockThreshold() float64 { return r.set.BlockThreshold }

// CombinedThreshold returns the summed-confidence blocking threshold.
func (r *Rules) CombinedThreshold() float64 { return r.set.CombinedThreshold }
