// Package detector implements pattern-based detection of identity-revealing
// content in chat messages. It is pure computation: all tunables come in via
// the compiled RuleSet, and no function here performs I/O.
//
// The detector protects identity only. Flirtation, explicit content and
// profanity are out of scope and must never be suppressed.
package detector

import (
	"sort"
	"strings"
	"unicode"

	"blindmatch_server/models"
)

// IsSafePhrase reports whether the whole message matches the generic-phrase
// allowlist. Trailing punctuation is ignored.
func (r *Rules) IsSafePhrase(text string) bool {
	normalized := strings.TrimSpace(text)
	normalized = strings.TrimRight(normalized, " \t!?.,~")
	if normalized == "" {
		return true
	}
	for _, re := range r.safe {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// QuickCheck reports whether any high-precision pattern appears in the text.
// A false result means full detection can be skipped for this message.
func (r *Rules) QuickCheck(text string) bool {
	for _, re := range r.quick {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Detect runs the full pattern set and returns all findings, deduplicated and
// ordered by start offset.
func (r *Rules) Detect(text string) []models.PIIFinding {
	var findings []models.PIIFinding

	findings = append(findings, r.findAll(text, r.email, models.PIICategoryEmail, "email")...)
	findings = append(findings, r.findAll(text, r.url, models.PIICategoryURL, "url")...)
	findings = append(findings, r.findAll(text, r.handle, models.PIICategoryHandle, "handle")...)
	findings = append(findings, r.findAll(text, r.digitPhone, models.PIICategoryPhone, "phone")...)
	findings = append(findings, r.findAll(text, r.address, models.PIICategoryAddress, "address")...)
	findings = append(findings, r.findAll(text, r.unit, models.PIICategoryAddress, "unit")...)

	findings = append(findings, r.detectNameIntro(text)...)
	findings = append(findings, r.detectDictionaryNames(text)...)
	findings = append(findings, r.detectSpelledNumbers(text)...)
	findings = append(findings, r.detectPlatforms(text)...)
	findings = append(findings, r.detectCaptured(text, r.employment, models.PIICategoryWorkplace, "workplace")...)
	findings = append(findings, r.detectCaptured(text, r.school, models.PIICategorySchool, "school")...)

	return dedupe(findings)
}

// Evaluate applies the blocking thresholds to a finding set. A single
// confident finding blocks outright; several weaker findings block together
// once their summed confidence crosses the combined threshold.
func (r *Rules) Evaluate(findings []models.PIIFinding) (blocked bool, overall float64) {
	var max, sum float64
	for _, f := range findings {
		if f.Confidence > max {
			max = f.Confidence
		}
		sum += f.Confidence
	}
	overall = max
	if max >= r.BlockThreshold() {
		return true, overall
	}
	if len(findings) > 1 && sum >= r.CombinedThreshold() {
		if sum < 1.0 {
			overall = sum
		} else {
			overall = 1.0
		}
		return true, overall
	}
	return false, overall
}

func (r *Rules) findAll(text string, re interface {
	FindAllStringIndex(string, int) [][]int
}, category, key string) []models.PIIFinding {
	if re == nil {
		return nil
	}
	var findings []models.PIIFinding
	for _, loc := range re.FindAllStringIndex(text, -1) {
		findings = append(findings, models.PIIFinding{
			Category:    category,
			Text:        text[loc[0]:loc[1]],
			StartOffset: loc[0],
			EndOffset:   loc[1],
			Confidence:  r.confidence(key),
		})
	}
	return findings
}

// detectNameIntro flags explicit self-introductions ("my name is X"). Only
// the name itself is reported so sanitization keeps the rest of the sentence.
func (r *Rules) detectNameIntro(text string) []models.PIIFinding {
	var findings []models.PIIFinding
	for _, m := range r.nameIntro.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		if start < 0 {
			continue
		}
		name := text[start:end]
		if r.guard[strings.ToLower(name)] {
			continue
		}
		findings = append(findings, models.PIIFinding{
			Category:    models.PIICategoryName,
			Text:        name,
			StartOffset: start,
			EndOffset:   end,
			Confidence:  r.confidence("nameIntro"),
		})
	}
	return findings
}

// detectDictionaryNames flags capitalized words found in the curated name
// dictionary. The job-title guard keeps generic capitalized nouns out.
func (r *Rules) detectDictionaryNames(text string) []models.PIIFinding {
	var findings []models.PIIFinding
	for _, loc := range r.word.FindAllStringIndex(text, -1) {
		word := text[loc[0]:loc[1]]
		runes := []rune(word)
		if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
			continue
		}
		lower := strings.ToLower(word)
		if !r.nameDict[lower] || r.guard[lower] {
			continue
		}
		findings = append(findings, models.PIIFinding{
			Category:    models.PIICategoryName,
			Text:        word,
			StartOffset: loc[0],
			EndOffset:   loc[1],
			Confidence:  r.confidence("nameDictionary"),
		})
	}
	return findings
}

// detectSpelledNumbers flags runs of four or more spelled-out digits in any
// configured language ("five five five oh one...").
func (r *Rules) detectSpelledNumbers(text string) []models.PIIFinding {
	const minRun = 4

	var findings []models.PIIFinding
	locs := r.word.FindAllStringIndex(text, -1)
	runStart, runLen := -1, 0
	flush := func(endIdx int) {
		if runLen >= minRun {
			start := locs[runStart][0]
			end := locs[endIdx][1]
			findings = append(findings, models.PIIFinding{
				Category:    models.PIICategoryPhone,
				Text:        text[start:end],
				StartOffset: start,
				EndOffset:   end,
				Confidence:  r.confidence("phoneSpelled"),
			})
		}
		runStart, runLen = -1, 0
	}
	for i, loc := range locs {
		if r.numberWords[strings.ToLower(text[loc[0]:loc[1]])] {
			if runStart == -1 {
				runStart = i
			}
			runLen++
			continue
		}
		if runStart != -1 {
			flush(i - 1)
		}
	}
	if runStart != -1 {
		flush(len(locs) - 1)
	}
	return findings
}

// detectPlatforms flags social-platform mentions. A mention followed by a
// handle-like token is a confident handle leak; a bare mention only
// contributes a weak signal.
func (r *Rules) detectPlatforms(text string) []models.PIIFinding {
	if r.platform == nil {
		return nil
	}
	var findings []models.PIIFinding
	for _, m := range r.platform.FindAllStringSubmatchIndex(text, -1) {
		f := models.PIIFinding{
			Category:    models.PIICategoryHandle,
			Text:        text[m[0]:m[1]],
			StartOffset: m[0],
			EndOffset:   m[1],
			Confidence:  r.confidence("platformMention"),
		}
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] >= 0 {
				f.Confidence = r.confidence("handle")
				break
			}
		}
		findings = append(findings, f)
	}
	return findings
}

// detectCaptured reports the captured group of a verb-phrase pattern
// (workplace and school detection).
func (r *Rules) detectCaptured(text string, re interface {
	FindAllStringSubmatchIndex(string, int) [][]int
}, category, key string) []models.PIIFinding {
	if re == nil {
		return nil
	}
	var findings []models.PIIFinding
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		findings = append(findings, models.PIIFinding{
			Category:    category,
			Text:        text[m[2]:m[3]],
			StartOffset: m[2],
			EndOffset:   m[3],
			Confidence:  r.confidence(key),
		})
	}
	return findings
}

// dedupe drops findings whose span lies inside a stronger finding, then
// orders the rest by start offset. Keeps one finding per contested span so an
// email does not also count as a handle and a URL.
func dedupe(findings []models.PIIFinding) []models.PIIFinding {
	if len(findings) < 2 {
		return findings
	}
	kept := make([]bool, len(findings))
	for i := range kept {
		kept[i] = true
	}
	for i := range findings {
		for j := range findings {
			if i == j || !kept[i] || !kept[j] {
				continue
			}
			if contains(findings[j], findings[i]) &&
				(findings[j].Confidence > findings[i].Confidence ||
					(findings[j].Confidence == findings[i].Confidence && j < i)) {
				kept[i] = false
			}
		}
	}
	var out []models.PIIFinding
	for i, f := range findings {
		if kept[i] {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartOffset < out[j].StartOffset
	})
	return out
}

func contains(outer, inner models.PIIFinding) bool {
	return outer.StartOffset <= inner.StartOffset && outer.EndOffset >= inner.EndOffset
}
