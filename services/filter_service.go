package services

import (
	"context"
	"time"

	"blindmatch_server/detector"
	"blindmatch_server/models"

	"go.uber.org/zap"
)

// Verdict is one detector's decision for a message.
type Verdict int

const (
	// VerdictDefer passes the message to the next tier.
	VerdictDefer Verdict = iota
	// VerdictAllow is a decisive "no identity leak here".
	VerdictAllow
	// VerdictBlock is a decisive "this leaks identity".
	VerdictBlock
)

// MessageDetector is one tier of the filter chain. A tier either decides or
// defers; new tiers slot into the chain without touching existing ones.
type MessageDetector interface {
	Name() string
	Inspect(ctx context.Context, text string) (models.FilterResult, Verdict)
}

// FilterService runs every outbound message through the detector chain:
// safe-phrase allowlist, quick heuristic check, full pattern detection, then
// the optional remote classifier for inconclusive messages. The chain runs
// inline on the send path; only the final tier may touch the network and it
// is bounded by an explicit timeout.
type FilterService struct {
	chain  []MessageDetector
	audit  AuditStore
	logger *zap.Logger
}

// NewFilterService assembles the tier chain. classifier may be nil, in which
// case inconclusive messages resolve to the local pattern result.
func NewFilterService(rules *detector.Rules, classifier Classifier, classifierTimeout time.Duration, audit AuditStore, logger *zap.Logger) *FilterService {
	chain := []MessageDetector{
		&safePhraseDetector{rules: rules},
		&quickCheckDetector{rules: rules},
		&patternDetector{rules: rules},
	}
	if classifier != nil {
		chain = append(chain, &classifierDetector{
			classifier: classifier,
			rules:      rules,
			timeout:    classifierTimeout,
			logger:     logger,
		})
	}
	return &FilterService{chain: chain, audit: audit, logger: logger}
}

// FilterMessage decides whether text may be delivered. A tier failure never
// blocks delivery outright: the pipeline falls back to the last local result,
// which is still a real pattern filter.
func (s *FilterService) FilterMessage(ctx context.Context, text string) models.FilterResult {
	last := models.FilterResult{SanitizedText: text}

	for _, tier := range s.chain {
		result, verdict := tier.Inspect(ctx, text)
		result.Tier = tier.Name()
		switch verdict {
		case VerdictAllow, VerdictBlock:
			s.logger.Debug("filter decided",
				zap.String("tier", tier.Name()),
				zap.Bool("blocked", result.Blocked),
				zap.Int("findings", len(result.Findings)))
			return result
		case VerdictDefer:
			if len(result.Findings) > 0 {
				last = result
			}
		}
	}

	s.logger.Debug("filter chain inconclusive, using last local result",
		zap.String("tier", last.Tier),
		zap.Int("findings", len(last.Findings)))
	return last
}

// FilterForDelivery filters a message on the send path and, when it blocks,
// appends an audit record (categories only, never the text).
func (s *FilterService) FilterForDelivery(ctx context.Context, matchID, senderID, text string) models.FilterResult {
	result := s.FilterMessage(ctx, text)
	if !result.Blocked || s.audit == nil {
		return result
	}

	record := models.BlockedMessageAudit{
		MatchID:           matchID,
		BlockedAt:         time.Now().UTC().Format(time.RFC3339Nano),
		SenderID:          senderID,
		Categories:        result.Categories(),
		OverallConfidence: result.OverallConfidence,
		Tier:              result.Tier,
	}
	if err := s.audit.AppendBlocked(ctx, record); err != nil {
		s.logger.Warn("failed to append blocked-message audit record",
			zap.String("match_id", matchID), zap.Error(err))
	}
	return result
}

// safePhraseDetector short-circuits messages that fully match the generic
// allowlist. Identity protection only: flirting, explicit content and
// profanity always pass here or defer, never block.
type safePhraseDetector struct {
	rules *detector.Rules
}

func (d *safePhraseDetector) Name() string { return "safePhrase" }

func (d *safePhraseDetector) Inspect(_ context.Context, text string) (models.FilterResult, Verdict) {
	if d.rules.IsSafePhrase(text) {
		return models.FilterResult{SanitizedText: text}, VerdictAllow
	}
	return models.FilterResult{SanitizedText: text}, VerdictDefer
}

// quickCheckDetector allows the common case of ordinary conversation to skip
// full detection: no high-precision pattern hit means a decisive allow.
type quickCheckDetector struct {
	rules *detector.Rules
}

func (d *quickCheckDetector) Name() string { return "quickCheck" }

func (d *quickCheckDetector) Inspect(_ context.Context, text string) (models.FilterResult, Verdict) {
	if !d.rules.QuickCheck(text) {
		return models.FilterResult{SanitizedText: text}, VerdictAllow
	}
	return models.FilterResult{SanitizedText: text}, VerdictDefer
}

// patternDetector runs the full multi-language rule set. Confident findings
// block; zero findings allow; weak signal defers to the remote classifier.
type patternDetector struct {
	rules *detector.Rules
}

func (d *patternDetector) Name() string { return "patterns" }

func (d *patternDetector) Inspect(_ context.Context, text string) (models.FilterResult, Verdict) {
	findings := d.rules.Detect(text)
	if len(findings) == 0 {
		return models.FilterResult{SanitizedText: text}, VerdictAllow
	}

	blocked, overall := d.rules.Evaluate(findings)
	result := models.FilterResult{
		Blocked:           blocked,
		Findings:          findings,
		OverallConfidence: overall,
		SanitizedText:     detector.Sanitize(text, findings, d.rules.Placeholder()),
	}
	if blocked {
		return result, VerdictBlock
	}
	return result, VerdictDefer
}

// classifierDetector consults the remote text classifier for messages the
// patterns found suspicious but not conclusive. Timeouts and errors defer
// back to the tier-3 result rather than holding up delivery.
type classifierDetector struct {
	classifier Classifier
	rules      *detector.Rules
	timeout    time.Duration
	logger     *zap.Logger
}

func (d *classifierDetector) Name() string { return "classifier" }

func (d *classifierDetector) Inspect(ctx context.Context, text string) (models.FilterResult, Verdict) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	verdict, err := d.classifier.Classify(callCtx, text)
	if err != nil {
		d.logger.Warn("remote classifier unavailable, falling back to pattern result", zap.Error(err))
		return models.FilterResult{SanitizedText: text}, VerdictDefer
	}

	if !verdict.Flagged {
		return models.FilterResult{SanitizedText: text}, VerdictAllow
	}
	if verdict.Confidence < d.rules.BlockThreshold() {
		return models.FilterResult{SanitizedText: text}, VerdictDefer
	}

	result := models.FilterResult{
		Blocked:           true,
		OverallConfidence: verdict.Confidence,
		SanitizedText:     text,
	}
	for _, category := range verdict.Categories {
		result.Findings = append(result.Findings, models.PIIFinding{
			Category:   category,
			Confidence: verdict.Confidence,
		})
	}
	if len(result.Findings) == 0 {
		result.Findings = []models.PIIFinding{{
			Category:   models.PIICategoryOther,
			Confidence: verdict.Confidence,
		}}
	}
	return result, VerdictBlock
}
