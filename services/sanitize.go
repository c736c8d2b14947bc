package services

import (
	"regexp"
	"strings"

	"github.com/alphabatem/common/context"
)

// SanitizeService scrubs sensitive content from chat transcripts and flags
// contact submissions that look like spam. Both passes are pure functions
// of their input; the service only holds the compiled patterns.
type SanitizeService struct {
	context.DefaultService

	patterns     []redactionPattern
	spamKeywords []string
}

type redactionPattern struct {
	category string
	re       *regexp.Regexp
	tag      string
}

const SANITIZE_SVC = "sanitize_svc"

const (
	CategoryCreditCard = "credit_card"
	CategorySSN        = "ssn"
	CategoryEmail      = "email"
	CategoryPhone      = "phone"
	CategoryCredential = "credential"

	SpamReasonKeyword       = "keyword"
	SpamReasonLinks         = "links"
	SpamReasonRepeatedChars = "repeated_chars"

	maxSpamLinks        = 3
	maxRepeatedCharRuns = 2
	repeatedRunLength   = 5
)

func (svc SanitizeService) Id() string {
	return SANITIZE_SVC
}

func (svc *SanitizeService) Configure(ctx *context.Context) error {
	svc.initRules()
	return svc.DefaultService.Configure(ctx)
}

func (svc *SanitizeService) initRules() {
	// Order matters: the credential pattern would otherwise consume text the
	// narrower patterns should tag, and SSN must win over the generic phone
	// shape. Replacement tags contain no digits or '@', which is what makes
	// Redact idempotent.
	svc.patterns = []redactionPattern{
		{CategoryCredential, regexp.MustCompile(`(?i)\b(password|passwd|token|api[_-]?key|secret|bearer)\s*[=:]\s*\S+`), "[REDACTED_CREDENTIAL]"},
		{CategoryCreditCard, regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`), "[REDACTED_CC]"},
		{CategorySSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[REDACTED_SSN]"},
		{CategoryEmail, regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`), "[REDACTED_EMAIL]"},
		{CategoryPhone, regexp.MustCompile(`\+?\d[\d ().-]{7,}\d`), "[REDACTED_PHONE]"},
	}

	svc.spamKeywords = []string{
		"viagra", "cialis", "casino", "lottery", "jackpot",
		"free money", "make money fast", "work from home",
		"crypto giveaway", "forex signals",
		"seo services", "buy backlinks", "cheap followers",
	}
}

func (svc *SanitizeService) Start() error {
	return nil
}

// ==================== REDACTION ====================

// Detect reports which sensitive-content categories appear in text, in
// pattern order, without mutating anything. Used for logging and metrics.
func (svc *SanitizeService) Detect(text string) []string {
	var categories []string
	for _, p := range svc.patterns {
		if p.re.MatchString(text) {
			categories = append(categories, p.category)
		}
	}
	return categories
}

// Redact replaces every sensitive match with its placeholder tag. Running
// Redact over already-redacted text is a no-op.
func (svc *SanitizeService) Redact(text string) string {
	for _, p := range svc.patterns {
		text = p.re.ReplaceAllString(text, p.tag)
	}
	return text
}

// ==================== SPAM HEURISTIC ====================

// SpamCheckResult reports whether a submission was flagged and which check
// fired first (keywords, then links, then repeated characters).
type SpamCheckResult struct {
	IsSpam bool   `json:"is_spam"`
	Reason string `json:"reason,omitempty"`
}

// CheckSpam evaluates the three independent heuristics in a fixed order so
// the reported reason is deterministic.
func (svc *SanitizeService) CheckSpam(text string) SpamCheckResult {
	lower := strings.ToLower(text)

	for _, keyword := range svc.spamKeywords {
		if strings.Contains(lower, keyword) {
			return SpamCheckResult{IsSpam: true, Reason: SpamReasonKeyword}
		}
	}

	links := strings.Count(lower, "http://") + strings.Count(lower, "https://")
	if links > maxSpamLinks {
		return SpamCheckResult{IsSpam: true, Reason: SpamReasonLinks}
	}

	if countRepeatedRuns(text, repeatedRunLength) > maxRepeatedCharRuns {
		return SpamCheckResult{IsSpam: true, Reason: SpamReasonRepeatedChars}
	}

	return SpamCheckResult{}
}

// countRepeatedRuns counts maximal runs of one rune repeated at least
// minRun times. A manual scan because RE2 has no backreferences.
func countRepeatedRuns(text string, minRun int) int {
	runs := 0
	var prev rune
	length := 0

	for _, r := range text {
		if r == prev {
			length++
		} else {
			if length >= minRun {
				runs++
			}
			prev = r
			length = 1
		}
	}
	if length >= minRun {
		runs++
	}

	return runs
}
