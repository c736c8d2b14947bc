package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestSanitizeService() *SanitizeService {
	svc := &SanitizeService{}
	svc.initRules()
	return svc
}

func TestRedactEmail(t *testing.T) {
	svc := newTestSanitizeService()

	out := svc.Redact("reach me at john.doe@example.com thanks")
	assert.Equal(t, "reach me at [REDACTED_EMAIL] thanks", out)
}

func TestRedactCategories(t *testing.T) {
	svc := newTestSanitizeService()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ssn", "my ssn is 123-45-6789 ok", "my ssn is [REDACTED_SSN] ok"},
		{"credit card", "card 4111 1111 1111 1111 exp 12/26", "card [REDACTED_CC] exp 12/26"},
		{"phone", "call +1 (555) 123-4567 anytime", "call [REDACTED_PHONE] anytime"},
		{"credential", "my api_key: sk-abc123xyz please", "my [REDACTED_CREDENTIAL] please"},
		{"clean text", "just a normal message", "just a normal message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Redact(tt.input))
		})
	}
}

func TestRedactIsIdempotent(t *testing.T) {
	svc := newTestSanitizeService()

	input := "email a@b.com, ssn 123-45-6789, password: hunter2, call 555-123-4567"
	once := svc.Redact(input)
	twice := svc.Redact(once)
	assert.Equal(t, once, twice)
}

func TestDetectReportsCategoriesInOrder(t *testing.T) {
	svc := newTestSanitizeService()

	categories := svc.Detect("token=abc123 and mail me at a@b.com")
	assert.Equal(t, []string{CategoryCredential, CategoryEmail}, categories)

	assert.Nil(t, svc.Detect("nothing sensitive here"))
}

func TestCheckSpamKeyword(t *testing.T) {
	svc := newTestSanitizeService()

	result := svc.CheckSpam("Buy VIAGRA now, best prices")
	assert.True(t, result.IsSpam)
	assert.Equal(t, SpamReasonKeyword, result.Reason)
}

func TestCheckSpamLinks(t *testing.T) {
	svc := newTestSanitizeService()

	// Three links is still fine, four crosses the line.
	three := strings.Repeat("see https://x.com ", 3)
	assert.False(t, svc.CheckSpam(three).IsSpam)

	four := strings.Repeat("see https://x.com ", 4)
	result := svc.CheckSpam(four)
	assert.True(t, result.IsSpam)
	assert.Equal(t, SpamReasonLinks, result.Reason)
}

func TestCheckSpamRepeatedChars(t *testing.T) {
	svc := newTestSanitizeService()

	assert.False(t, svc.CheckSpam("aaaaa normal bbbbb").IsSpam)

	result := svc.CheckSpam("aaaaa then bbbbb then ccccc")
	assert.True(t, result.IsSpam)
	assert.Equal(t, SpamReasonRepeatedChars, result.Reason)
}

func TestCheckSpamReasonOrdering(t *testing.T) {
	svc := newTestSanitizeService()

	// Keyword wins even when the link check would also fire.
	text := "casino " + strings.Repeat("https://spam.example ", 5)
	result := svc.CheckSpam(text)
	assert.True(t, result.IsSpam)
	assert.Equal(t, SpamReasonKeyword, result.Reason)
}

func TestCheckSpamCleanText(t *testing.T) {
	svc := newTestSanitizeService()

	result := svc.CheckSpam("Hi, I'd like to discuss a consulting project with you.")
	assert.False(t, result.IsSpam)
	assert.Empty(t, result.Reason)
}

func TestCountRepeatedRuns(t *testing.T) {
	assert.Equal(t, 0, countRepeatedRuns("abcdef", 5))
	assert.Equal(t, 1, countRepeatedRuns("aaaaa", 5))
	assert.Equal(t, 2, countRepeatedRuns("aaaaa b ccccc", 5))
	assert.Equal(t, 0, countRepeatedRuns("aaaa", 5))
}
