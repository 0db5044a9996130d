package parsers

import (
	"regexp"
	"strings"
)

// conclusionMarker introduces the summary paragraph the assistant is
// instructed to finish every analysis with.
const conclusionMarker = "final conclusion"

// contentTypeVocabulary is the fixed set of content labels matched against
// assistant replies, in detection order.
var contentTypeVocabulary = []string{"email", "sms", "url", "news"}

// irrelevanceMarkers is the fixed refusal-pattern table. The entries must stay
// byte-for-byte stable: downstream behaviour (and the compatibility tests)
// depend on exact substring matching against lower-cased replies.
var irrelevanceMarkers = []string{
	"i am a fraud detection assistant",
	"i can only help with",
	"i'm a fraud detection assistant",
	"i'm designed to analyze",
	"not related to fraud detection",
	"doesn't contain any email, sms, url, or news",
	"not an email, sms, url, or news",
	"please provide a digital communication",
	"i can only assist with fraud detection",
	"not within my scope",
}

// Verdict keyword sets, per capability. Positive keywords assert fraud,
// negative keywords assert safety; positives win when both appear.
var (
	URLFraudKeywords   = []string{"fraud", "malicious", "phishing"}
	URLSafeKeywords    = []string{"safe", "legitimate"}
	SMSFraudKeywords   = []string{"fraud", "scam"}
	SMSSafeKeywords    = []string{"safe", "legitimate"}
	EmailFraudKeywords = []string{"fraud", "phishing", "scam"}
	EmailSafeKeywords  = []string{"safe", "legitimate"}
)

// News-verification marker sets matched against the lower-cased verifier reply.
var (
	fakeNewsMarkers = []string{"fake", "false", "not supported", "no evidence"}
	realNewsMarkers = []string{"legitimate", "supported", "confirmed", "real"}
)

// urlPattern matches http(s) URLs including path, query and fragment
// characters so extracted links survive round-tripping into tool arguments.
var urlPattern = regexp.MustCompile(`https?://[-\w.~%/?#=&+:@]+`)

// ExtractFinalConclusion locates the case-insensitive "final conclusion"
// marker and returns the excerpt that follows it: text after a colon when one
// is present, truncated at the first paragraph break, else at the first line
// break, trimmed. The boolean reports whether a usable marker excerpt was
// found; when it is false the returned string is the last paragraph of the
// whole text, so the function is total and never returns an empty result for
// non-empty input.
func ExtractFinalConclusion(text string) (string, bool) {
	lower := strings.ToLower(text)
	if idx := strings.Index(lower, conclusionMarker); idx >= 0 {
		rest := strings.TrimSpace(text[idx+len(conclusionMarker):])
		if c := strings.Index(rest, ":"); c >= 0 {
			rest = strings.TrimSpace(rest[c+1:])
		}
		if p := strings.Index(rest, "\n\n"); p >= 0 {
			rest = rest[:p]
		} else if p := strings.Index(rest, "\n"); p >= 0 {
			rest = rest[:p]
		}
		if rest = strings.TrimSpace(rest); rest != "" {
			return rest, true
		}
	}

	paragraphs := strings.Split(strings.TrimSpace(text), "\n\n")
	return strings.TrimSpace(paragraphs[len(paragraphs)-1]), false
}

// DetectContentTypes returns the fixed-vocabulary labels present in the text,
// matched case-insensitively, in vocabulary order.
func DetectContentTypes(text string) []string {
	lower := strings.ToLower(text)
	var detected []string
	for _, t := range contentTypeVocabulary {
		if strings.Contains(lower, t) {
			detected = append(detected, t)
		}
	}
	return detected
}

// DetectIrrelevance reports whether the text matches any refusal pattern from
// the fixed marker table.
func DetectIrrelevance(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range irrelevanceMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// InferVerdict derives a fraud verdict from a prose summary: true when any
// positive keyword is present, false when a negative keyword is present
// without any positive one, nil when neither set matches.
func InferVerdict(summary string, positive, negative []string) *bool {
	lower := strings.ToLower(summary)
	if containsAny(lower, positive) {
		v := true
		return &v
	}
	if containsAny(lower, negative) {
		v := false
		return &v
	}
	return nil
}

// ClassifyNewsVerdict maps a verification reply to a fake-news verdict.
// Fake markers without legitimate markers mean fake; legitimate markers
// without fake markers mean legitimate; anything ambiguous is treated as fake
// (conservative bias). The boolean reports whether the markers were conclusive.
func ClassifyNewsVerdict(reply string) (fake bool, conclusive bool) {
	lower := strings.ToLower(reply)
	hasFake := containsAny(lower, fakeNewsMarkers)
	hasReal := containsAny(lower, realNewsMarkers)

	switch {
	case hasFake && !hasReal:
		return true, true
	case hasReal && !hasFake:
		return false, true
	default:
		return true, false
	}
}

// ExtractURLs returns every http(s) URL in the text, order and duplicates
// preserved.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
