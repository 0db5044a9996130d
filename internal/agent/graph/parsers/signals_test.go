package parsers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractFinalConclusionMarkerWithColon(t *testing.T) {
	text := "Some analysis here.\n\nFINAL CONCLUSION: The URL is a phishing site.\n\nFurther notes."
	got, ok := ExtractFinalConclusion(text)
	require.True(t, ok)
	require.Equal(t, "The URL is a phishing site.", got)
}

func TestExtractFinalConclusionMarkerCaseInsensitive(t *testing.T) {
	text := "analysis\n\nFinal Conclusion: This SMS is Safe to proceed."
	got, ok := ExtractFinalConclusion(text)
	require.True(t, ok)
	require.Equal(t, "This SMS is Safe to proceed.", got)
}

func TestExtractFinalConclusionTruncatesAtParagraphBreak(t *testing.T) {
	text := "FINAL CONCLUSION: first paragraph stays.\n\nsecond paragraph dropped."
	got, ok := ExtractFinalConclusion(text)
	require.True(t, ok)
	require.Equal(t, "first paragraph stays.", got)
}

func TestExtractFinalConclusionTruncatesAtLineBreak(t *testing.T) {
	text := "FINAL CONCLUSION: only the first line.\nsecond line dropped."
	got, ok := ExtractFinalConclusion(text)
	require.True(t, ok)
	require.Equal(t, "only the first line.", got)
}

func TestExtractFinalConclusionFallsBackToLastParagraph(t *testing.T) {
	text := "First paragraph.\n\nThis is the closing paragraph."
	got, ok := ExtractFinalConclusion(text)
	require.False(t, ok)
	require.Equal(t, "This is the closing paragraph.", got)
}

func TestExtractFinalConclusionEmptyAfterMarkerFallsBack(t *testing.T) {
	text := "Intro text.\n\nFINAL CONCLUSION:"
	got, ok := ExtractFinalConclusion(text)
	require.False(t, ok)
	require.Equal(t, "FINAL CONCLUSION:", got)
}

func TestDetectContentTypesVocabularyOrder(t *testing.T) {
	got := DetectContentTypes("This looks like a URL embedded in an Email body")
	require.Equal(t, []string{"email", "url"}, got)
}

func TestDetectContentTypesNone(t *testing.T) {
	require.Empty(t, DetectContentTypes("nothing recognizable here"))
}

func TestDetectIrrelevanceAllMarkers(t *testing.T) {
	markers := []string{
		"I am a fraud detection assistant",
		"I can only help with digital communications",
		"I'm a fraud detection assistant, sorry",
		"I'm designed to analyze suspicious content",
		"Your question is not related to fraud detection",
		"Your input doesn't contain any email, sms, url, or news content",
		"This is not an email, sms, url, or news item",
		"Please provide a digital communication to analyze",
		"I can only assist with fraud detection tasks",
		"That topic is not within my scope",
	}
	for _, m := range markers {
		require.True(t, DetectIrrelevance(m), "marker %q", m)
	}
}

func TestDetectIrrelevanceNegative(t *testing.T) {
	require.False(t, DetectIrrelevance("This email looks like a phishing attempt."))
}

func TestInferVerdictPositiveWins(t *testing.T) {
	v := InferVerdict("The link is safe but also a known phishing page", URLFraudKeywords, URLSafeKeywords)
	require.NotNil(t, v)
	require.True(t, *v)
}

func TestInferVerdictNegative(t *testing.T) {
	v := InferVerdict("The message appears legitimate", SMSFraudKeywords, SMSSafeKeywords)
	require.NotNil(t, v)
	require.False(t, *v)
}

func TestInferVerdictNoSignal(t *testing.T) {
	require.Nil(t, InferVerdict("inconclusive text", EmailFraudKeywords, EmailSafeKeywords))
}

func TestClassifyNewsVerdictFake(t *testing.T) {
	fake, conclusive := ClassifyNewsVerdict("The claim is fake and there is no evidence for it.")
	require.True(t, fake)
	require.True(t, conclusive)
}

func TestClassifyNewsVerdictLegitimate(t *testing.T) {
	fake, conclusive := ClassifyNewsVerdict("The claim is confirmed by multiple outlets and appears legitimate.")
	require.False(t, fake)
	require.True(t, conclusive)
}

func TestClassifyNewsVerdictAmbiguousDefaultsToFake(t *testing.T) {
	fake, conclusive := ClassifyNewsVerdict("The reporting is mixed.")
	require.True(t, fake)
	require.False(t, conclusive)
}

func TestClassifyNewsVerdictBothSetsPresent(t *testing.T) {
	// "not supported" fires the fake set, "supported" fires the real set.
	fake, conclusive := ClassifyNewsVerdict("The claim is not supported by coverage.")
	require.True(t, fake)
	require.False(t, conclusive)
}

func TestExtractURLsWithQueryString(t *testing.T) {
	got := ExtractURLs("see https://a.com and https://b.com/x?y=1 for details")
	require.Equal(t, []string{"https://a.com", "https://b.com/x?y=1"}, got)
}

func TestExtractURLsPreservesDuplicatesAndOrder(t *testing.T) {
	got := ExtractURLs("http://x.io/a then https://y.io then http://x.io/a")
	require.Equal(t, []string{"http://x.io/a", "https://y.io", "http://x.io/a"}, got)
}

func TestExtractURLsNone(t *testing.T) {
	require.Empty(t, ExtractURLs("no links in this text"))
}
