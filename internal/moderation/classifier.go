package moderation

import (
	"strings"

	"github.com/eljasus/guardian/internal/moderation/enum"
	"github.com/eljasus/guardian/pkg/utils"
)

// spamRunLength is the repeated-character run that flags a message as spam.
const spamRunLength = 7

// Classification is the outcome of classifying one message. Exactly one
// category is assigned when Offending is true.
type Classification struct {
	Offending bool
	Category  enum.Category
}

// Classifier matches chat text against the static blocklists and the spam
// heuristic. It has no side effects and holds only precomputed tables, but is
// not safe for concurrent use because the underlying normalizer is stateful.
type Classifier struct {
	normalizer *utils.TextNormalizer
	threats    []string
	hateSpeech []string
	profanity  []string
}

// NewClassifier precomputes normalized, separator-stripped forms of every
// blocklist entry.
func NewClassifier() *Classifier {
	normalizer := utils.NewTextNormalizer()

	return &Classifier{
		normalizer: normalizer,
		threats:    stripAll(normalizer, threatTerms),
		hateSpeech: stripAll(normalizer, hateTerms),
		profanity:  stripAll(normalizer, profanityTerms),
	}
}

// Classify labels text as clean or offending with a category. Priority when
// several rules match: spam > threats > hate_speech > profanity.
func (c *Classifier) Classify(text string) Classification {
	normalized := c.normalizer.Normalize(text)
	if normalized == "" {
		return Classification{}
	}

	// Spam is checked on the normalized text before separator stripping, so
	// "!!!!!!!" flags as spam rather than vanishing.
	if utils.LongestRun(normalized) >= spamRunLength {
		return Classification{Offending: true, Category: enum.CategorySpam}
	}

	stripped := c.normalizer.Strip(text)

	switch {
	case matchAny(stripped, c.threats):
		return Classification{Offending: true, Category: enum.CategoryThreats}
	case matchAny(stripped, c.hateSpeech):
		return Classification{Offending: true, Category: enum.CategoryHateSpeech}
	case matchAny(stripped, c.profanity):
		return Classification{Offending: true, Category: enum.CategoryProfanity}
	default:
		return Classification{}
	}
}

// matchAny checks substring containment of any entry inside the stripped text.
func matchAny(stripped string, entries []string) bool {
	for _, entry := range entries {
		if strings.Contains(stripped, entry) {
			return true
		}
	}

	return false
}

// stripAll normalizes and strips every entry, dropping ones that normalize to
// nothing.
func stripAll(normalizer *utils.TextNormalizer, entries []string) []string {
	stripped := make([]string, 0, len(entries))

	for _, entry := range entries {
		if s := normalizer.Strip(entry); s != "" {
			stripped = append(stripped, s)
		}
	}

	return stripped
}
