package moderation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eljasus/guardian/internal/moderation"
	"github.com/eljasus/guardian/internal/moderation/enum"
)

func TestClassifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		offending bool
		category  enum.Category
	}{
		{
			name:      "clean english",
			input:     "hello how are you",
			offending: false,
		},
		{
			name:      "clean arabic",
			input:     "مرحبا كيف حالك",
			offending: false,
		},
		{
			name:      "empty",
			input:     "",
			offending: false,
		},
		{
			name:      "english profanity",
			input:     "you are a bastard",
			offending: true,
			category:  enum.CategoryProfanity,
		},
		{
			name:      "profanity in mixed case",
			input:     "FUCKing nonsense",
			offending: true,
			category:  enum.CategoryProfanity,
		},
		{
			name:      "punctuation obfuscation",
			input:     "f.u.c.k this",
			offending: true,
			category:  enum.CategoryProfanity,
		},
		{
			name:      "underscore obfuscation",
			input:     "s_h_i_t happens",
			offending: true,
			category:  enum.CategoryProfanity,
		},
		{
			name:      "arabic profanity",
			input:     "انت عرص",
			offending: true,
			category:  enum.CategoryProfanity,
		},
		{
			name:      "arabic obfuscated with dots",
			input:     "يا ابن خ.ول",
			offending: true,
			category:  enum.CategoryProfanity,
		},
		{
			name:      "transliterated arabic",
			input:     "KoSomAk ya habibi",
			offending: true,
			category:  enum.CategoryProfanity,
		},
		{
			name:      "threat beats profanity",
			input:     "fuck you i will kill you",
			offending: true,
			category:  enum.CategoryThreats,
		},
		{
			name:      "arabic threat",
			input:     "سأقتلك غدا",
			offending: true,
			category:  enum.CategoryThreats,
		},
		{
			name:      "hate speech",
			input:     "what a faggot",
			offending: true,
			category:  enum.CategoryHateSpeech,
		},
		{
			name:      "spam run of letters",
			input:     "aaaaaaaaaa",
			offending: true,
			category:  enum.CategorySpam,
		},
		{
			name:      "spam beats blocklist",
			input:     "kill aaaaaaaaaa",
			offending: true,
			category:  enum.CategorySpam,
		},
		{
			name:      "spam run of punctuation",
			input:     "wow!!!!!!!!",
			offending: true,
			category:  enum.CategorySpam,
		},
		{
			name:      "six repeats is not spam",
			input:     "aaaaaa",
			offending: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			classifier := moderation.NewClassifier()

			got := classifier.Classify(tt.input)
			assert.Equal(t, tt.offending, got.Offending)

			if tt.offending {
				assert.Equal(t, tt.category, got.Category)
			}
		})
	}
}
