package utils_test

import (
	"testing"

	"github.com/eljasus/guardian/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestTextNormalizer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		want     string
		contains string
		hasMatch bool
	}{
		{
			name:     "empty string",
			input:    "",
			want:     "",
			contains: "test",
			hasMatch: false,
		},
		{
			name:     "basic string",
			input:    "Hello World",
			want:     "hello world",
			contains: "hello",
			hasMatch: true,
		},
		{
			name:     "latin diacritics",
			input:    "héllo wörld",
			want:     "hello world",
			contains: "world",
			hasMatch: true,
		},
		{
			name:     "arabic diacritics stripped",
			input:    "أهلاً",
			want:     "اهلا",
			contains: "اهلا",
			hasMatch: true,
		},
		{
			name:     "hamza seated alef folded",
			input:    "إسلام",
			want:     "اسلام",
			contains: "اسلام",
			hasMatch: true,
		},
		{
			name:     "taa marbuta folded to haa",
			input:    "مدرسة",
			want:     "مدرسه",
			contains: "مدرسه",
			hasMatch: true,
		},
		{
			name:     "alef maksura folded to yaa",
			input:    "مصطفى",
			want:     "مصطفي",
			contains: "مصطفي",
			hasMatch: true,
		},
		{
			name:     "whitespace collapsed",
			input:    "hello    \n  world",
			want:     "hello world",
			contains: "hello world",
			hasMatch: true,
		},
		{
			name:     "punctuation obfuscation matched",
			input:    "h.e_l-l*o",
			want:     "h.e_l-l*o",
			contains: "hello",
			hasMatch: true,
		},
		{
			name:     "no match",
			input:    "hello world",
			want:     "hello world",
			contains: "goodbye",
			hasMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			normalizer := utils.NewTextNormalizer()

			got := normalizer.Normalize(tt.input)
			assert.Equal(t, tt.want, got)

			hasMatch := normalizer.Contains(tt.input, tt.contains)
			assert.Equal(t, tt.hasMatch, hasMatch)
		})
	}
}

func TestTextNormalizerStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "separators removed",
			input: "k.s",
			want:  "ks",
		},
		{
			name:  "underscores and spaces removed",
			input: "k _ s",
			want:  "ks",
		},
		{
			name:  "asterisk obfuscation removed",
			input: "f*ck",
			want:  "fck",
		},
		{
			name:  "plain text unchanged",
			input: "hello",
			want:  "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			normalizer := utils.NewTextNormalizer()

			assert.Equal(t, tt.want, normalizer.Strip(tt.input))
		})
	}
}
