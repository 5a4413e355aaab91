package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators are the punctuation characters commonly used to obfuscate
// blocked words in chat ("k.s", "k_s"). Strip removes them entirely.
const separators = ".,/#!$%^&*;:{}=-_`~() "

// TextNormalizer wraps transform.Transformer to provide chat-text normalization.
// Arabic input is folded to canonical letter forms so that spelling variants
// match a single blocklist entry. This is not safe for concurrent use.
type TextNormalizer struct {
	transformer transform.Transformer
	stripper    *strings.Replacer
}

// NewTextNormalizer creates a new TextNormalizer instance.
func NewTextNormalizer() *TextNormalizer {
	pairs := make([]string, 0, len(separators)*2)
	for _, r := range separators {
		pairs = append(pairs, string(r), "")
	}

	return &TextNormalizer{
		transformer: transform.Chain(
			norm.NFKD,                          // Decompose with compatibility decomposition
			runes.Remove(runes.In(unicode.Mn)), // Strip combining marks (Arabic diacritics, hamza marks)
			runes.Map(foldArabic),              // Unify Arabic letter variants
			runes.Map(unicode.ToLower),
			norm.NFKC, // Recompose
		),
		stripper: strings.NewReplacer(pairs...),
	}
}

// foldArabic maps Arabic letter variants that survive decomposition onto a
// single canonical form: taa marbuta to haa, alef maksura to yaa, alef wasla
// to bare alef. Hamza-seated alef forms decompose to bare alef plus a
// combining mark, so the NFKD stage already covers them.
func foldArabic(r rune) rune {
	switch r {
	case 'ة': // taa marbuta
		return 'ه' // haa
	case 'ى': // alef maksura
		return 'ي' // yaa
	case 'ٱ': // alef wasla
		return 'ا' // alef
	default:
		return r
	}
}

// Normalize cleans up text using the normalizer.
// Returns empty string if normalization fails or input is empty.
func (n *TextNormalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = CompressAllWhitespace(s)
	if s == "" {
		return ""
	}

	result, _, err := transform.String(n.transformer, s)
	if err != nil || result == "" {
		return ""
	}

	return result
}

// Strip normalizes text and additionally removes separator characters and
// spaces, defeating punctuation-based obfuscation before blocklist matching.
func (n *TextNormalizer) Strip(s string) string {
	return n.stripper.Replace(n.Normalize(s))
}

// Contains checks if substr exists within s after both are normalized and
// stripped of separators. Empty strings return false.
func (n *TextNormalizer) Contains(s, substr string) bool {
	if s == "" || substr == "" {
		return false
	}

	stripped := n.Strip(s)
	strippedSubstr := n.Strip(substr)

	if stripped == "" || strippedSubstr == "" {
		return false
	}

	return strings.Contains(stripped, strippedSubstr)
}
