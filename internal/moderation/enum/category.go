package enum

import "fmt"

// Category classifies why a message or user was flagged. Every branch over
// categories must handle all values; the zero value is CategoryProfanity.
type Category int

const (
	// CategoryProfanity indicates general profanity, the default offense.
	CategoryProfanity Category = iota
	// CategorySpam indicates repeated-character flooding.
	CategorySpam
	// CategoryHateSpeech indicates slurs and hate speech.
	CategoryHateSpeech
	// CategoryThreats indicates violent threats.
	CategoryThreats
	// CategoryHarassment indicates targeted harassment (admin-assigned).
	CategoryHarassment
	// CategoryCheating indicates game cheating (admin-assigned).
	CategoryCheating
	// CategoryAdminDecision indicates a manual operator decision.
	CategoryAdminDecision
	// CategoryPermanent indicates a permanent lockout issued as such.
	CategoryPermanent
)

var categoryNames = map[Category]string{
	CategoryProfanity:     "profanity",
	CategorySpam:          "spam",
	CategoryHateSpeech:    "hate_speech",
	CategoryThreats:       "threats",
	CategoryHarassment:    "harassment",
	CategoryCheating:      "cheating",
	CategoryAdminDecision: "admin_decision",
	CategoryPermanent:     "permanent",
}

var categoryValues = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for c, name := range categoryNames {
		m[name] = c
	}

	return m
}()

// String returns the wire name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return fmt.Sprintf("Category(%d)", int(c))
}

// CategoryString converts a wire name back to a Category.
func CategoryString(s string) (Category, error) {
	if c, ok := categoryValues[s]; ok {
		return c, nil
	}

	return 0, fmt.Errorf("%s does not belong to Category values", s)
}

// MarshalText implements encoding.TextMarshaler so categories serialize as
// their wire names in store and cache records.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := CategoryString(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
