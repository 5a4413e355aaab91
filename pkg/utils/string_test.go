package utils_test

import (
	"testing"

	"github.com/eljasus/guardian/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestCompressAllWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", utils.CompressAllWhitespace("  a \n\n b\tc "))
	assert.Equal(t, "", utils.CompressAllWhitespace("   \n\t  "))
}

func TestLongestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "empty",
			input: "",
			want:  0,
		},
		{
			name:  "no repeats",
			input: "abcdef",
			want:  1,
		},
		{
			name:  "run in the middle",
			input: "abcccccd",
			want:  5,
		},
		{
			name:  "full string run",
			input: "aaaaaaaaaa",
			want:  10,
		},
		{
			name:  "multibyte runes",
			input: "ههههههه",
			want:  7,
		},
		{
			name:  "runs reset on change",
			input: "aabbaabb",
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, utils.LongestRun(tt.input))
		})
	}
}

func TestFormatMs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "never", utils.FormatMs(utils.PermanentMs))
	assert.Equal(t, "never", utils.FormatMs(0))
	assert.Equal(t, "2024-01-01 00:00:00 UTC", utils.FormatMs(1704067200000))
}
