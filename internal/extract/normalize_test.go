package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf", "a\r\nb", "a\nb"},
		{"tabs_and_runs", "a\t\tb   c", "a b c"},
		{"zero_width_stripped", "a\u200bb\ufeffc", "abc"},
		{"box_ruling_removed", "a\n-----\nb", "a\n\nb"},
		{"blank_runs_collapsed", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing_space_trimmed", "a   \nb", "a\nb"},
		{"surrounding_whitespace", "\n\n  a  \n\n", "a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeText(tc.in))
		})
	}
}
