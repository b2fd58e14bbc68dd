package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTMLTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no tags", "Gangnam Noodles", "Gangnam Noodles"},
		{"bold markers", "<b>Gangnam</b> Noodles", " Gangnam  Noodles"},
		{"nested-looking tags", "<b><i>spicy</i></b>", "  spicy  "},
		{"unclosed tag kept", "Gangnam <b", "Gangnam <b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTMLTags(tt.in))
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses runs", "a   b\t\tc", "a b c"},
		{"trims edges", "  hello  ", "hello"},
		{"newlines collapse", "line1\nline2", "line1 line2"},
		{"whitespace only", " \t\n ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWhitespace(tt.in))
		})
	}
}

func TestToPlainText(t *testing.T) {
	assert.Equal(t, "Gangnam Noodles", ToPlainText("<b>Gangnam</b> Noodles"))
	assert.Equal(t, "spicy ramen", ToPlainText("  <em>spicy</em>   ramen "))
	assert.Equal(t, "", ToPlainText("<b></b>"))
}

func TestSanitizeSearchKeyword(t *testing.T) {
	assert.Equal(t, "cold noodles", SanitizeSearchKeyword("  cold   noodles "))
	assert.Equal(t, "", SanitizeSearchKeyword("   "))
}
