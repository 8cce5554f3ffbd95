package textutil

import (
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple caption", "A cat on a keyboard", "a_cat_on_a_keyboard"},
		{"punctuation collapses", "cat, sitting -- on (keyboard)!", "cat_sitting_on_keyboard"},
		{"digits kept", "top 10 memes of 2024", "top_10_memes_of_2024"},
		{"leading trailing noise", "  ...cat...  ", "cat"},
		{"unicode becomes separator", "café naïve", "caf_na_ve"},
		{"empty input", "", "image"},
		{"only punctuation", "?!...", "image"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slug(tc.input); got != tc.want {
				t.Fatalf("Slug(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSlugTruncatesAtWordBoundary(t *testing.T) {
	input := strings.Repeat("word ", 40)
	got := Slug(input)
	if len(got) > maxSlugLength {
		t.Fatalf("slug length %d exceeds limit %d", len(got), maxSlugLength)
	}
	if strings.HasSuffix(got, "_") || strings.HasPrefix(got, "_") {
		t.Fatalf("slug has dangling underscore: %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(`a/b\c:d*e?f"g<h>i|j`); got != "a-b-c-d-efghij" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
	if got := SanitizeFileName("   "); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
