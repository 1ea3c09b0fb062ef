package models

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	t.Run("short string unchanged", func(t *testing.T) {
		if got := Truncate("hello", 10); got != "hello" {
			t.Errorf("Truncate() = %q, want hello", got)
		}
	})

	t.Run("ascii cut at the byte limit", func(t *testing.T) {
		got := Truncate(strings.Repeat("x", 20), 8)
		if got != strings.Repeat("x", 8)+"..." {
			t.Errorf("Truncate() = %q", got)
		}
	})

	t.Run("zero limit is a no-op", func(t *testing.T) {
		if got := Truncate("hello", 0); got != "hello" {
			t.Errorf("Truncate() = %q, want hello", got)
		}
	})

	t.Run("never splits a multi-byte rune", func(t *testing.T) {
		s := strings.Repeat("é", 10) // 2 bytes per rune
		got := Truncate(s, 5)

		if !utf8.ValidString(got) {
			t.Fatalf("Truncate() = %q is not valid UTF-8", got)
		}
		if got != strings.Repeat("é", 2)+"..." {
			t.Errorf("Truncate() = %q, want two runes plus ellipsis", got)
		}
	})
}
