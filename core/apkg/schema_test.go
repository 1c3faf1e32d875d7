package apkg

import (
	"strings"
	"testing"
)

func TestFieldChecksum(t *testing.T) {
	// First 8 hex digits of sha1(""), i.e. 0xda39a3ee.
	if got := fieldChecksum(""); got != 3661210606 {
		t.Fatalf("fieldChecksum(\"\") = %d, want 3661210606", got)
	}
	if a, b := fieldChecksum("Bollard"), fieldChecksum("Bollard"); a != b {
		t.Fatalf("checksum not stable: %d vs %d", a, b)
	}
}

func TestNoteGUID(t *testing.T) {
	fields := []string{"Bollard", "<img src=a.png>", "<div>back</div>"}

	a, b := noteGUID(fields), noteGUID(fields)
	if a != b {
		t.Fatalf("guid not stable: %q vs %q", a, b)
	}
	if a == "" {
		t.Fatal("empty guid")
	}
	for _, ch := range a {
		if !strings.ContainsRune(guidChars, ch) {
			t.Fatalf("guid %q uses %q outside the alphabet", a, ch)
		}
	}
	if other := noteGUID([]string{"Bollard", "<img src=b.png>", "<div>back</div>"}); other == a {
		t.Fatal("distinct fields produced the same guid")
	}
}

func TestJoinFields(t *testing.T) {
	if got := joinFields([]string{"a", "b", "c"}); got != "a\x1fb\x1fc" {
		t.Fatalf("joinFields = %q", got)
	}
}
