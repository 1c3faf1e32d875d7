package output_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atollk/geoguessr-scripts/core/output"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sweden", "sweden"},
		{"San Marino", "san_marino"},
		{"  Isle of Man  ", "isle_of_man"},
		{"Côte d'Ivoire", "c_te_d_ivoire"},
		{"a--b__c", "a_b_c"},
		{"...", ""},
	}
	for _, tc := range cases {
		if got := output.Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriteUsesSlugAndExtension(t *testing.T) {
	dir := t.TempDir()
	w, err := output.New(dir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	path, err := w.Write("San Marino", []byte("# San Marino\n"), ".md")
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if path != filepath.Join(dir, "san_marino.md") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	if string(data) != "# San Marino\n" {
		t.Errorf("content = %q", data)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	if _, err := output.New(dir); err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("export directory missing: %v", err)
	}
}
