package scrape

import "testing"

func TestLiteral(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sweden", "'Sweden'"},
		{"", "''"},
		{"Baker's Dozen", `concat('Baker', "'", 's Dozen')`},
		{"a'b'c", `concat('a', "'", 'b', "'", 'c')`},
	}
	for _, tc := range cases {
		if got := Literal(tc.in); got != tc.want {
			t.Errorf("Literal(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInnermostExcludesSatisfyingDescendants(t *testing.T) {
	got := Innermost("[contains(., 'x')]")
	want := "//*[contains(., 'x')][not(./descendant::*[contains(., 'x')])]"
	if got != want {
		t.Fatalf("Innermost = %q, want %q", got, want)
	}
}

func TestDetailPanelQuery(t *testing.T) {
	got := detailPanelQuery("MapX", "Bollard")
	cond := "[node()[contains(., 'MapX')] and node()[contains(., 'Bollard')]]"
	want := "//*" + cond + "[not(./descendant::*" + cond + ")]/div[not(./descendant::h1)]"
	if got != want {
		t.Fatalf("detailPanelQuery = %q, want %q", got, want)
	}
}

func TestNormalizeRawStripsCommentsAndDecodesEntities(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a<!-- hidden -->b", "ab"},
		{"a<!-- multi\nline -->b<!-- again -->c", "abc"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"x<!-- &amp; -->&lt;y&gt;", "x<y>"},
	}
	for _, tc := range cases {
		if got := NormalizeRaw(tc.in); got != tc.want {
			t.Errorf("NormalizeRaw(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRawIdempotent(t *testing.T) {
	inputs := []string{
		"plain",
		"a<!-- hidden -->b",
		"a<!-- multi\nline -->b<!-- again -->c",
		"Tom &amp; Jerry",
		"x<!-- &amp; -->&lt;y&gt;",
		"Ch&acirc;teau d'&Eacute;tat",
	}
	for _, in := range inputs {
		once := NormalizeRaw(in)
		if twice := NormalizeRaw(once); twice != once {
			t.Errorf("NormalizeRaw(%q) not stable: %q then %q", in, once, twice)
		}
	}
}
