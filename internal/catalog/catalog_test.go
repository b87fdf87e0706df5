package catalog

import "testing"

func TestCatalog_FindVersion(t *testing.T) {
	cat := Default()

	tests := []struct {
		query    string
		wantName string
		wantOK   bool
	}{
		{"Windows 11", "Windows 11", true},
		{"windows 11", "Windows 11", true},
		{"10", "Windows 10", true},
		{"uefi shell 2.2", "UEFI Shell 2.2", true},
		{"UEFI", "UEFI Shell 2.2", true}, // first match wins
		{"Windows 12", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			v, ok := cat.FindVersion(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("FindVersion(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}
			if ok && v.Name != tt.wantName {
				t.Errorf("FindVersion(%q) = %q, want %q", tt.query, v.Name, tt.wantName)
			}
		})
	}
}

func TestCatalog_Releases(t *testing.T) {
	cat := Default()

	releases, ok := cat.Releases("Windows 11")
	if !ok {
		t.Fatal("expected releases for Windows 11")
	}
	if len(releases) != 1 {
		t.Fatalf("got %d releases, want 1", len(releases))
	}
	if releases[0].Index != 0 {
		t.Errorf("first release index = %d, want 0", releases[0].Index)
	}

	shellReleases, ok := cat.Releases("UEFI Shell 2.2")
	if !ok {
		t.Fatal("expected releases for UEFI Shell 2.2")
	}
	if len(shellReleases) != 10 {
		t.Errorf("got %d shell releases, want 10", len(shellReleases))
	}

	if _, ok := cat.Releases("no such version"); ok {
		t.Error("expected no releases for unknown version")
	}
}

func TestCatalog_Editions(t *testing.T) {
	cat := Default()

	editions, ok := cat.Editions("Windows 11", "24H2")
	if !ok {
		t.Fatal("expected editions for Windows 11 24H2")
	}
	if len(editions) != 3 {
		t.Fatalf("got %d editions, want 3", len(editions))
	}
	if got := editions[0].IDs; len(got) != 2 || got[0] != 3113 || got[1] != 3131 {
		t.Errorf("Home/Pro/Edu IDs = %v, want [3113 3131]", got)
	}

	if _, ok := cat.Editions("Windows 11", "19H1"); ok {
		t.Error("expected no editions for unknown release")
	}
}

func TestCatalog_FindEdition(t *testing.T) {
	cat := Default()

	e, ok := cat.FindEdition("Windows 10", "22H2", "home/pro")
	if !ok {
		t.Fatal("expected edition match")
	}
	if e.Name != "Windows 10 Home/Pro/Edu" {
		t.Errorf("edition = %q, want %q", e.Name, "Windows 10 Home/Pro/Edu")
	}
	if len(e.IDs) != 1 || e.IDs[0] != 2618 {
		t.Errorf("IDs = %v, want [2618]", e.IDs)
	}

	if _, ok := cat.FindEdition("Windows 10", "22H2", "Ultimate"); ok {
		t.Error("expected no match for unknown edition")
	}
}

func TestCatalog_EditionsAreCopies(t *testing.T) {
	cat := Default()

	editions, _ := cat.Editions("Windows 11", "24H2")
	editions[0].IDs[0] = 9999

	again, _ := cat.Editions("Windows 11", "24H2")
	if again[0].IDs[0] != 3113 {
		t.Error("mutating returned edition IDs leaked into the catalog")
	}
}
