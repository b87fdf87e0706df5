package model

import "testing"

func TestArchitectureName(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "x86"},
		{1, "x64"},
		{2, "ARM64"},
		{3, "Unknown"},
		{99, "Unknown"},
		{-1, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ArchitectureName(tt.code); got != tt.want {
				t.Errorf("ArchitectureName(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"Windows 11", "windows 11", true},
		{"Windows 11", "11", true},
		{"Windows 11", "WINDOWS", true},
		{"Windows 11 Home/Pro/Edu", "home", true},
		{"Windows 11", "Windows 12", false},
		{"Windows 11", "", false},
		{"24H2 (Build 26100.1742 - 2024.10)", "24h2", true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := MatchName(tt.name, tt.query); got != tt.want {
				t.Errorf("MatchName(%q, %q) = %v, want %v", tt.name, tt.query, got, tt.want)
			}
		})
	}
}

func TestSelectionString(t *testing.T) {
	s := Selection{Version: "Windows 11", Release: "24H2", Language: "English"}
	want := "Windows 11 / 24H2 / English"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if got := (Selection{}).String(); got != "" {
		t.Errorf("empty Selection String() = %q, want empty", got)
	}
}
