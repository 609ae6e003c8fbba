package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John Doe"},
		{"  John   Doe  ", "John Doe"},
		{"", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIdentifier_PreservesCase(t *testing.T) {
	if got := Identifier("  DrSmith "); got != "DrSmith" {
		t.Errorf("Identifier = %q", got)
	}
}

func TestRole(t *testing.T) {
	if got := Role(" Patient "); got != "patient" {
		t.Errorf("Role = %q", got)
	}
}

func TestSortKey_FoldsCase(t *testing.T) {
	if SortKey("ZOE  Smith") != SortKey("zoe smith") {
		t.Errorf("SortKey should fold case: %q vs %q", SortKey("ZOE  Smith"), SortKey("zoe smith"))
	}
}
