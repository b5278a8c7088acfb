package validation

import "testing"

func TestValidateChannelID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"public channel", "C09EB37M4HE", true},
		{"private channel", "G0123ABCD", true},
		{"direct message", "D0123ABCD", true},
		{"user id", "U0123ABCD", false},
		{"lower case", "c09eb37m4he", false},
		{"too short", "C123", false},
		{"channel name", "#incidents", false},
		{"empty", "", false},
		{"trailing space", "C09EB37M4HE ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateChannelID(tt.id); got != tt.want {
				t.Errorf("ValidateChannelID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"user", "U5678901234", true},
		{"enterprise user", "W5678901234", true},
		{"placeholder", "t", false},
		{"channel", "C5678901234", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateUserID(tt.id); got != tt.want {
				t.Errorf("ValidateUserID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestIsDirectMessage(t *testing.T) {
	if !IsDirectMessage("D0123ABCD") {
		t.Error("D-prefixed conversation should be a DM")
	}
	if IsDirectMessage("C0123ABCD") {
		t.Error("C-prefixed conversation should not be a DM")
	}
	if IsDirectMessage("") {
		t.Error("empty conversation should not be a DM")
	}
}
