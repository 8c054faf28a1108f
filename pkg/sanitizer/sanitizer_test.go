package sanitizer

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Tech Meetup", "Tech Meetup"},
		{"leading and trailing whitespace", "  Tech Meetup  ", "Tech Meetup"},
		{"internal whitespace runs", "Tech\t\tMeetup   2026", "Tech Meetup 2026"},
		{"newlines", "Tech\nMeetup", "Tech Meetup"},
		{"control characters", "Tech\x00Meetup", "TechMeetup"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"09:00", "09:00"},
		{"9:00", "09:00"},
		{" 18:30 ", "18:30"},
		{"not-a-time", "not-a-time"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeTimeOfDay(tt.input); got != tt.want {
			t.Errorf("SanitizeTimeOfDay(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeImageURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"https url", "https://cdn.example.com/banner.png", "https://cdn.example.com/banner.png"},
		{"trailing slash", "https://cdn.example.com/banner/", "https://cdn.example.com/banner"},
		{"http url", "http://cdn.example.com/x.jpg", "http://cdn.example.com/x.jpg"},
		{"missing scheme", "cdn.example.com/banner.png", ""},
		{"javascript scheme", "javascript:alert(1)", ""},
		{"empty", "", ""},
		{"whitespace only", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeImageURL(tt.input); got != tt.want {
				t.Errorf("SanitizeImageURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
