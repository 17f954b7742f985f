package validation

import "testing"

func TestIsValidReminderTime(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "00:00", want: true},
		{value: "09:30", want: true},
		{value: "23:59", want: true},
		{value: "24:00", want: false},
		{value: "12:60", want: false},
		{value: "9:30", want: false},
		{value: "09-30", want: false},
		{value: "ab:cd", want: false},
		{value: "", want: false},
		{value: "09:300", want: false},
	}

	for _, tt := range tests {
		if got := IsValidReminderTime(tt.value); got != tt.want {
			t.Errorf("IsValidReminderTime(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "user@example.com", want: true},
		{value: "a.b@sub.domain.org", want: true},
		{value: "user@", want: false},
		{value: "@example.com", want: false},
		{value: "userexample.com", want: false},
		{value: "user@example", want: false},
		{value: "user@exam ple.com", want: false},
		{value: "user@@example.com", want: false},
		{value: "", want: false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.value); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
