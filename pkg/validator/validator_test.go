package validator

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		value   string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.minutes {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.value, got, tt.minutes)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "jordan.lee+repair@example.com"}
	invalid := []string{"", "no-at-sign", "@missing.local", "trailing@dot."}

	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	if got := FormatPhone("+1 (555) 010-0199"); got != "+15550100199" {
		t.Errorf("FormatPhone = %q", got)
	}
}
