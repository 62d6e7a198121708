package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"a@b.co", true},
		{"user@localhost", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{".user@example.com", false},
		{"user..name@example.com", false},
		{"user @example.com", false},
		{"User Name <user@example.com>", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestParseCoordinate(t *testing.T) {
	v, ok, err := ParseCoordinate("13.0722")
	if err != nil || !ok || v != 13.0722 {
		t.Errorf("got (%v, %v, %v)", v, ok, err)
	}

	_, ok, err = ParseCoordinate("  ")
	if err != nil || ok {
		t.Errorf("empty input: got ok=%v err=%v", ok, err)
	}

	_, _, err = ParseCoordinate("north")
	if err == nil {
		t.Error("expected parse error for non-numeric input")
	}
}

func TestValidRadius(t *testing.T) {
	for _, v := range []float64{1, 700, 100_000} {
		if !ValidRadius(v) {
			t.Errorf("ValidRadius(%v) = false, want true", v)
		}
	}
	for _, v := range []float64{0, -1, 100_001} {
		if ValidRadius(v) {
			t.Errorf("ValidRadius(%v) = true, want false", v)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{"admin", "teacher", "Admin", " TEACHER "} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "member", "superadmin"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}

func TestValidDateKey(t *testing.T) {
	if !ValidDateKey("2024-03-01") {
		t.Error("2024-03-01 should be valid")
	}
	for _, s := range []string{"", "2024-3-1", "03-01-2024", "2024-03-01T08:00:00Z"} {
		if ValidDateKey(s) {
			t.Errorf("ValidDateKey(%q) = true, want false", s)
		}
	}
}
