package service

import "testing"

func TestStripPhonePrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"+393331234567", "3331234567"},
		{"+14155551234", "4155551234"},
		{"+447911123456", "7911123456"},
		{"+4915112345678", "15112345678"},
		{"+33612345678", "612345678"},
		{"+34612345678", "612345678"},
		{"+41791234567", "791234567"},
		// Unknown country, generic pattern strips up to three digits.
		{"+3512345678", "2345678"},
		{"+97150123456", "50123456"},
		// No leading plus: left alone.
		{"3331234567", "3331234567"},
		{"003933312345", "003933312345"},
		{"", ""},
		{"+", "+"},
	}

	for _, tc := range cases {
		if got := StripPhonePrefix(tc.in); got != tc.want {
			t.Errorf("StripPhonePrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
