package models

import "testing"

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		name string
		ms   int
		want string
	}{
		{"Zero", 0, "0:00"},
		{"Negative", -5000, "0:00"},
		{"SubMinute", 59000, "0:59"},
		{"ExactMinute", 60000, "1:00"},
		{"PadsSeconds", 61000, "1:01"},
		{"TruncatesPartialSecond", 185999, "3:05"},
		{"LongTrack", 3723000, "62:03"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDuration(tc.ms); got != tc.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tc.ms, got, tc.want)
			}
		})
	}
}
