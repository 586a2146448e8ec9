package util

import (
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"YES", false, true},
		{" on ", false, true},
		{"1", false, true},
		{"false", true, false},
		{"Off", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		t.Setenv("MOYO_TEST_BOOL", tt.value)
		if got := ParseBoolEnv("MOYO_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}

func TestParseIntEnv(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 30},
		{"12", 12},
		{" 7 ", 7},
		{"0", 30},
		{"-4", 30},
		{"ten", 30},
	}
	for _, tt := range tests {
		t.Setenv("MOYO_TEST_INT", tt.value)
		if got := ParseIntEnv("MOYO_TEST_INT", 30); got != tt.want {
			t.Errorf("ParseIntEnv(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestParseDurationEnv(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 10 * time.Second},
		{"15s", 15 * time.Second},
		{"2m", 2 * time.Minute},
		{"-1s", 10 * time.Second},
		{"soon", 10 * time.Second},
	}
	for _, tt := range tests {
		t.Setenv("MOYO_TEST_DURATION", tt.value)
		if got := ParseDurationEnv("MOYO_TEST_DURATION", 10*time.Second); got != tt.want {
			t.Errorf("ParseDurationEnv(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestFirstEnv(t *testing.T) {
	t.Setenv("MOYO_TEST_A", "")
	t.Setenv("MOYO_TEST_B", "b")
	t.Setenv("MOYO_TEST_C", "c")
	if got := FirstEnv("MOYO_TEST_A", "MOYO_TEST_B", "MOYO_TEST_C"); got != "b" {
		t.Errorf("FirstEnv = %q, want b", got)
	}
	if got := FirstEnv("MOYO_TEST_A"); got != "" {
		t.Errorf("FirstEnv = %q, want empty", got)
	}
}
