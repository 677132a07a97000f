package utils

import "testing"

func TestComputeRutCheckDigit(t *testing.T) {
	cases := []struct {
		body     string
		expected string
	}{
		{"12345678", "5"},
		{"11111111", "1"},
		{"11111112", "K"},
		{"11111117", "0"},
		{"999999", "K"},
	}
	for _, tc := range cases {
		if got := ComputeRutCheckDigit(tc.body); got != tc.expected {
			t.Fatalf("ComputeRutCheckDigit(%q) expected %q, got %q", tc.body, tc.expected, got)
		}
	}
}

func TestValidateRut_Formats(t *testing.T) {
	valid := []string{
		"12.345.678-5",
		"12345678-5",
		"123456785",
		"11.111.112-K",
		"11111112k",
	}
	for _, rut := range valid {
		if err := ValidateRut(rut); err != nil {
			t.Fatalf("ValidateRut(%q) unexpected error: %v", rut, err)
		}
	}

	invalid := []string{
		"12.345.678-6",
		"1234a678-5",
		"12345-5",
		"",
		"-5",
	}
	for _, rut := range invalid {
		if err := ValidateRut(rut); err == nil {
			t.Fatalf("ValidateRut(%q) expected error, got nil", rut)
		}
	}
}

func TestSplitRut_Normalizes(t *testing.T) {
	body, dv, err := SplitRut("11.111.112-k")
	if err != nil {
		t.Fatalf("SplitRut error: %v", err)
	}
	if body != "11111112" || dv != "K" {
		t.Fatalf("SplitRut expected (11111112, K), got (%s, %s)", body, dv)
	}
}
