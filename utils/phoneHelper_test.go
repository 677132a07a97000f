package utils

import "testing"

func TestValidatePrimaryPhone(t *testing.T) {
	valid := []string{
		"+56912345678",
		"+56221234567",
	}
	for _, phone := range valid {
		if err := ValidatePrimaryPhone(phone); err != nil {
			t.Fatalf("ValidatePrimaryPhone(%q) unexpected error: %v", phone, err)
		}
	}

	invalid := []string{
		"912345678",
		"+5691234",
		"+15551234567",
		"not-a-phone",
	}
	for _, phone := range invalid {
		if err := ValidatePrimaryPhone(phone); err == nil {
			t.Fatalf("ValidatePrimaryPhone(%q) expected error, got nil", phone)
		}
	}
}

func TestValidateSecondaryPhone(t *testing.T) {
	if err := ValidateSecondaryPhone(""); err != nil {
		t.Fatalf("blank secondary phone should be accepted: %v", err)
	}
	if err := ValidateSecondaryPhone("+56912345678"); err != nil {
		t.Fatalf("digits and plus should be accepted: %v", err)
	}
	if err := ValidateSecondaryPhone("56-912345678"); err == nil {
		t.Fatalf("dash should be rejected")
	}
}
