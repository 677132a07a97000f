package models

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewPaymentTermValidate_RejectsNonPositiveDays(t *testing.T) {
	cases := []int{0, -10}
	for _, days := range cases {
		input := NewPaymentTerm{PaymentTypeId: 1, Days: days}
		err := input.validate(context.Background())
		if err == nil {
			t.Fatalf("days=%d: expected validation error, got nil", days)
		}
		var fieldErrs FieldErrors
		if !errors.As(err, &fieldErrs) {
			t.Fatalf("days=%d: expected field-scoped errors, got %v", days, err)
		}
		if fieldErrs["days"] == "" {
			t.Fatalf("days=%d: expected a days error, got %v", days, fieldErrs)
		}
	}
}

func TestDueDateFrom(t *testing.T) {
	term := PaymentTerm{Days: 30}
	issue := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	due := term.DueDateFrom(issue)
	expected := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	if !due.Equal(expected) {
		t.Fatalf("DueDateFrom expected %s, got %s", expected, due)
	}
}

func TestProjectContainsDate(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	bounded := Project{RequestDate: start, EndDate: &end}
	cases := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"before window", time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC), false},
		{"start day earlier hour", time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC), true},
		{"mid window", time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), true},
		{"end day late hour", time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC), true},
		{"after window", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := bounded.containsDate(tc.date); got != tc.expected {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}

	open := Project{RequestDate: start}
	if !open.containsDate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("open-ended project should accept far future dates")
	}
	if err := open.validateIssueDate(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Fatalf("issue date before request date should be rejected")
	}
}
