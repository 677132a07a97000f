package utils

import (
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
)

const chileRegion = "CL"

// ValidatePrimaryPhone requires a valid Chilean number in +56XXXXXXXXX form.
func ValidatePrimaryPhone(phone string) error {
	if !strings.HasPrefix(phone, "+56") {
		return errors.New("phone must start with +56")
	}
	num, err := libphonenumber.Parse(phone, chileRegion)
	if err != nil {
		return errors.New("phone is not a parseable number")
	}
	if !libphonenumber.IsValidNumber(num) {
		return errors.New("phone is not a valid chilean number")
	}
	return nil
}

// ValidateSecondaryPhone allows blank; otherwise digits and '+' only.
func ValidateSecondaryPhone(phone string) error {
	if phone == "" {
		return nil
	}
	for _, c := range phone {
		if c != '+' && (c < '0' || c > '9') {
			return errors.New("phone may contain only digits and +")
		}
	}
	return nil
}
