package utils

import (
	"errors"
	"strings"
)

// Chilean RUT validation (natural or legal persons).
// Accepts formats with or without dots/dash: 12.345.678-K, 12345678-K, 12345678K.

var (
	errRutTooShort   = errors.New("rut is too short")
	errRutBody       = errors.New("rut body must contain only digits")
	errRutLength     = errors.New("rut does not have a valid length")
	errRutCheckDigit = errors.New("invalid rut")
)

// SplitRut normalizes a raw RUT and returns its numeric body and check digit.
func SplitRut(rut string) (string, string, error) {
	rut = strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(rut, ".", ""), " ", ""))

	var body, dv string
	if strings.Contains(rut, "-") {
		parts := strings.SplitN(rut, "-", 2)
		body, dv = parts[0], parts[1]
	} else {
		if len(rut) < 2 {
			return "", "", errRutTooShort
		}
		body, dv = rut[:len(rut)-1], rut[len(rut)-1:]
	}

	for _, c := range body {
		if c < '0' || c > '9' {
			return "", "", errRutBody
		}
	}
	// RUNs are typically 7-8 digits; accept 6-9 to be safe
	if len(body) < 6 || len(body) > 9 {
		return "", "", errRutLength
	}
	return body, dv, nil
}

// ComputeRutCheckDigit runs the standard modulo-11 over the reversed digits
// with multipliers cycling 2 through 7. Remainder 11 maps to "0", 10 to "K".
func ComputeRutCheckDigit(body string) string {
	sum := 0
	multiplier := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * multiplier
		if multiplier == 7 {
			multiplier = 2
		} else {
			multiplier++
		}
	}

	remainder := 11 - (sum % 11)
	switch remainder {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return string(rune('0' + remainder))
	}
}

func ValidateRut(rut string) error {
	body, dv, err := SplitRut(rut)
	if err != nil {
		return err
	}
	if ComputeRutCheckDigit(body) != dv {
		return errRutCheckDigit
	}
	return nil
}
