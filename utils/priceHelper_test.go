package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateNetVatGross(t *testing.T) {
	cases := []struct {
		gross    string
		discount string
		expNet   string
		expVat   string
		expGross string
	}{
		{"10000", "0", "8403", "1597", "10000"},
		{"10000", "10", "7563", "1437", "9000"},
		{"595", "0", "500", "95", "595"},
		{"10000", "100", "0", "0", "0"},
		{"1000", "150", "0", "0", "0"},
	}
	for _, tc := range cases {
		gross := decimal.RequireFromString(tc.gross)
		discount := decimal.RequireFromString(tc.discount)
		net, vat, final := CalculateNetVatGross(gross, discount)
		if net.String() != tc.expNet {
			t.Fatalf("CalculateNetVatGross(%s, %s) net expected %s, got %s", tc.gross, tc.discount, tc.expNet, net)
		}
		if vat.String() != tc.expVat {
			t.Fatalf("CalculateNetVatGross(%s, %s) vat expected %s, got %s", tc.gross, tc.discount, tc.expVat, vat)
		}
		if final.String() != tc.expGross {
			t.Fatalf("CalculateNetVatGross(%s, %s) gross expected %s, got %s", tc.gross, tc.discount, tc.expGross, final)
		}
	}
}

func TestRoundPeso(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"0.5", "1"},
		{"1.4", "1"},
		{"1.5", "2"},
		{"-0.5", "-1"},
		{"8403.3613", "8403"},
	}
	for _, tc := range cases {
		if got := RoundPeso(decimal.RequireFromString(tc.in)); got.String() != tc.expected {
			t.Fatalf("RoundPeso(%s) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}
