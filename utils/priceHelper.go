package utils

import "github.com/shopspring/decimal"

// 19% Chilean VAT
var ivaFactor = decimal.NewFromFloat(1.19)

var decimalOneHundred = decimal.NewFromInt(100)

// RoundPeso rounds to a whole peso, half up.
func RoundPeso(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// CalculateNetVatGross back-calculates net and VAT from a gross price and a
// discount percentage (0-100). The discounted gross is floored at zero.
// Net, VAT and gross are each rounded to whole pesos independently; their sum
// may differ from the gross by a peso, which is intrinsic to the rounding and
// must not be "fixed" by deriving one from the other two.
func CalculateNetVatGross(grossInput decimal.Decimal, discountPct decimal.Decimal) (net, vat, gross decimal.Decimal) {
	grossFinal := grossInput.Mul(decimal.NewFromInt(1).Sub(discountPct.Div(decimalOneHundred)))
	if grossFinal.IsNegative() {
		grossFinal = decimal.Zero
	}

	netRaw := grossFinal.Div(ivaFactor)
	vatRaw := grossFinal.Sub(netRaw)

	return RoundPeso(netRaw), RoundPeso(vatRaw), RoundPeso(grossFinal)
}
