package models

import "testing"

func TestProductTotalsOf(t *testing.T) {
	products := []*Product{
		{NetPrice: dec("8403"), VatAmount: dec("1597"), GrossPrice: dec("10000")},
		{NetPrice: dec("500"), VatAmount: dec("95"), GrossPrice: dec("595")},
	}
	totals := productTotalsOf(products)
	if !totals.TotalNet.Equal(dec("8903")) {
		t.Fatalf("net expected 8903, got %s", totals.TotalNet)
	}
	if !totals.TotalVat.Equal(dec("1692")) {
		t.Fatalf("vat expected 1692, got %s", totals.TotalVat)
	}
	if !totals.TotalGross.Equal(dec("10595")) {
		t.Fatalf("gross expected 10595, got %s", totals.TotalGross)
	}
}

func TestProductTotalsOf_Empty(t *testing.T) {
	totals := productTotalsOf(nil)
	if !totals.TotalNet.IsZero() || !totals.TotalVat.IsZero() || !totals.TotalGross.IsZero() {
		t.Fatalf("empty catalogue should total zero, got %s/%s/%s",
			totals.TotalNet, totals.TotalVat, totals.TotalGross)
	}
}
