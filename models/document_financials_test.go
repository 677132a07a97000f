package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func productPriced(gross string) *Product {
	return &Product{ID: 1, Name: "Servicio", GrossPrice: dec(gross)}
}

func TestDocumentTotal_DeletedProductContributesZero(t *testing.T) {
	doc := Document{
		Details: []DocumentDetail{
			{Qty: 2, Product: productPriced("10000")},
			{Qty: 5, Product: nil},
			{Qty: 1, Product: productPriced("2500")},
		},
	}
	if got := doc.Total(); !got.Equal(dec("22500")) {
		t.Fatalf("Total expected 22500, got %s", got)
	}
}

func TestDocumentBalances_AtMostOneSideNonZero(t *testing.T) {
	cases := []struct {
		name        string
		payments    []string
		outstanding string
		credit      string
		state       FinancialState
	}{
		{"unpaid", nil, "20000", "0", FinancialStatePending},
		{"partial", []string{"5000"}, "15000", "0", FinancialStatePending},
		{"settled", []string{"12000", "8000"}, "0", "0", FinancialStateSettled},
		{"overpaid", []string{"25000"}, "0", "5000", FinancialStateCredit},
		{"reversal", []string{"25000", "-5000"}, "0", "0", FinancialStateSettled},
	}
	for _, tc := range cases {
		doc := Document{
			Details: []DocumentDetail{{Qty: 2, Product: productPriced("10000")}},
		}
		for _, amount := range tc.payments {
			doc.Payments = append(doc.Payments, DocumentPayment{Amount: dec(amount)})
		}

		if got := doc.OutstandingBalance(); !got.Equal(dec(tc.outstanding)) {
			t.Fatalf("%s: outstanding expected %s, got %s", tc.name, tc.outstanding, got)
		}
		if got := doc.CreditBalance(); !got.Equal(dec(tc.credit)) {
			t.Fatalf("%s: credit expected %s, got %s", tc.name, tc.credit, got)
		}
		if doc.OutstandingBalance().IsPositive() && doc.CreditBalance().IsPositive() {
			t.Fatalf("%s: outstanding and credit are both positive", tc.name)
		}
		if got := doc.FinancialState(); got != tc.state {
			t.Fatalf("%s: state expected %s, got %s", tc.name, tc.state, got)
		}
	}
}

func TestEffectiveStatus_PaidWinsOverOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	doc := Document{Status: DocumentStatusPaid, DueDate: &yesterday}
	if got := doc.EffectiveStatus(now); got != DocumentStatusPaid {
		t.Fatalf("EffectiveStatus expected Paid, got %s", got)
	}
	if doc.DaysUntilDue(now) != nil {
		t.Fatalf("DaysUntilDue expected nil for a paid document")
	}
}

func TestEffectiveStatus_OverdueLayering(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	cases := []struct {
		name     string
		stored   DocumentStatus
		due      *time.Time
		expected DocumentStatus
	}{
		{"pending due yesterday", DocumentStatusPending, &yesterday, DocumentStatusOverdue},
		{"half due yesterday", DocumentStatusHalf, &yesterday, DocumentStatusOverdue},
		{"pending due tomorrow", DocumentStatusPending, &tomorrow, DocumentStatusPending},
		{"pending no due date", DocumentStatusPending, nil, DocumentStatusPending},
	}
	for _, tc := range cases {
		doc := Document{Status: tc.stored, DueDate: tc.due}
		if got := doc.EffectiveStatus(now); got != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
		// the stored status must survive the computed view
		if doc.Status != tc.stored {
			t.Fatalf("%s: stored status mutated to %s", tc.name, doc.Status)
		}
	}
}

func TestDaysUntilDue_Signed(t *testing.T) {
	now := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)

	in3 := now.AddDate(0, 0, 3)
	doc := Document{Status: DocumentStatusPending, DueDate: &in3}
	days := doc.DaysUntilDue(now)
	if days == nil || *days != 3 {
		t.Fatalf("DaysUntilDue expected 3, got %v", days)
	}
	overdue := doc.DaysOverdue(now)
	if overdue == nil || *overdue != 0 {
		t.Fatalf("DaysOverdue expected 0, got %v", overdue)
	}

	ago2 := now.AddDate(0, 0, -2)
	doc = Document{Status: DocumentStatusHalf, DueDate: &ago2}
	days = doc.DaysUntilDue(now)
	if days == nil || *days != -2 {
		t.Fatalf("DaysUntilDue expected -2, got %v", days)
	}
	overdue = doc.DaysOverdue(now)
	if overdue == nil || *overdue != 2 {
		t.Fatalf("DaysOverdue expected 2, got %v", overdue)
	}
	if !doc.IsOverdue(now) {
		t.Fatalf("IsOverdue expected true")
	}
}

func TestDaysUntilDue_AcrossDSTSpringForward(t *testing.T) {
	// clocks jump forward one hour overnight: only 23 wall-clock hours
	// elapse, but it is still one calendar day
	before := time.FixedZone("before", -4*3600)
	after := time.FixedZone("after", -3*3600)
	asOf := time.Date(2025, 9, 6, 12, 0, 0, 0, before)
	due := time.Date(2025, 9, 7, 12, 0, 0, 0, after)

	doc := Document{Status: DocumentStatusPending, DueDate: &due}
	days := doc.DaysUntilDue(asOf)
	if days == nil || *days != 1 {
		t.Fatalf("DaysUntilDue expected 1, got %v", days)
	}
	if doc.IsOverdue(asOf) {
		t.Fatalf("document due tomorrow must not be overdue")
	}
}

func TestCalendarDaysBetween(t *testing.T) {
	zone := time.FixedZone("clt", -3*3600)
	cases := []struct {
		name     string
		from, to time.Time
		expected int
	}{
		{"same day", time.Date(2025, 1, 1, 1, 0, 0, 0, zone), time.Date(2025, 1, 1, 23, 0, 0, 0, zone), 0},
		{"next day", time.Date(2025, 1, 1, 23, 0, 0, 0, zone), time.Date(2025, 1, 2, 1, 0, 0, 0, zone), 1},
		{"backwards", time.Date(2025, 1, 3, 0, 0, 0, 0, zone), time.Date(2025, 1, 1, 0, 0, 0, 0, zone), -2},
	}
	for _, tc := range cases {
		if got := calendarDaysBetween(tc.from, tc.to); got != tc.expected {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.expected, got)
		}
	}
}

func TestRecomputeStatusFromDetails(t *testing.T) {
	cases := []struct {
		name     string
		details  []DocumentDetail
		expected DocumentStatus
	}{
		{"nothing paid", []DocumentDetail{{Qty: 3, QtyPaid: 0}, {Qty: 2, QtyPaid: 0}}, DocumentStatusPending},
		{"all paid", []DocumentDetail{{Qty: 3, QtyPaid: 3}, {Qty: 2, QtyPaid: 2}}, DocumentStatusPaid},
		{"partially paid", []DocumentDetail{{Qty: 3, QtyPaid: 3}, {Qty: 2, QtyPaid: 0}}, DocumentStatusHalf},
	}
	for _, tc := range cases {
		doc := Document{Status: DocumentStatusOverdue, Details: tc.details}
		doc.RecomputeStatusFromDetails()
		if doc.Status != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, doc.Status)
		}
	}
}

func TestFinancials_Snapshot(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	doc := Document{
		Status:  DocumentStatusHalf,
		DueDate: &yesterday,
		Details: []DocumentDetail{{Qty: 1, QtyPaid: 0, Product: productPriced("30000")}},
		Payments: []DocumentPayment{
			{Amount: dec("10000")},
		},
	}

	snap := doc.Financials(now)
	if !snap.Total.Equal(dec("30000")) {
		t.Fatalf("total expected 30000, got %s", snap.Total)
	}
	if !snap.AmountPaid.Equal(dec("10000")) {
		t.Fatalf("amount paid expected 10000, got %s", snap.AmountPaid)
	}
	if !snap.Outstanding.Equal(dec("20000")) {
		t.Fatalf("outstanding expected 20000, got %s", snap.Outstanding)
	}
	if snap.FinancialState != FinancialStatePending {
		t.Fatalf("financial state expected Pending, got %s", snap.FinancialState)
	}
	if snap.StoredStatus != DocumentStatusHalf {
		t.Fatalf("stored status expected Half, got %s", snap.StoredStatus)
	}
	if snap.EffectiveStatus != DocumentStatusOverdue {
		t.Fatalf("effective status expected Overdue, got %s", snap.EffectiveStatus)
	}
	if snap.DaysOverdue == nil || *snap.DaysOverdue != 1 {
		t.Fatalf("days overdue expected 1, got %v", snap.DaysOverdue)
	}
}
