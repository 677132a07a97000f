package models

import (
	"testing"
	"time"
)

func incomeType() []Transaction {
	return []Transaction{{TransactionType: &TransactionType{ID: 1, Name: TransactionTypeIncome}}}
}

func expenseType() []Transaction {
	return []Transaction{{TransactionType: &TransactionType{ID: 2, Name: TransactionTypeExpense}}}
}

func TestSummarizeProject_UtilityAndBudget(t *testing.T) {
	project := &Project{ID: 7, Budget: dec("100000"), RequestDate: time.Now()}
	documents := []*Document{
		{
			Details:      []DocumentDetail{{Qty: 1, Product: productPriced("50000")}},
			Transactions: incomeType(),
		},
		{
			Details:      []DocumentDetail{{Qty: 1, Product: productPriced("30000")}},
			Payments:     []DocumentPayment{{Amount: dec("30000")}},
			Transactions: expenseType(),
		},
	}

	summary := SummarizeProject(project, documents)
	if !summary.IncomeTotal.Equal(dec("50000")) {
		t.Fatalf("income expected 50000, got %s", summary.IncomeTotal)
	}
	if !summary.ExpenseTotal.Equal(dec("30000")) {
		t.Fatalf("expense expected 30000, got %s", summary.ExpenseTotal)
	}
	if !summary.ExpensePaid.Equal(dec("30000")) {
		t.Fatalf("expense paid expected 30000, got %s", summary.ExpensePaid)
	}
	// utility = budget + income - expense
	if !summary.Utility.Equal(dec("120000")) {
		t.Fatalf("utility expected 120000, got %s", summary.Utility)
	}
	// remaining subtracts only what was actually paid on expenses
	if !summary.BudgetRemaining.Equal(dec("70000")) {
		t.Fatalf("remaining expected 70000, got %s", summary.BudgetRemaining)
	}
	if summary.BudgetPercent != 70 {
		t.Fatalf("percent expected 70, got %d", summary.BudgetPercent)
	}
	if summary.DocumentCount != 2 {
		t.Fatalf("document count expected 2, got %d", summary.DocumentCount)
	}
}

func TestSummarizeProject_UntaggedDocumentCountsAsIncome(t *testing.T) {
	project := &Project{ID: 1, Budget: dec("0"), RequestDate: time.Now()}
	documents := []*Document{
		{Details: []DocumentDetail{{Qty: 1, Product: productPriced("10000")}}},
	}

	summary := SummarizeProject(project, documents)
	if !summary.IncomeTotal.Equal(dec("10000")) {
		t.Fatalf("income expected 10000, got %s", summary.IncomeTotal)
	}
	if !summary.ExpenseTotal.IsZero() {
		t.Fatalf("expense expected 0, got %s", summary.ExpenseTotal)
	}
}

func TestSummarizeProject_PercentClampsAndZeroBudget(t *testing.T) {
	// overspent budget: remaining floors at zero
	project := &Project{ID: 2, Budget: dec("10000"), RequestDate: time.Now()}
	documents := []*Document{
		{
			Details:      []DocumentDetail{{Qty: 1, Product: productPriced("50000")}},
			Payments:     []DocumentPayment{{Amount: dec("50000")}},
			Transactions: expenseType(),
		},
	}
	summary := SummarizeProject(project, documents)
	if !summary.BudgetRemaining.IsZero() {
		t.Fatalf("remaining expected 0, got %s", summary.BudgetRemaining)
	}
	if summary.BudgetPercent != 0 {
		t.Fatalf("percent expected 0, got %d", summary.BudgetPercent)
	}

	// zero budget divides by one instead of failing
	project = &Project{ID: 3, Budget: dec("0"), RequestDate: time.Now()}
	summary = SummarizeProject(project, nil)
	if summary.BudgetPercent != 0 {
		t.Fatalf("zero-budget percent expected 0, got %d", summary.BudgetPercent)
	}
	if !summary.Utility.IsZero() {
		t.Fatalf("zero-budget utility expected 0, got %s", summary.Utility)
	}
}
