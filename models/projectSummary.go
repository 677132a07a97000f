package models

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/teknetau/gestion_backend/config"
)

// ProjectSummary is the financial rollup of a project's documents.
type ProjectSummary struct {
	ProjectId       int             `json:"project_id"`
	Budget          decimal.Decimal `json:"budget"`
	IncomeTotal     decimal.Decimal `json:"income_total"`
	ExpenseTotal    decimal.Decimal `json:"expense_total"`
	ExpensePaid     decimal.Decimal `json:"expense_paid"`
	Utility         decimal.Decimal `json:"utility"`
	BudgetRemaining decimal.Decimal `json:"budget_remaining"`
	BudgetPercent   int             `json:"budget_percent"`
	DocumentCount   int             `json:"document_count"`
}

// classifyDocument returns the document's transaction type name. A document
// with no classification row counts as income; leaving it out of both sides
// would silently distort the utility figure.
func classifyDocument(doc *Document) TransactionTypeName {
	for _, t := range doc.Transactions {
		if t.TransactionType != nil {
			return t.TransactionType.Name
		}
	}
	return TransactionTypeIncome
}

// SummarizeProject aggregates over preloaded documents, with no database
// access.
//
// Utility is budget plus income minus expense. Budget remaining subtracts
// only the amounts actually paid on expense documents and never goes
// negative; the percent figure clamps into [0, 100] with half-up rounding.
// A non-positive budget uses a denominator of one so the division stays
// defined.
func SummarizeProject(project *Project, documents []*Document) *ProjectSummary {
	summary := ProjectSummary{
		ProjectId:     project.ID,
		Budget:        project.Budget,
		IncomeTotal:   decimal.Zero,
		ExpenseTotal:  decimal.Zero,
		ExpensePaid:   decimal.Zero,
		DocumentCount: len(documents),
	}

	for _, doc := range documents {
		switch classifyDocument(doc) {
		case TransactionTypeExpense:
			summary.ExpenseTotal = summary.ExpenseTotal.Add(doc.Total())
			summary.ExpensePaid = summary.ExpensePaid.Add(doc.AmountPaid())
		default:
			summary.IncomeTotal = summary.IncomeTotal.Add(doc.Total())
		}
	}

	summary.Utility = project.Budget.Add(summary.IncomeTotal).Sub(summary.ExpenseTotal)

	remaining := project.Budget.Sub(summary.ExpensePaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	summary.BudgetRemaining = remaining

	denom := project.Budget
	if !denom.IsPositive() {
		denom = decimal.NewFromInt(1)
	}
	percent := int(remaining.Div(denom).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	summary.BudgetPercent = percent

	return &summary
}

func GetProjectSummary(ctx context.Context, projectId int) (*ProjectSummary, error) {
	project, err := GetProject(ctx, projectId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var documents []*Document
	if err := documentPreloads(db.WithContext(ctx)).
		Where("project_id = ?", projectId).
		Order("document_number desc").Find(&documents).Error; err != nil {
		return nil, err
	}
	return SummarizeProject(project, documents), nil
}
