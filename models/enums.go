package models

// DocumentStatus is the stored, user-visible document status.
type DocumentStatus string

const (
	DocumentStatusPending DocumentStatus = "Pending"
	DocumentStatusPaid    DocumentStatus = "Paid"
	DocumentStatusHalf    DocumentStatus = "Half"
	DocumentStatusOverdue DocumentStatus = "Overdue"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusPaid, DocumentStatusHalf, DocumentStatusOverdue:
		return true
	}
	return false
}

// FinancialState classifies paid-vs-total. Derived only, never stored.
type FinancialState string

const (
	FinancialStatePending FinancialState = "Pending"
	FinancialStateCredit  FinancialState = "Credit"
	FinancialStateSettled FinancialState = "Settled"
)

// TransactionTypeName classifies a document's money direction.
type TransactionTypeName string

const (
	TransactionTypeIncome  TransactionTypeName = "Income"
	TransactionTypeExpense TransactionTypeName = "Expense"
)

type PartyKind string

const (
	PartyKindClient   PartyKind = "Client"
	PartyKindSupplier PartyKind = "Supplier"
	PartyKindBoth     PartyKind = "Both"
)

func (k PartyKind) Valid() bool {
	switch k {
	case PartyKindClient, PartyKindSupplier, PartyKindBoth:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "Pending"
	ProjectStatusInProgress ProjectStatus = "InProgress"
	ProjectStatusFinished   ProjectStatus = "Finished"
	ProjectStatusCancelled  ProjectStatus = "Cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPending, ProjectStatusInProgress, ProjectStatusFinished, ProjectStatusCancelled:
		return true
	}
	return false
}

type UserRole string

const (
	UserRoleAdmin      UserRole = "A"
	UserRoleAccountant UserRole = "C"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleAccountant
}
