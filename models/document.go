package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentType is a seeded master table (factura, boleta, credit note...).
type DocumentType struct {
	ID   int    `gorm:"primary_key" json:"id"`
	Name string `gorm:"size:20;not null" json:"name"`
}

/*
caches:
	DocumentTypeList
*/

func GetDocumentTypes(ctx context.Context) ([]*DocumentType, error) {
	cached, err := utils.RetrieveRedisList[DocumentType]()
	if err == nil && cached != nil {
		return cached, nil
	}
	db := config.GetDB()
	var types []*DocumentType
	if err := db.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, err
	}
	_ = utils.StoreRedisList[DocumentType](types)
	return types, nil
}

// Document is an invoice-like record. The public document number doubles as
// the primary key and is supplied by the user, mirroring the paper sequence.
type Document struct {
	DocumentNumber int               `gorm:"primary_key;autoIncrement:false" json:"document_number" binding:"required"`
	Status         DocumentStatus    `gorm:"type:enum('Pending','Paid','Half','Overdue');not null" json:"status"`
	DocumentTypeId int               `gorm:"not null" json:"document_type_id" binding:"required"`
	DocumentType   *DocumentType     `gorm:"foreignKey:DocumentTypeId" json:"document_type,omitempty"`
	PartyId        *int              `gorm:"index;default:null" json:"party_id"`
	Party          *Party            `gorm:"foreignKey:PartyId" json:"party,omitempty"`
	ProjectId      *int              `gorm:"index;default:null" json:"project_id"`
	Project        *Project          `gorm:"foreignKey:ProjectId" json:"project,omitempty"`
	IssueDate      time.Time         `gorm:"not null" json:"issue_date" binding:"required"`
	DueDate        *time.Time        `json:"due_date"`
	ClaimDate      *time.Time        `json:"claim_date"`
	Notes          string            `gorm:"size:200" json:"notes"`
	PaymentTermId  int               `gorm:"not null" json:"payment_term_id"`
	PaymentTerm    *PaymentTerm      `gorm:"foreignKey:PaymentTermId" json:"payment_term,omitempty"`
	Details        []DocumentDetail  `gorm:"foreignKey:DocumentNumber;references:DocumentNumber" json:"details"`
	Payments       []DocumentPayment `gorm:"foreignKey:DocumentNumber;references:DocumentNumber" json:"payments"`
	Transactions   []Transaction     `gorm:"foreignKey:DocumentNumber;references:DocumentNumber" json:"transactions,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// DocumentDetail is one product/quantity line. The product reference is
// nullable so deleting a product never invalidates historic documents.
type DocumentDetail struct {
	ID             int       `gorm:"primary_key" json:"id"`
	DocumentNumber int       `gorm:"index;not null" json:"document_number"`
	ProductId      *int      `gorm:"index;default:null" json:"product_id"`
	Product        *Product  `gorm:"foreignKey:ProductId" json:"product,omitempty"`
	Qty            int       `gorm:"not null" json:"qty"`
	QtyPaid        int       `gorm:"not null;default:0" json:"qty_paid"`
	Notes          string    `gorm:"size:200" json:"notes"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDocument struct {
	DocumentNumber    int                 `json:"document_number" binding:"required"`
	Status            DocumentStatus      `json:"status" binding:"required"`
	DocumentTypeId    int                 `json:"document_type_id" binding:"required"`
	PartyId           int                 `json:"party_id"`
	ProjectId         int                 `json:"project_id"`
	IssueDate         time.Time           `json:"issue_date" binding:"required"`
	DueDate           *time.Time          `json:"due_date"`
	ClaimDate         *time.Time          `json:"claim_date"`
	Notes             string              `json:"notes"`
	PaymentTerm       NewPaymentTerm      `json:"payment_term" binding:"required"`
	TransactionTypeId int                 `json:"transaction_type_id" binding:"required"`
	Details           []NewDocumentDetail `json:"details" binding:"required"`
}

type NewDocumentDetail struct {
	ProductId int    `json:"product_id" binding:"required"`
	Qty       int    `json:"qty" binding:"required"`
	QtyPaid   int    `json:"qty_paid"`
	Notes     string `json:"notes"`
}

// ===========================================
//        DERIVED FINANCIAL FACTS
// ===========================================
//
// All of these are pure functions over a document with preloaded details
// (including products) and payments. They are never persisted as the source
// of truth for money; the transaction row only caches Total().

// Subtotal is qty times the product's gross price. A missing or deleted
// product contributes zero rather than failing: documents must stay readable
// after catalogue cleanups.
func (d DocumentDetail) Subtotal() decimal.Decimal {
	if d.Product == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d.Qty)).Mul(d.Product.GrossPrice)
}

func (doc *Document) Total() decimal.Decimal {
	total := decimal.Zero
	for _, detail := range doc.Details {
		total = total.Add(detail.Subtotal())
	}
	return total
}

// AmountPaid sums all payment amounts. Amounts are signed: negative rows are
// credit notes / overpayment reversals, so the sum itself may go negative.
func (doc *Document) AmountPaid() decimal.Decimal {
	paid := decimal.Zero
	for _, payment := range doc.Payments {
		paid = paid.Add(payment.Amount)
	}
	return paid
}

func (doc *Document) OutstandingBalance() decimal.Decimal {
	outstanding := doc.Total().Sub(doc.AmountPaid())
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

func (doc *Document) CreditBalance() decimal.Decimal {
	credit := doc.AmountPaid().Sub(doc.Total())
	if credit.IsNegative() {
		return decimal.Zero
	}
	return credit
}

func (doc *Document) FinancialState() FinancialState {
	if doc.OutstandingBalance().IsPositive() {
		return FinancialStatePending
	}
	if doc.CreditBalance().IsPositive() {
		return FinancialStateCredit
	}
	return FinancialStateSettled
}

// DaysUntilDue returns nil when the document is already paid or has no due
// date; otherwise the signed day count from asOf to the due date.
func (doc *Document) DaysUntilDue(asOf time.Time) *int {
	if doc.Status == DocumentStatusPaid {
		return nil
	}
	if doc.DueDate == nil {
		return nil
	}
	days := calendarDaysBetween(asOf, *doc.DueDate)
	return &days
}

// calendarDaysBetween counts whole calendar days from one date to another.
// Both dates are rebuilt at UTC midnight first: a DST transition makes a
// wall-clock day 23 or 25 hours and would skew a plain duration division.
func calendarDaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// DaysOverdue returns the overdue day count as a positive number, zero when
// not yet due, nil when DaysUntilDue is nil.
func (doc *Document) DaysOverdue(asOf time.Time) *int {
	days := doc.DaysUntilDue(asOf)
	if days == nil {
		return nil
	}
	overdue := 0
	if *days < 0 {
		overdue = -*days
	}
	return &overdue
}

func (doc *Document) IsOverdue(asOf time.Time) bool {
	days := doc.DaysUntilDue(asOf)
	return days != nil && *days < 0
}

// EffectiveStatus is the display status: Paid always wins, an overdue
// pending/half document presents as Overdue, and otherwise the stored status
// passes through unchanged. The stored field is never mutated here; the
// user-entered state is preserved under the computed view.
func (doc *Document) EffectiveStatus(asOf time.Time) DocumentStatus {
	if doc.Status == DocumentStatusPaid {
		return DocumentStatusPaid
	}
	if doc.IsOverdue(asOf) {
		return DocumentStatusOverdue
	}
	return doc.Status
}

// RecomputeStatusFromDetails derives the stored status from line-item
// quantities, ignoring payment rows entirely: no units paid means Pending,
// all units paid means Paid, anything in between Half. This is the only
// writer of the stored status; the payment-based FinancialState and
// EffectiveStatus are read-only projections over it.
func (doc *Document) RecomputeStatusFromDetails() {
	totalQty := 0
	paidQty := 0
	for _, detail := range doc.Details {
		totalQty += detail.Qty
		paidQty += detail.QtyPaid
	}
	switch {
	case paidQty == 0:
		doc.Status = DocumentStatusPending
	case paidQty == totalQty:
		doc.Status = DocumentStatusPaid
	default:
		doc.Status = DocumentStatusHalf
	}
}

// DocumentFinancials is the computed snapshot returned by the JSON API.
type DocumentFinancials struct {
	Total           decimal.Decimal `json:"total"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	Credit          decimal.Decimal `json:"credit"`
	FinancialState  FinancialState  `json:"financial_state"`
	StoredStatus    DocumentStatus  `json:"stored_status"`
	EffectiveStatus DocumentStatus  `json:"effective_status"`
	DaysUntilDue    *int            `json:"days_until_due"`
	DaysOverdue     *int            `json:"days_overdue"`
}

func (doc *Document) Financials(asOf time.Time) DocumentFinancials {
	return DocumentFinancials{
		Total:           doc.Total(),
		AmountPaid:      doc.AmountPaid(),
		Outstanding:     doc.OutstandingBalance(),
		Credit:          doc.CreditBalance(),
		FinancialState:  doc.FinancialState(),
		StoredStatus:    doc.Status,
		EffectiveStatus: doc.EffectiveStatus(asOf),
		DaysUntilDue:    doc.DaysUntilDue(asOf),
		DaysOverdue:     doc.DaysOverdue(asOf),
	}
}

// ===========================================
//              VALIDATION
// ===========================================

func (input NewDocument) validate(ctx context.Context, isCreate bool) error {
	if !input.Status.Valid() {
		return errors.New("invalid document status")
	}
	if isCreate {
		if err := utils.ValidateUnique[Document](ctx, "document_number", input.DocumentNumber, 0); err != nil {
			return errors.New("document number already exists")
		}
	}
	// the update path writes term fields directly, so the term must be
	// checked here and not only inside createPaymentTerm
	if err := input.PaymentTerm.validate(ctx); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[DocumentType](ctx, input.DocumentTypeId); err != nil {
		return errors.New("document type not found")
	}
	if err := utils.ValidateResourceId[TransactionType](ctx, input.TransactionTypeId); err != nil {
		return errors.New("transaction type not found")
	}
	if input.PartyId > 0 {
		if err := utils.ValidateResourceId[Party](ctx, input.PartyId); err != nil {
			return errors.New("party not found")
		}
	}

	// a document always needs at least one line; this also rules out a
	// Paid document with nothing to pay
	if len(input.Details) == 0 {
		return errors.New("add at least one product or service to the detail")
	}
	for _, detail := range input.Details {
		if detail.Qty <= 0 {
			return errors.New("detail quantity must be positive")
		}
	}

	if input.DueDate != nil && input.DueDate.Before(input.IssueDate) {
		return errors.New("due date must not precede issue date")
	}

	if input.ProjectId > 0 {
		project, err := GetProject(ctx, input.ProjectId)
		if err != nil {
			return errors.New("project not found")
		}
		if err := project.validateIssueDate(input.IssueDate); err != nil {
			return err
		}
	}

	// issue/claim dates must respect each referenced product's validity window
	for _, detail := range input.Details {
		product, err := GetProduct(ctx, detail.ProductId)
		if err != nil {
			return errors.New("product not found")
		}
		if err := validateDateInProductWindow(product, input.IssueDate, "issue date"); err != nil {
			return err
		}
		if input.ClaimDate != nil {
			if err := validateDateInProductWindow(product, *input.ClaimDate, "claim date"); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateDateInProductWindow(product *Product, d time.Time, label string) error {
	if product.ValidityStart != nil && d.Before(truncateToDay(*product.ValidityStart)) {
		return fmt.Errorf("%s for %s must be on or after %s", label, product.Name, product.ValidityStart.Format("2006-01-02"))
	}
	if product.ValidityEnd != nil && d.After(endOfDay(*product.ValidityEnd)) {
		return fmt.Errorf("%s for %s must be on or before %s", label, product.Name, product.ValidityEnd.Format("2006-01-02"))
	}
	return nil
}

// ===========================================
//              PERSISTENCE
// ===========================================

// DocumentListSummary aggregates the list view header. Tallies use the
// effective (display) status, not the stored one.
type DocumentListSummary struct {
	TotalDocs    int             `json:"total_docs"`
	TotalPending int             `json:"total_pending"`
	TotalPaid    int             `json:"total_paid"`
	TotalHalf    int             `json:"total_half"`
	TotalOverdue int             `json:"total_overdue"`
	GrossTotal   decimal.Decimal `json:"gross_total"`
}

func documentPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("DocumentType").
		Preload("Party").
		Preload("Project").
		Preload("PaymentTerm").
		Preload("PaymentTerm.PaymentType").
		Preload("Details").
		Preload("Details.Product").
		Preload("Payments").
		Preload("Transactions").
		Preload("Transactions.TransactionType")
}

func GetDocuments(ctx context.Context) ([]*Document, *DocumentListSummary, error) {
	db := config.GetDB()
	var documents []*Document
	if err := documentPreloads(db.WithContext(ctx)).
		Order("document_number desc").Find(&documents).Error; err != nil {
		return nil, nil, err
	}

	now := time.Now()
	summary := DocumentListSummary{TotalDocs: len(documents), GrossTotal: decimal.Zero}
	for _, doc := range documents {
		summary.GrossTotal = summary.GrossTotal.Add(doc.Total())
		switch doc.EffectiveStatus(now) {
		case DocumentStatusPending:
			summary.TotalPending++
		case DocumentStatusPaid:
			summary.TotalPaid++
		case DocumentStatusHalf:
			summary.TotalHalf++
		case DocumentStatusOverdue:
			summary.TotalOverdue++
		}
	}
	return documents, &summary, nil
}

func GetDocument(ctx context.Context, documentNumber int) (*Document, error) {
	db := config.GetDB()
	var doc Document
	if err := documentPreloads(db.WithContext(ctx)).
		First(&doc, "document_number = ?", documentNumber).Error; err != nil {
		return nil, errors.New("document not found")
	}
	return &doc, nil
}

func CreateDocument(ctx context.Context, input *NewDocument) (*Document, error) {
	db := config.GetDB()

	if err := input.validate(ctx, true); err != nil {
		return nil, err
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	term, err := createPaymentTerm(tx, ctx, input.PaymentTerm)
	if err != nil {
		return nil, err
	}

	doc := Document{
		DocumentNumber: input.DocumentNumber,
		Status:         input.Status,
		DocumentTypeId: input.DocumentTypeId,
		IssueDate:      input.IssueDate,
		DueDate:        input.DueDate,
		ClaimDate:      input.ClaimDate,
		Notes:          input.Notes,
		PaymentTermId:  term.ID,
	}
	if input.PartyId > 0 {
		doc.PartyId = &input.PartyId
	}
	if input.ProjectId > 0 {
		doc.ProjectId = &input.ProjectId
	}
	if doc.DueDate == nil {
		due := term.DueDateFrom(doc.IssueDate)
		doc.DueDate = &due
	}

	doc.Details, err = buildDetails(ctx, doc.DocumentNumber, input.Details)
	if err != nil {
		return nil, err
	}

	// never trust the submitted status once details are known
	doc.RecomputeStatusFromDetails()

	// associations are created explicitly; a full save would upsert the
	// referenced products
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(&doc).Error; err != nil {
		return nil, err
	}
	for i := range doc.Details {
		if err := tx.WithContext(ctx).Omit("Product").Create(&doc.Details[i]).Error; err != nil {
			return nil, err
		}
	}

	if err := upsertTransaction(tx, ctx, &doc, input.TransactionTypeId); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetDocument(ctx, doc.DocumentNumber)
}

// buildDetails resolves products and clamps paid quantities into [0, qty].
func buildDetails(ctx context.Context, documentNumber int, inputs []NewDocumentDetail) ([]DocumentDetail, error) {
	details := make([]DocumentDetail, 0, len(inputs))
	for _, item := range inputs {
		product, err := GetProduct(ctx, item.ProductId)
		if err != nil {
			return nil, errors.New("product not found")
		}
		qtyPaid := item.QtyPaid
		if qtyPaid < 0 {
			qtyPaid = 0
		}
		if qtyPaid > item.Qty {
			qtyPaid = item.Qty
		}
		productId := product.ID
		details = append(details, DocumentDetail{
			DocumentNumber: documentNumber,
			ProductId:      &productId,
			Product:        product,
			Qty:            item.Qty,
			QtyPaid:        qtyPaid,
			Notes:          item.Notes,
		})
	}
	return details, nil
}

// UpdateDocument replaces the whole detail set (delete-then-recreate), syncs
// the payment term and classification, and recomputes the stored status, all
// in one transaction. The document number itself cannot change.
func UpdateDocument(ctx context.Context, documentNumber int, input *NewDocument) (*Document, error) {
	db := config.GetDB()

	doc, err := GetDocument(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	input.DocumentNumber = documentNumber

	if err := input.validate(ctx, false); err != nil {
		return nil, err
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	doc.DocumentTypeId = input.DocumentTypeId
	doc.IssueDate = input.IssueDate
	doc.DueDate = input.DueDate
	doc.ClaimDate = input.ClaimDate
	doc.Notes = input.Notes
	if input.PartyId > 0 {
		doc.PartyId = &input.PartyId
	} else {
		doc.PartyId = nil
	}
	if input.ProjectId > 0 {
		doc.ProjectId = &input.ProjectId
	} else {
		doc.ProjectId = nil
	}

	// update the existing term in place rather than allocating a new row
	if err := tx.WithContext(ctx).Model(&PaymentTerm{}).Where("id = ?", doc.PaymentTermId).
		Updates(map[string]interface{}{
			"payment_type_id": input.PaymentTerm.PaymentTypeId,
			"days":            input.PaymentTerm.Days,
		}).Error; err != nil {
		return nil, err
	}

	if err := tx.WithContext(ctx).Where("document_number = ?", documentNumber).
		Delete(&DocumentDetail{}).Error; err != nil {
		return nil, err
	}
	doc.Details, err = buildDetails(ctx, documentNumber, input.Details)
	if err != nil {
		return nil, err
	}
	for i := range doc.Details {
		if err := tx.WithContext(ctx).Omit("Product").Create(&doc.Details[i]).Error; err != nil {
			return nil, err
		}
	}

	doc.RecomputeStatusFromDetails()

	if err := tx.WithContext(ctx).Model(&Document{}).
		Where("document_number = ?", documentNumber).
		Updates(map[string]interface{}{
			"status":           doc.Status,
			"document_type_id": doc.DocumentTypeId,
			"party_id":         doc.PartyId,
			"project_id":       doc.ProjectId,
			"issue_date":       doc.IssueDate,
			"due_date":         doc.DueDate,
			"claim_date":       doc.ClaimDate,
			"notes":            doc.Notes,
		}).Error; err != nil {
		return nil, err
	}

	if err := upsertTransaction(tx, ctx, doc, input.TransactionTypeId); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetDocument(ctx, documentNumber)
}

// DeleteDocument removes the document with its owned rows (details,
// payments, classification) and finally its payment term.
func DeleteDocument(ctx context.Context, documentNumber int) error {
	db := config.GetDB()

	doc, err := GetDocument(ctx, documentNumber)
	if err != nil {
		return err
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Where("document_number = ?", documentNumber).
		Delete(&DocumentPayment{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("document_number = ?", documentNumber).
		Delete(&Transaction{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("document_number = ?", documentNumber).
		Delete(&DocumentDetail{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Delete(&Document{}, "document_number = ?", documentNumber).Error; err != nil {
		return err
	}
	if doc.PaymentTermId > 0 {
		if err := tx.WithContext(ctx).Delete(&PaymentTerm{}, doc.PaymentTermId).Error; err != nil {
			return err
		}
	}
	return tx.Commit().Error
}

// DetachDocumentFromProject clears the project reference only.
func DetachDocumentFromProject(ctx context.Context, documentNumber int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Document{}).
		Where("document_number = ?", documentNumber).
		Update("project_id", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("document not found")
	}
	return nil
}
