package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teknetau/gestion_backend/config"
)

// DocumentPayment is an append-only money movement against a document.
// Amounts are signed: positive rows record collections, negative rows
// reverse an overpayment or register a credit. Rows are never edited or
// deleted individually; corrections are made with compensating entries.
type DocumentPayment struct {
	ID             int             `gorm:"primary_key" json:"id"`
	DocumentNumber int             `gorm:"index;not null" json:"document_number"`
	PaymentDate    time.Time       `gorm:"not null" json:"payment_date"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Memo           string          `gorm:"size:200" json:"memo"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewDocumentPayment struct {
	PaymentDate *time.Time      `json:"payment_date"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Memo        string          `json:"memo"`
}

func (input NewDocumentPayment) validate() error {
	fieldErrs := FieldErrors{}
	if input.Amount.IsZero() {
		fieldErrs["amount"] = "amount must not be zero"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

// RecordDocumentPayment appends one payment row and resyncs the cached
// transaction amount. The stored status stays a function of line-item
// quantities only, so a payment never rewrites it; callers read the
// financial snapshot for the payment-based view.
func RecordDocumentPayment(ctx context.Context, documentNumber int, input *NewDocumentPayment) (*Document, error) {
	db := config.GetDB()

	doc, err := GetDocument(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	paymentDate := time.Now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	payment := DocumentPayment{
		DocumentNumber: documentNumber,
		PaymentDate:    paymentDate,
		Amount:         input.Amount,
		Memo:           input.Memo,
	}
	if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}
	if err := syncTransactionAmount(tx, ctx, doc); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetDocument(ctx, documentNumber)
}
