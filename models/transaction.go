package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/utils"
	"gorm.io/gorm"
)

// TransactionType is a seeded master table: Income / Expense.
type TransactionType struct {
	ID   int                 `gorm:"primary_key" json:"id"`
	Name TransactionTypeName `gorm:"size:20;not null" json:"name"`
}

// Transaction classifies a document as income or expense and caches the
// document's computed total. The cached amount is resynced inside every
// mutation that can change the total; the line items stay the source of
// truth.
type Transaction struct {
	ID                int              `gorm:"primary_key" json:"id"`
	DocumentNumber    int              `gorm:"index;not null" json:"document_number"`
	TransactionTypeId int              `gorm:"not null" json:"transaction_type_id"`
	TransactionType   *TransactionType `gorm:"foreignKey:TransactionTypeId" json:"transaction_type,omitempty"`
	TransactionDate   time.Time        `gorm:"not null" json:"transaction_date"`
	Amount            decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

/*
caches:
	TransactionTypeList
*/

func GetTransactionTypes(ctx context.Context) ([]*TransactionType, error) {
	cached, err := utils.RetrieveRedisList[TransactionType]()
	if err == nil && cached != nil {
		return cached, nil
	}
	db := config.GetDB()
	var types []*TransactionType
	if err := db.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, err
	}
	_ = utils.StoreRedisList[TransactionType](types)
	return types, nil
}

// syncTransactionAmount mirrors the document's current total onto its
// transaction row, when one exists.
func syncTransactionAmount(tx *gorm.DB, ctx context.Context, doc *Document) error {
	var transaction Transaction
	err := tx.WithContext(ctx).Where("document_number = ?", doc.DocumentNumber).
		Order("id").First(&transaction).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	transaction.Amount = doc.Total()
	return tx.WithContext(ctx).Save(&transaction).Error
}

// upsertTransaction sets or replaces the document's classification row
// inside the caller's transaction.
func upsertTransaction(tx *gorm.DB, ctx context.Context, doc *Document, transactionTypeId int) error {
	var transaction Transaction
	err := tx.WithContext(ctx).Where("document_number = ?", doc.DocumentNumber).
		Order("id").First(&transaction).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == gorm.ErrRecordNotFound {
		transaction = Transaction{
			DocumentNumber:    doc.DocumentNumber,
			TransactionTypeId: transactionTypeId,
			TransactionDate:   time.Now(),
		}
	} else {
		transaction.TransactionTypeId = transactionTypeId
	}
	transaction.Amount = doc.Total()
	return tx.WithContext(ctx).Save(&transaction).Error
}
