package models

import (
	"context"
	"time"

	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/utils"
	"gorm.io/gorm"
)

// PaymentType is a seeded master table (cash, credit card, transfer...).
type PaymentType struct {
	ID   int    `gorm:"primary_key" json:"id"`
	Name string `gorm:"size:30;not null" json:"name"`
}

// PaymentTerm pairs a payment type with a day count. One row per document;
// created and deleted together with its document.
type PaymentTerm struct {
	ID            int          `gorm:"primary_key" json:"id"`
	PaymentTypeId int          `gorm:"not null" json:"payment_type_id"`
	PaymentType   *PaymentType `gorm:"foreignKey:PaymentTypeId" json:"payment_type,omitempty"`
	Days          int          `gorm:"not null" json:"days"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPaymentTerm struct {
	PaymentTypeId int `json:"payment_type_id" binding:"required"`
	Days          int `json:"days" binding:"required"`
}

func (input NewPaymentTerm) validate(ctx context.Context) error {
	fieldErrs := FieldErrors{}
	if err := utils.ValidateResourceId[PaymentType](ctx, input.PaymentTypeId); err != nil {
		fieldErrs["payment_type_id"] = "payment type not found"
	}
	if input.Days <= 0 {
		fieldErrs["days"] = "payment days must be greater than zero"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

// DueDateFrom derives a due date from the issue date and the term's days.
func (pt PaymentTerm) DueDateFrom(issueDate time.Time) time.Time {
	return issueDate.AddDate(0, 0, pt.Days)
}

func createPaymentTerm(tx *gorm.DB, ctx context.Context, input NewPaymentTerm) (*PaymentTerm, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	term := PaymentTerm{
		PaymentTypeId: input.PaymentTypeId,
		Days:          input.Days,
	}
	if err := tx.WithContext(ctx).Create(&term).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

/*
caches:
	PaymentTypeList
*/

func GetPaymentTypes(ctx context.Context) ([]*PaymentType, error) {
	cached, err := utils.RetrieveRedisList[PaymentType]()
	if err == nil && cached != nil {
		return cached, nil
	}
	db := config.GetDB()
	var types []*PaymentType
	if err := db.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, err
	}
	_ = utils.StoreRedisList[PaymentType](types)
	return types, nil
}
