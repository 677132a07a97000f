package models

import (
	"github.com/teknetau/gestion_backend/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MigrateAll runs the schema migration and seeds the master tables.
// Safe to run on every boot: seeds upsert by primary key.
func MigrateAll() error {
	db := config.GetDB()

	if err := db.AutoMigrate(
		&Region{},
		&City{},
		&Commune{},
		&Address{},
		&Party{},
		&Product{},
		&Supply{},
		&Project{},
		&PaymentType{},
		&PaymentTerm{},
		&DocumentType{},
		&Document{},
		&DocumentDetail{},
		&DocumentPayment{},
		&TransactionType{},
		&Transaction{},
		&User{},
		&PasswordResetCode{},
	); err != nil {
		return err
	}
	return seedMasterData(db)
}

func seedMasterData(db *gorm.DB) error {
	transactionTypes := []TransactionType{
		{ID: 1, Name: TransactionTypeIncome},
		{ID: 2, Name: TransactionTypeExpense},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&transactionTypes).Error; err != nil {
		return err
	}

	documentTypes := []DocumentType{
		{ID: 1, Name: "Factura"},
		{ID: 2, Name: "Boleta"},
		{ID: 3, Name: "Nota de Crédito"},
		{ID: 4, Name: "Orden de Compra"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&documentTypes).Error; err != nil {
		return err
	}

	paymentTypes := []PaymentType{
		{ID: 1, Name: "Efectivo"},
		{ID: 2, Name: "Transferencia"},
		{ID: 3, Name: "Cheque"},
		{ID: 4, Name: "Tarjeta de Crédito"},
		{ID: 5, Name: "Tarjeta de Débito"},
		{ID: 6, Name: "Crédito"},
		{ID: 7, Name: "Otro"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&paymentTypes).Error; err != nil {
		return err
	}

	return seedGeography(db)
}

// seedGeography loads a starter set of regions with their main cities and
// communes so addresses can be captured before a full geography import.
func seedGeography(db *gorm.DB) error {
	regions := []Region{
		{ID: 13, Name: "Metropolitana de Santiago"},
		{ID: 5, Name: "Valparaíso"},
		{ID: 8, Name: "Biobío"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&regions).Error; err != nil {
		return err
	}

	cities := []City{
		{ID: 1, Name: "Santiago", RegionId: 13},
		{ID: 2, Name: "Valparaíso", RegionId: 5},
		{ID: 3, Name: "Concepción", RegionId: 8},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cities).Error; err != nil {
		return err
	}

	communes := []Commune{
		{ID: 1, Name: "Santiago Centro", CityId: 1},
		{ID: 2, Name: "Providencia", CityId: 1},
		{ID: 3, Name: "Las Condes", CityId: 1},
		{ID: 4, Name: "Valparaíso", CityId: 2},
		{ID: 5, Name: "Viña del Mar", CityId: 2},
		{ID: 6, Name: "Concepción", CityId: 3},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&communes).Error
}
