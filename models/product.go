package models

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/utils"
)

// Product is a sellable product or service. Net and VAT are always derived
// from the gross price and discount on save, never accepted from the client.
type Product struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:50;not null" json:"name" binding:"required"`
	Description   string          `gorm:"size:200" json:"description"`
	GrossPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"gross_price"`
	NetPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"net_price"`
	VatAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"vat_amount"`
	DiscountPct   decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_pct"`
	ValidityStart *time.Time      `json:"validity_start"`
	ValidityEnd   *time.Time      `json:"validity_end"`
	Suppliers     []*Party        `gorm:"many2many:supplies;joinForeignKey:ProductId;joinReferences:PartyId" json:"suppliers,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Supply links a product to a supplying party.
type Supply struct {
	PartyId   int `gorm:"primaryKey" json:"party_id"`
	ProductId int `gorm:"primaryKey" json:"product_id"`
}

type NewProduct struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	GrossPrice    decimal.Decimal `json:"gross_price" binding:"required"`
	DiscountPct   decimal.Decimal `json:"discount_pct"`
	ValidityStart *time.Time      `json:"validity_start"`
	ValidityEnd   *time.Time      `json:"validity_end"`
	SupplierId    int             `json:"supplier_id"`
}

// ProductTotals aggregates the product list for the catalogue header.
type ProductTotals struct {
	TotalNet   decimal.Decimal `json:"total_net"`
	TotalVat   decimal.Decimal `json:"total_vat"`
	TotalGross decimal.Decimal `json:"total_gross"`
}

var productTextRe = regexp.MustCompile(`^[A-Za-z0-9ÁÉÍÓÚáéíóúÑñ .]+$`)

func (input NewProduct) validate(ctx context.Context) error {
	fieldErrs := FieldErrors{}

	if !productTextRe.MatchString(input.Name) {
		fieldErrs["name"] = "only letters, numbers, spaces and dots are allowed"
	}
	if input.Description != "" && !productTextRe.MatchString(input.Description) {
		fieldErrs["description"] = "only letters, numbers, spaces and dots are allowed"
	}
	if !input.GrossPrice.IsPositive() {
		fieldErrs["gross_price"] = "gross price must be positive"
	}
	if input.DiscountPct.IsNegative() || input.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		fieldErrs["discount_pct"] = "discount must be between 0 and 100"
	}
	if input.ValidityStart != nil && input.ValidityEnd != nil && input.ValidityEnd.Before(*input.ValidityStart) {
		fieldErrs["validity_end"] = "validity end must not precede validity start"
	}
	if input.SupplierId > 0 {
		if err := utils.ValidateResourceId[Party](ctx, input.SupplierId); err != nil {
			fieldErrs["supplier_id"] = "supplier not found"
		}
	}

	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

// applyPricing recomputes net, VAT and the final gross from the input price
// and discount. Each figure rounds to whole pesos independently.
func (p *Product) applyPricing(grossInput decimal.Decimal, discountPct decimal.Decimal) {
	net, vat, gross := utils.CalculateNetVatGross(grossInput, discountPct)
	p.NetPrice = net
	p.VatAmount = vat
	p.GrossPrice = gross
	p.DiscountPct = discountPct
}

// productTotalsOf sums the catalogue header figures.
func productTotalsOf(products []*Product) *ProductTotals {
	totals := ProductTotals{}
	for _, p := range products {
		totals.TotalNet = totals.TotalNet.Add(p.NetPrice)
		totals.TotalVat = totals.TotalVat.Add(p.VatAmount)
		totals.TotalGross = totals.TotalGross.Add(p.GrossPrice)
	}
	return &totals
}

/*
caches:
	ProductList, Product:$id
*/

func GetProducts(ctx context.Context) ([]*Product, *ProductTotals, error) {
	cached, err := utils.RetrieveRedisList[Product]()
	if err == nil && cached != nil {
		return cached, productTotalsOf(cached), nil
	}
	db := config.GetDB()
	var products []*Product
	if err := db.WithContext(ctx).Preload("Suppliers").Order("name").Find(&products).Error; err != nil {
		return nil, nil, err
	}
	_ = utils.StoreRedisList[Product](products)
	return products, productTotalsOf(products), nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	cached, err := utils.RetrieveRedis[Product](id)
	if err == nil && cached != nil {
		return cached, nil
	}
	db := config.GetDB()
	var product Product
	if err := db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, errors.New("product not found")
	}
	_ = utils.StoreRedis[Product](&product, id)
	return &product, nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	product := Product{
		Name:          input.Name,
		Description:   input.Description,
		ValidityStart: input.ValidityStart,
		ValidityEnd:   input.ValidityEnd,
	}
	product.applyPricing(input.GrossPrice, input.DiscountPct)

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	if input.SupplierId > 0 {
		supply := Supply{PartyId: input.SupplierId, ProductId: product.ID}
		if err := tx.WithContext(ctx).FirstOrCreate(&supply, supply).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisList[Product]()
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	db := config.GetDB()

	var product Product
	if err := db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, errors.New("product not found")
	}

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.ValidityStart = input.ValidityStart
	product.ValidityEnd = input.ValidityEnd
	product.applyPricing(input.GrossPrice, input.DiscountPct)

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Save(&product).Error; err != nil {
		return nil, err
	}
	if input.SupplierId > 0 {
		supply := Supply{PartyId: input.SupplierId, ProductId: product.ID}
		if err := tx.WithContext(ctx).FirstOrCreate(&supply, supply).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Product](id)
	_ = utils.RemoveRedisList[Product]()
	return &product, nil
}

// DeleteProduct removes the product and detaches the line items that
// reference it. Detached line items keep contributing zero to document
// totals.
func DeleteProduct(ctx context.Context, id int) error {
	db := config.GetDB()

	var product Product
	if err := db.WithContext(ctx).First(&product, id).Error; err != nil {
		return errors.New("product not found")
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Model(&DocumentDetail{}).Where("product_id = ?", id).
		Update("product_id", nil).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("product_id = ?", id).Delete(&Supply{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Delete(&Product{}, id).Error; err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	_ = utils.RemoveRedisItem[Product](id)
	_ = utils.RemoveRedisList[Product]()
	return nil
}
