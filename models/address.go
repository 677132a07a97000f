package models

import (
	"context"
	"errors"
	"time"

	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/utils"
	"gorm.io/gorm"
)

// Region/City/Commune are read-only master tables seeded at migration time.

type Region struct {
	ID   int    `gorm:"primary_key" json:"id"`
	Name string `gorm:"size:50;not null" json:"name"`
}

type City struct {
	ID       int    `gorm:"primary_key" json:"id"`
	Name     string `gorm:"size:50;not null" json:"name"`
	RegionId int    `gorm:"index;not null" json:"region_id"`
}

type Commune struct {
	ID     int    `gorm:"primary_key" json:"id"`
	Name   string `gorm:"size:50;not null" json:"name"`
	CityId int    `gorm:"index;not null" json:"city_id"`
}

type Address struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Street     string    `gorm:"size:100;not null" json:"street" binding:"required"`
	Number     int       `gorm:"not null" json:"number" binding:"required"`
	Extra      string    `gorm:"size:50" json:"extra"`
	PostalCode string    `gorm:"size:10" json:"postal_code"`
	RegionId   int       `gorm:"not null" json:"region_id" binding:"required"`
	CityId     int       `gorm:"not null" json:"city_id" binding:"required"`
	CommuneId  int       `gorm:"not null" json:"commune_id" binding:"required"`
	Region     *Region   `gorm:"foreignKey:RegionId" json:"region,omitempty"`
	City       *City     `gorm:"foreignKey:CityId" json:"city,omitempty"`
	Commune    *Commune  `gorm:"foreignKey:CommuneId" json:"commune,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAddress struct {
	Street     string `json:"street" binding:"required"`
	Number     int    `json:"number" binding:"required"`
	Extra      string `json:"extra"`
	PostalCode string `json:"postal_code"`
	RegionId   int    `json:"region_id" binding:"required"`
	CityId     int    `json:"city_id" binding:"required"`
	CommuneId  int    `json:"commune_id" binding:"required"`
}

func (input NewAddress) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Region](ctx, input.RegionId); err != nil {
		return errors.New("region not found")
	}
	if err := utils.ValidateResourceId[City](ctx, input.CityId); err != nil {
		return errors.New("city not found")
	}
	if err := utils.ValidateResourceId[Commune](ctx, input.CommuneId); err != nil {
		return errors.New("commune not found")
	}
	return nil
}

/*
caches:
	RegionList, CityList, CommuneList
*/

func GetRegions(ctx context.Context) ([]*Region, error) {
	cached, err := utils.RetrieveRedisList[Region]()
	if err == nil && cached != nil {
		return cached, nil
	}
	db := config.GetDB()
	var regions []*Region
	if err := db.WithContext(ctx).Order("name").Find(&regions).Error; err != nil {
		return nil, err
	}
	_ = utils.StoreRedisList[Region](regions)
	return regions, nil
}

func GetCities(ctx context.Context, regionId int) ([]*City, error) {
	db := config.GetDB()
	var cities []*City
	dbCtx := db.WithContext(ctx).Order("name")
	if regionId > 0 {
		dbCtx = dbCtx.Where("region_id = ?", regionId)
	}
	if err := dbCtx.Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

func GetCommunes(ctx context.Context, cityId int) ([]*Commune, error) {
	db := config.GetDB()
	var communes []*Commune
	dbCtx := db.WithContext(ctx).Order("name")
	if cityId > 0 {
		dbCtx = dbCtx.Where("city_id = ?", cityId)
	}
	if err := dbCtx.Find(&communes).Error; err != nil {
		return nil, err
	}
	return communes, nil
}

// createAddress inserts the row inside the caller's transaction.
func createAddress(tx *gorm.DB, ctx context.Context, input NewAddress) (*Address, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	address := Address{
		Street:     input.Street,
		Number:     input.Number,
		Extra:      input.Extra,
		PostalCode: input.PostalCode,
		RegionId:   input.RegionId,
		CityId:     input.CityId,
		CommuneId:  input.CommuneId,
	}
	if err := tx.WithContext(ctx).Create(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// cleanupOrphanAddress deletes the address when no party references it any
// longer. Must run inside the same transaction as the triggering delete.
func cleanupOrphanAddress(tx *gorm.DB, ctx context.Context, addressId int) error {
	if addressId == 0 {
		return nil
	}
	var count int64
	if err := tx.WithContext(ctx).Model(&Party{}).Where("address_id = ?", addressId).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.WithContext(ctx).Delete(&Address{}, addressId).Error
}
