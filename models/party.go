package models

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/utils"
)

// Party is a client and/or supplier.
type Party struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Rut       string    `gorm:"size:11;not null;unique" json:"rut" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Alias     string    `gorm:"size:100" json:"alias"`
	Phone1    string    `gorm:"size:15;not null" json:"phone1" binding:"required"`
	Phone2    string    `gorm:"size:15" json:"phone2"`
	Email1    string    `gorm:"size:100;not null" json:"email1" binding:"required,email"`
	Email2    string    `gorm:"size:100" json:"email2"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	Kind      PartyKind `gorm:"type:enum('Client','Supplier','Both');default:Client" json:"kind"`
	AddressId *int      `gorm:"default:null" json:"address_id"`
	Address   *Address  `gorm:"foreignKey:AddressId" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewParty struct {
	Rut     string      `json:"rut" binding:"required"`
	Name    string      `json:"name" binding:"required"`
	Alias   string      `json:"alias"`
	Phone1  string      `json:"phone1" binding:"required"`
	Phone2  string      `json:"phone2"`
	Email1  string      `json:"email1" binding:"required,email"`
	Email2  string      `json:"email2"`
	Kind    PartyKind   `json:"kind" binding:"required"`
	Address *NewAddress `json:"address"`
}

var (
	nameRe  = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñ\s]+$`)
	aliasRe = regexp.MustCompile(`^[A-Za-z0-9ÁÉÍÓÚáéíóúÑñ\s]*$`)
)

// FieldErrors maps field name to a user-facing message, for form surfacing.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func (input NewParty) validate(ctx context.Context, exceptId int) error {
	fieldErrs := FieldErrors{}

	if err := utils.ValidateRut(input.Rut); err != nil {
		fieldErrs["rut"] = "enter a valid rut"
	} else if err := utils.ValidateUnique[Party](ctx, "rut", normalizeRutColumn(input.Rut), exceptId); err != nil {
		fieldErrs["rut"] = "rut already registered"
	}
	if !nameRe.MatchString(input.Name) {
		fieldErrs["name"] = "name may contain only letters and spaces"
	}
	if input.Alias != "" && !aliasRe.MatchString(input.Alias) {
		fieldErrs["alias"] = "alias may contain only letters and numbers"
	}
	if err := utils.ValidatePrimaryPhone(input.Phone1); err != nil {
		fieldErrs["phone1"] = err.Error()
	}
	if err := utils.ValidateSecondaryPhone(input.Phone2); err != nil {
		fieldErrs["phone2"] = err.Error()
	}
	if !input.Kind.Valid() {
		fieldErrs["kind"] = "invalid kind"
	}

	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

func normalizeRutColumn(rut string) string {
	body, dv, err := utils.SplitRut(rut)
	if err != nil {
		return rut
	}
	return body + "-" + dv
}

func GetParties(ctx context.Context, activeOnly bool) ([]*Party, error) {
	db := config.GetDB()
	var parties []*Party
	dbCtx := db.WithContext(ctx).
		Preload("Address").
		Preload("Address.Region").
		Preload("Address.City").
		Preload("Address.Commune").
		Order("name")
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	if err := dbCtx.Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

func GetParty(ctx context.Context, id int) (*Party, error) {
	db := config.GetDB()
	var party Party
	if err := db.WithContext(ctx).
		Preload("Address").
		First(&party, id).Error; err != nil {
		return nil, errors.New("party not found")
	}
	return &party, nil
}

func CreateParty(ctx context.Context, input *NewParty) (*Party, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
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

	party := Party{
		Rut:      normalizeRutColumn(input.Rut),
		Name:     input.Name,
		Alias:    input.Alias,
		Phone1:   input.Phone1,
		Phone2:   input.Phone2,
		Email1:   input.Email1,
		Email2:   input.Email2,
		Kind:     input.Kind,
		IsActive: utils.NewTrue(),
	}

	if input.Address != nil {
		address, err := createAddress(tx, ctx, *input.Address)
		if err != nil {
			return nil, err
		}
		party.AddressId = &address.ID
	}

	if err := tx.WithContext(ctx).Create(&party).Error; err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &party, nil
}

func UpdateParty(ctx context.Context, id int, input *NewParty) (*Party, error) {
	db := config.GetDB()

	var party Party
	if err := db.WithContext(ctx).First(&party, id).Error; err != nil {
		return nil, errors.New("party not found")
	}

	if err := input.validate(ctx, id); err != nil {
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

	party.Rut = normalizeRutColumn(input.Rut)
	party.Name = input.Name
	party.Alias = input.Alias
	party.Phone1 = input.Phone1
	party.Phone2 = input.Phone2
	party.Email1 = input.Email1
	party.Email2 = input.Email2
	party.Kind = input.Kind

	if input.Address != nil {
		address, err := createAddress(tx, ctx, *input.Address)
		if err != nil {
			return nil, err
		}
		oldAddressId := 0
		if party.AddressId != nil {
			oldAddressId = *party.AddressId
		}
		party.AddressId = &address.ID
		if err := tx.WithContext(ctx).Save(&party).Error; err != nil {
			return nil, err
		}
		if err := cleanupOrphanAddress(tx, ctx, oldAddressId); err != nil {
			return nil, err
		}
	} else {
		if err := tx.WithContext(ctx).Save(&party).Error; err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// DeactivateParty is the soft alternative to delete.
func DeactivateParty(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Party{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("party not found")
	}
	return nil
}

// DeleteParty removes the party and, in the same transaction, its address
// when nothing else references it. Restricted while documents reference the
// party.
func DeleteParty(ctx context.Context, id int) error {
	db := config.GetDB()

	var party Party
	if err := db.WithContext(ctx).First(&party, id).Error; err != nil {
		return errors.New("party not found")
	}

	var docCount int64
	if err := db.WithContext(ctx).Model(&Document{}).Where("party_id = ?", id).Count(&docCount).Error; err != nil {
		return err
	}
	if docCount > 0 {
		return errors.New("party has documents and cannot be deleted")
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Where("party_id = ?", id).Delete(&Supply{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Delete(&Party{}, id).Error; err != nil {
		return err
	}
	if party.AddressId != nil {
		if err := cleanupOrphanAddress(tx, ctx, *party.AddressId); err != nil {
			return err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	// the cached product list preloads supplier links
	_ = utils.RemoveRedisList[Product]()
	return nil
}
