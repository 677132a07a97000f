package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teknetau/gestion_backend/config"
)

type Project struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Description  string          `gorm:"size:200;not null" json:"description" binding:"required"`
	Observations string          `gorm:"type:text" json:"observations"`
	Status       ProjectStatus   `gorm:"type:enum('Pending','InProgress','Finished','Cancelled');not null" json:"status" binding:"required"`
	RequestDate  time.Time       `gorm:"not null" json:"request_date" binding:"required"`
	EndDate      *time.Time      `json:"end_date"`
	Budget       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"budget"`
	ClientId     *int            `gorm:"default:null" json:"client_id"`
	Client       *Party          `gorm:"foreignKey:ClientId" json:"client,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProject struct {
	Description  string          `json:"description" binding:"required"`
	Observations string          `json:"observations"`
	Status       ProjectStatus   `json:"status" binding:"required"`
	RequestDate  time.Time       `json:"request_date" binding:"required"`
	EndDate      *time.Time      `json:"end_date"`
	Budget       decimal.Decimal `json:"budget"`
	ClientId     int             `json:"client_id"`
}

func (input NewProject) validate() error {
	fieldErrs := FieldErrors{}
	if !input.Status.Valid() {
		fieldErrs["status"] = "invalid status"
	}
	if input.EndDate != nil && input.EndDate.Before(input.RequestDate) {
		fieldErrs["end_date"] = "end date must not precede request date"
	}
	if input.Budget.IsNegative() {
		fieldErrs["budget"] = "budget must not be negative"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

// containsDate reports whether d falls inside the project's validity window.
// An unset end date leaves the window open-ended.
func (p Project) containsDate(d time.Time) bool {
	if d.Before(truncateToDay(p.RequestDate)) {
		return false
	}
	if p.EndDate != nil && d.After(endOfDay(*p.EndDate)) {
		return false
	}
	return true
}

func (p Project) validateIssueDate(issueDate time.Time) error {
	if !p.containsDate(issueDate) {
		return fmt.Errorf("issue date is outside the validity window of project %q", p.Description)
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func GetProjects(ctx context.Context) ([]*Project, error) {
	db := config.GetDB()
	var projects []*Project
	if err := db.WithContext(ctx).Preload("Client").Order("id desc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func GetProject(ctx context.Context, id int) (*Project, error) {
	db := config.GetDB()
	var project Project
	if err := db.WithContext(ctx).Preload("Client").First(&project, id).Error; err != nil {
		return nil, errors.New("project not found")
	}
	return &project, nil
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {
	db := config.GetDB()

	if err := input.validate(); err != nil {
		return nil, err
	}
	project := Project{
		Description:  input.Description,
		Observations: input.Observations,
		Status:       input.Status,
		RequestDate:  input.RequestDate,
		EndDate:      input.EndDate,
		Budget:       input.Budget,
	}
	if input.ClientId > 0 {
		project.ClientId = &input.ClientId
	}
	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func UpdateProject(ctx context.Context, id int, input *NewProject) (*Project, error) {
	db := config.GetDB()

	var project Project
	if err := db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, errors.New("project not found")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	project.Description = input.Description
	project.Observations = input.Observations
	project.Status = input.Status
	project.RequestDate = input.RequestDate
	project.EndDate = input.EndDate
	project.Budget = input.Budget
	if input.ClientId > 0 {
		project.ClientId = &input.ClientId
	} else {
		project.ClientId = nil
	}

	if err := db.WithContext(ctx).Save(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject detaches the project's documents instead of deleting them;
// the documents themselves survive unassigned.
func DeleteProject(ctx context.Context, id int) error {
	db := config.GetDB()

	var project Project
	if err := db.WithContext(ctx).First(&project, id).Error; err != nil {
		return errors.New("project not found")
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Model(&Document{}).Where("project_id = ?", id).
		Update("project_id", nil).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Delete(&Project{}, id).Error; err != nil {
		return err
	}
	return tx.Commit().Error
}
