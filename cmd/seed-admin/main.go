// seed-admin creates or updates the bootstrap admin user.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
//
// Override the defaults with ADMIN_USERNAME / ADMIN_PASSWORD / ADMIN_EMAIL.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/models"
	"github.com/teknetau/gestion_backend/utils"
	"gorm.io/gorm"
)

func main() {
	username := utils.GetEnv("ADMIN_USERNAME", "admin")
	password := utils.GetEnv("ADMIN_PASSWORD", "Gesti0n.Admin")
	email := utils.GetEnv("ADMIN_EMAIL", "admin@localhost")

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.MigrateAll(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Username: username,
			Email:    email,
			Password: hashedStr,
			Role:     models.UserRoleAdmin,
			IsActive: utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created admin user: username=%q\n", username)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Updates(map[string]any{
		"password":  hashedStr,
		"email":     email,
		"is_active": utils.NewTrue(),
		"role":      models.UserRoleAdmin,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated admin user: username=%q\n", username)
}
