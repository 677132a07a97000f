package models

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:50;unique;not null" json:"username" binding:"required"`
	Email     string    `gorm:"size:100;unique;not null" json:"email" binding:"required,email"`
	FirstName string    `gorm:"size:50" json:"first_name"`
	LastName  string    `gorm:"size:50" json:"last_name"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('A','C');default:'C'" json:"role"`
	IsActive  *bool     `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PasswordResetCode is a single-use code with a short validity window.
type PasswordResetCode struct {
	ID        int       `gorm:"primary_key" json:"id"`
	UserId    int       `gorm:"index;not null" json:"user_id"`
	Code      string    `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewUser struct {
	Username  string   `json:"username" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Password  string   `json:"password" binding:"required,min=8"`
	Role      UserRole `json:"role"`
}

// UpdateUserInput leaves the password optional: a blank password keeps the
// current hash, anything else must still meet the minimum length.
type UpdateUserInput struct {
	Username  string   `json:"username" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Password  string   `json:"password" binding:"omitempty,min=8"`
	Role      UserRole `json:"role"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func validateUserFields(ctx context.Context, username, email string, role UserRole, exceptId int) error {
	fieldErrs := FieldErrors{}
	if role != "" && !role.Valid() {
		fieldErrs["role"] = "invalid role"
	}
	if err := utils.ValidateUnique[User](ctx, "username", username, exceptId); err != nil {
		fieldErrs["username"] = "username already taken"
	}
	if err := utils.ValidateUnique[User](ctx, "email", email, exceptId); err != nil {
		fieldErrs["email"] = "email already registered"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

// Login verifies credentials and issues a JWT. The token is mirrored into
// the cache so logout can revoke it before expiry; the per-user set lets an
// admin revoke everything at once.
func Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).Where("username = ?", input.Username).First(&user).Error; err != nil {
		return nil, errors.New("invalid credentials")
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, errors.New("account is deactivated")
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, errors.New("invalid credentials")
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	lifespan := 24 * time.Hour
	if hours, convErr := strconv.Atoi(strings.TrimSpace(tokenLifespanEnv())); convErr == nil && hours > 0 {
		lifespan = time.Duration(hours) * time.Hour
	}
	_ = config.SetRedisValue("Token:"+token, user.Username, lifespan)
	_ = config.AddRedisSet("Tokens:"+strconv.Itoa(user.ID), token)

	return &LoginResult{Token: token, User: &user}, nil
}

func tokenLifespanEnv() string {
	return utils.GetEnv("TOKEN_HOUR_LIFESPAN", "24")
}

// Logout drops the caller's token from the cache, revoking it immediately.
func Logout(ctx context.Context) error {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok {
		return errors.New("no active session")
	}
	userId, _ := utils.GetUserIdFromContext(ctx)
	_ = config.RemoveRedisKey("Token:" + token)
	_ = config.RemoveRedisSetMember("Tokens:"+strconv.Itoa(userId), token)
	return nil
}

func GetUsers(ctx context.Context) ([]*User, error) {
	db := config.GetDB()
	var users []*User
	if err := db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := validateUserFields(ctx, input.Username, input.Email, input.Role, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	hashedStr := string(hashed)
	role := input.Role
	if role == "" {
		role = UserRoleAccountant
	}
	user := User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  hashedStr,
		Role:      role,
		IsActive:  utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUser(ctx context.Context, id int, input *UpdateUserInput) (*User, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, errors.New("user not found")
	}
	if err := validateUserFields(ctx, input.Username, input.Email, input.Role, id); err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.Password != "" {
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func DeactivateUser(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Model(&User{}).Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	// revoke every live session of the deactivated user
	tokens, _ := config.GetRedisSetMembers("Tokens:" + strconv.Itoa(id))
	for _, token := range tokens {
		_ = config.RemoveRedisKey("Token:" + token)
	}
	_ = config.RemoveRedisKey("Tokens:" + strconv.Itoa(id))
	return nil
}

const passwordResetValidity = 15 * time.Minute

// RequestPasswordReset issues a reset code for the account behind the email.
// The code is returned to the caller for delivery; unknown emails yield the
// same nil error so the endpoint cannot be used to probe accounts.
func RequestPasswordReset(ctx context.Context, email string) (string, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", nil
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := hex.EncodeToString(buf)

	reset := PasswordResetCode{
		UserId:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(passwordResetValidity),
	}
	if err := db.WithContext(ctx).Create(&reset).Error; err != nil {
		return "", err
	}
	return code, nil
}

// ConfirmPasswordReset consumes a valid, unexpired code and sets the new
// password.
func ConfirmPasswordReset(ctx context.Context, code string, newPassword string) error {
	db := config.GetDB()

	if len(newPassword) < 8 {
		return FieldErrors{"password": "password must be at least 8 characters"}
	}

	var reset PasswordResetCode
	if err := db.WithContext(ctx).Where("code = ? AND used = false", code).First(&reset).Error; err != nil {
		return errors.New("invalid reset code")
	}
	if time.Now().After(reset.ExpiresAt) {
		return errors.New("reset code expired")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	hashedStr := string(hashed)

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Model(&User{}).Where("id = ?", reset.UserId).
		Update("password", hashedStr).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Model(&PasswordResetCode{}).Where("id = ?", reset.ID).
		Update("used", true).Error; err != nil {
		return err
	}
	return tx.Commit().Error
}
