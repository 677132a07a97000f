package models

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestUpdateUserInput_PasswordOptional(t *testing.T) {
	input := UpdateUserInput{Username: "maria", Email: "maria@example.cl"}
	if err := binding.Validator.ValidateStruct(input); err != nil {
		t.Fatalf("update without password should bind: %v", err)
	}

	input.Password = "short"
	if err := binding.Validator.ValidateStruct(input); err == nil {
		t.Fatalf("short password should be rejected on update")
	}

	input.Password = "longenough"
	if err := binding.Validator.ValidateStruct(input); err != nil {
		t.Fatalf("valid password should bind: %v", err)
	}
}

func TestNewUser_PasswordRequired(t *testing.T) {
	input := NewUser{Username: "maria", Email: "maria@example.cl"}
	if err := binding.Validator.ValidateStruct(input); err == nil {
		t.Fatalf("create without password should be rejected")
	}
}
