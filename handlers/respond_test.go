package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/teknetau/gestion_backend/models"
)

func performOn(t *testing.T, fn func(c *gin.Context)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return w
}

func TestRespondError_FieldErrorsAreScoped(t *testing.T) {
	w := performOn(t, func(c *gin.Context) {
		respondError(c, models.FieldErrors{"rut": "enter a valid rut"})
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Errors["rut"] != "enter a valid rut" {
		t.Fatalf("expected field-scoped rut error, got %v", body.Errors)
	}
}

func TestRespondError_NotFoundMapsTo404(t *testing.T) {
	w := performOn(t, func(c *gin.Context) {
		respondError(c, errors.New("document not found"))
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRespondError_PlainErrorMapsTo400(t *testing.T) {
	w := performOn(t, func(c *gin.Context) {
		respondError(c, errors.New("due date must not precede issue date"))
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRespondError_ConflictMapsTo409(t *testing.T) {
	w := performOn(t, func(c *gin.Context) {
		respondError(c, errors.New("document number already exists"))
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestPathId(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "num", Value: "42"}}

	id, ok := pathId(c, "num")
	if !ok || id != 42 {
		t.Fatalf("expected (42, true), got (%d, %v)", id, ok)
	}

	c.Params = gin.Params{{Key: "num", Value: "abc"}}
	if _, ok := pathId(c, "num"); ok {
		t.Fatalf("expected parse failure for non-numeric id")
	}
}
