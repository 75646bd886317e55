package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationHelper(t *testing.T) {
	vh := NewValidationHelper()

	type payload struct {
		Email string `validate:"required,email"`
		Count int    `validate:"gte=0"`
	}

	t.Run("valid struct", func(t *testing.T) {
		assert.NoError(t, vh.ValidateStruct(&payload{Email: "a@b.com", Count: 3}))
	})

	t.Run("invalid struct", func(t *testing.T) {
		err := vh.ValidateStruct(&payload{Email: "nope", Count: -1})
		assert.Error(t, err)
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("plain error body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SendErrorResponse(rec, "Insufficient credits", http.StatusPaymentRequired, nil)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Insufficient credits", resp.Error)
		assert.Empty(t, resp.Details)
	})

	t.Run("validation details are expanded per field", func(t *testing.T) {
		vh := NewValidationHelper()
		type payload struct {
			Email string `validate:"required,email"`
		}
		err := vh.ValidateStruct(&payload{Email: "nope"})
		assert.Error(t, err)

		rec := httptest.NewRecorder()
		SendErrorResponse(rec, "Validation failed", http.StatusBadRequest, err)

		var resp ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Details, "Email")
	})

	t.Run("non-validator error omits details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SendErrorResponse(rec, "Something failed", http.StatusInternalServerError, assert.AnError)

		var resp ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Details)
	})
}
