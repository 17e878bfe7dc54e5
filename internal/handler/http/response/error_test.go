package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/attendance"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/reward"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/validator"
)

func handle(err error) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	HandleError(rec, err)
	return rec
}

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", employee.ErrEmployeeNotFound, http.StatusNotFound},
		{"conflict", attendance.ErrAlreadyCheckedIn, http.StatusConflict},
		{"bad request", attendance.ErrNotCheckedIn, http.StatusBadRequest},
		{"invalid pin", employee.ErrInvalidPIN, http.StatusUnauthorized},
		{"inactive employee", employee.ErrEmployeeInactive, http.StatusForbidden},
		{"out of stock", reward.ErrOutOfStock, http.StatusConflict},
		{"already processed", reward.ErrAlreadyProcessed, http.StatusConflict},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := handle(tt.err)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandleErrorWrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), reward.ErrRewardNotFound)
	rec := handle(wrapped)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleErrorValidation(t *testing.T) {
	errs := validator.ValidationErrors{
		{Field: "email", Message: "email is invalid"},
	}
	rec := handle(errs)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "email is invalid", body.Error.Details["email"])
}

func TestHandleErrorInsufficientBalance(t *testing.T) {
	err := &gamification.InsufficientBalanceError{
		Currency:  gamification.CurrencyCoins,
		Required:  50,
		Available: 20,
	}
	rec := handle(err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "50", body.Error.Details["required"])
	assert.Equal(t, "20", body.Error.Details["available"])
	assert.Equal(t, "COINS", body.Error.Details["currency"])
}
