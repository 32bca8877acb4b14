package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pitch-booking/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: pitch 1", usecase.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: hour outside working hours", usecase.ErrInvalidInput), http.StatusBadRequest},
		{usecase.ErrSlotConflict, http.StatusConflict},
		{usecase.ErrInvalidState, http.StatusConflict},
		{usecase.ErrAlreadyUsed, http.StatusConflict},
		{usecase.ErrConflict, http.StatusConflict},
		{usecase.ErrQuotaExceeded, http.StatusUnprocessableEntity},
		{usecase.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{usecase.ErrScopeMismatch, http.StatusUnprocessableEntity},
		{usecase.ErrForbidden, http.StatusForbidden},
		{usecase.ErrUnauthorized, http.StatusUnauthorized},
		{usecase.ErrExpired, http.StatusGone},
		{fmt.Errorf("find pitch: %w", usecase.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, zap.NewNop(), tc.err, "test")
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestWriteServiceError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &usecase.ValidationError{Fields: map[string]string{"CustomerEmail": "must be a valid email"}}

	writeServiceError(rec, zap.NewNop(), err, "create booking")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Status bool              `json:"status"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Status)
	assert.Equal(t, "must be a valid email", body.Errors["CustomerEmail"])
}

func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), errors.New("pq: connection refused to 10.0.0.3"), "get pitch")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}
