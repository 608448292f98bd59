package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-BookingFlow/internal/service/catalog"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions"
	"github.com/m04kA/SMC-BookingFlow/internal/validation"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"field errors", validation.Errors{{Field: validation.FieldPhone, Message: "x"}}, http.StatusBadRequest, CodeValidation},
		{"validation", fmt.Errorf("%w: party size", domain.ErrValidation), http.StatusBadRequest, CodeValidation},
		{"state", fmt.Errorf("%w: submitting", domain.ErrState), http.StatusConflict, CodeState},
		{"session not found", fmt.Errorf("%w: id=1", sessions.ErrSessionNotFound), http.StatusNotFound, CodeNotFound},
		{"business not found", catalog.ErrBusinessNotFound, http.StatusNotFound, CodeNotFound},
		{"service not found", catalog.ErrServiceNotFound, http.StatusBadRequest, CodeValidation},
		{"slot conflict", fmt.Errorf("%w: taken", domain.ErrSlotConflict), http.StatusConflict, CodeSlotConflict},
		{"submission", fmt.Errorf("%w: boom", domain.ErrSubmission), http.StatusBadGateway, CodeSubmission},
		{"upstream", catalog.ErrUnavailable, http.StatusServiceUnavailable, CodeUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ErrorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestErrorStatus_FieldErrorsAndServerMessage(t *testing.T) {
	_, body := ErrorStatus(validation.Errors{{Field: validation.FieldEmail, Message: "bad"}})
	assert.Equal(t, map[string]string{validation.FieldEmail: "bad"}, body.Fields)

	apiErr := &bookingapi.ResponseError{Kind: bookingapi.ErrRejected, StatusCode: 422, Message: "closed on sundays"}
	_, body = ErrorStatus(fmt.Errorf("%w: %w", domain.ErrSubmission, apiErr))
	assert.Equal(t, "closed on sundays", body.Error)
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorCode(rec, http.StatusConflict, CodeState, "nope")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"nope","code":"STATE_ERROR"}`, rec.Body.String())
}
