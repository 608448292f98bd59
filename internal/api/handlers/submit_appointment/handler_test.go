package submit_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
	"github.com/m04kA/SMC-BookingFlow/pkg/logger"
)

type fakeService struct {
	lastID string
	view   *models.SessionView
	err    error
}

func (f *fakeService) Submit(ctx context.Context, id string) (*models.SessionView, error) {
	f.lastID = id
	return f.view, f.err
}

func serve(t *testing.T, svc *fakeService) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s-1/submit", nil)
	req = mux.SetURLVars(req, map[string]string{"sessionId": "s-1"})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Confirmed(t *testing.T) {
	svc := &fakeService{view: &models.SessionView{
		ID:           "s-1",
		Status:       domain.StatusConfirmed,
		Confirmation: &models.ConfirmationView{AppointmentID: "apt-1"},
	}}

	rec := serve(t, svc)

	assert.Equal(t, "s-1", svc.lastID)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var body models.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "apt-1", body.Confirmation.AppointmentID)
}

func TestHandle_SlotConflictCarriesSession(t *testing.T) {
	svc := &fakeService{
		view: &models.SessionView{
			ID:          "s-1",
			Status:      domain.StatusBuilding,
			LastFailure: &domain.SubmissionFailure{Kind: domain.FailureSlotConflict, Message: "время занято"},
		},
		err: fmt.Errorf("%w: taken", domain.ErrSlotConflict),
	}

	rec := serve(t, svc)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body SubmitErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SLOT_CONFLICT", body.Code)
	assert.Equal(t, "время занято", body.Error)
	require.NotNil(t, body.Session)
	assert.Equal(t, domain.StatusBuilding, body.Session.Status)
}

func TestHandle_StateErrorWithoutSession(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: submission in progress", domain.ErrState)}

	rec := serve(t, svc)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body SubmitErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "STATE_ERROR", body.Code)
	assert.Nil(t, body.Session)
}
