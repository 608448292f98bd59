package finish_session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
	"github.com/m04kA/SMC-BookingFlow/pkg/logger"
)

type fakeService struct {
	calls []string
	err   error
}

func (f *fakeService) Acknowledge(ctx context.Context, id string) (*models.SessionView, error) {
	f.calls = append(f.calls, "acknowledge:"+id)
	if f.err != nil {
		return nil, f.err
	}
	return &models.SessionView{ID: id, Status: domain.StatusBuilding}, nil
}

func (f *fakeService) Reset(ctx context.Context, id string) (*models.SessionView, error) {
	f.calls = append(f.calls, "reset:"+id)
	if f.err != nil {
		return nil, f.err
	}
	return &models.SessionView{ID: id, Status: domain.StatusBuilding}, nil
}

func request(path string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s-1/"+path, nil)
	return mux.SetURLVars(req, map[string]string{"sessionId": "s-1"})
}

func TestHandleAcknowledgeAndReset(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleAcknowledge(rec, request("acknowledge"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleReset(rec, request("reset"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"building"`)

	assert.Equal(t, []string{"acknowledge:s-1", "reset:s-1"}, svc.calls)
}

func TestHandle_StateErrors(t *testing.T) {
	h := NewHandler(&fakeService{err: domain.ErrState}, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleAcknowledge(rec, request("acknowledge"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "STATE_ERROR")

	rec = httptest.NewRecorder()
	h.HandleReset(rec, request("reset"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
