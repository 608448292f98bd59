package update_selection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions/models"
	"github.com/m04kA/SMC-BookingFlow/internal/validation"
	"github.com/m04kA/SMC-BookingFlow/pkg/logger"
)

type fakeService struct {
	SessionService
	calls     []string
	partySize int
	client    [3]string
	err       error
}

func (f *fakeService) SetPartySize(ctx context.Context, id string, partySize int) (*models.SessionView, error) {
	f.calls = append(f.calls, "party-size:"+id)
	f.partySize = partySize
	return &models.SessionView{ID: id}, f.err
}

func (f *fakeService) SetClientDetails(ctx context.Context, id, name, phone, email string) (*models.SessionView, error) {
	f.calls = append(f.calls, "client:"+id)
	f.client = [3]string{name, phone, email}
	return &models.SessionView{ID: id}, f.err
}

func (f *fakeService) SelectService(ctx context.Context, id, serviceID string) (*models.SessionView, error) {
	f.calls = append(f.calls, "service:"+serviceID)
	return &models.SessionView{ID: id}, f.err
}

func (f *fakeService) AddOnCandidates(ctx context.Context, id string) ([]domain.Service, error) {
	return nil, f.err
}

func request(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/sessions/s-1/x", strings.NewReader(body))
	return mux.SetURLVars(req, map[string]string{"sessionId": "s-1"})
}

func TestHandlePartySize(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandlePartySize(rec, request(http.MethodPut, `{"partySize": 4}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, svc.partySize)
	assert.Equal(t, []string{"party-size:s-1"}, svc.calls)
}

func TestHandlePartySize_RejectedByDomain(t *testing.T) {
	svc := &fakeService{err: domain.ErrValidation}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandlePartySize(rec, request(http.MethodPut, `{"partySize": 0}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestHandleClient(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleClient(rec, request(http.MethodPut, `{"name":"Ana","phone":"+34 600 123 456","email":"ana@example.com"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [3]string{"Ana", "+34 600 123 456", "ana@example.com"}, svc.client)
}

func TestHandleService_BadBodies(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	for _, body := range []string{``, `{"serviceId": ""}`, `{"unknown": 1}`, `not json`} {
		rec := httptest.NewRecorder()
		h.HandleService(rec, request(http.MethodPut, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, svc.calls)
}

func TestHandleAddOnCandidates_EmptyList(t *testing.T) {
	h := NewHandler(&fakeService{}, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleAddOnCandidates(rec, request(http.MethodGet, ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"services":[]}`, rec.Body.String())
}

func TestHandleClient_FieldErrorsFromService(t *testing.T) {
	svc := &fakeService{err: validation.Errors{{Field: validation.FieldName, Message: "x"}}}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleClient(rec, request(http.MethodPut, `{"name":"A","phone":"","email":""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"x"`)
}
