package enter_step

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/service/flow"
	"github.com/m04kA/SMC-BookingFlow/internal/service/sessions"
	"github.com/m04kA/SMC-BookingFlow/pkg/logger"
)

type fakeService struct {
	decision flow.Decision
	err      error
	calls    int
}

func (f *fakeService) EnterStep(ctx context.Context, id string, step domain.Step) (flow.Decision, error) {
	f.calls++
	return f.decision, f.err
}

func request(step string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s-1/steps/x", nil)
	return mux.SetURLVars(req, map[string]string{"sessionId": "s-1", "step": step})
}

func TestHandle_Redirect(t *testing.T) {
	svc := &fakeService{decision: flow.Decision{
		Allowed:    false,
		Step:       domain.StepConfirm,
		RedirectTo: domain.StepSelectService,
	}}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, request(string(domain.StepConfirm)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"allowed":false,"step":"confirm","redirectTo":"select-service"}`, rec.Body.String())
}

func TestHandle_Allowed(t *testing.T) {
	svc := &fakeService{decision: flow.Decision{Allowed: true, Step: domain.StepClientDetails}}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, request(string(domain.StepClientDetails)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"allowed":true,"step":"client-details"}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, request("payment"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)

	svc.err = sessions.ErrSessionNotFound
	rec = httptest.NewRecorder()
	h.Handle(rec, request(string(domain.StepConfirm)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
