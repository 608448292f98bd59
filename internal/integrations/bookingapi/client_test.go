package bookingapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingFlow/pkg/logger"
	"github.com/m04kA/SMC-BookingFlow/pkg/ptr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, logger.NewNop())
}

func TestClient_GetServices_FlexibleFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/public/bella-estetica/services", r.URL.Path)
		_, _ = io.WriteString(w, `{"services":[
			{"id":1,"name":"Corte","duration_minutes":45,"price":"35.50"},
			{"id":"abc","name":"Manicura","durationMinutes":30,"price":20,"emoji":"💅"}
		]}`)
	})

	services, err := c.GetServices(context.Background(), "bella-estetica")
	require.NoError(t, err)
	require.Len(t, services, 2)

	assert.Equal(t, FlexString("1"), services[0].ID)
	assert.Equal(t, 45, services[0].DurationMinutes)
	assert.InDelta(t, 35.5, float64(services[0].Price), 0.001)

	assert.Equal(t, FlexString("abc"), services[1].ID)
	assert.Equal(t, 30, services[1].DurationMinutes)
	require.NotNil(t, services[1].Emoji)
}

func TestClient_GetBusiness_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Business not found"}`)
	})

	_, err := c.GetBusiness(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Business not found", UserMessage(err))
}

func TestClient_AvailabilityRequestShapes(t *testing.T) {
	var bodies []map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/slug/check-availability", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		_, _ = io.WriteString(w, `{"availableSlots":["10:00","09:30"]}`)
	})

	slots, err := c.CheckServiceAvailability(context.Background(), "slug", ServiceAvailabilityRequest{
		Date: "2025-03-01", ServiceID: "1", DurationMinutes: 75,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "09:30"}, slots, "server order is kept")

	_, err = c.CheckTableAvailability(context.Background(), "slug", TableAvailabilityRequest{
		Date: "2025-03-01", DurationMinutes: 90, PartySize: 4,
	})
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	_, hasParty := bodies[0]["partySize"]
	assert.False(t, hasParty, "service query must not carry partySize")
	assert.Equal(t, "1", bodies[0]["serviceId"])

	assert.Equal(t, float64(4), bodies[1]["partySize"])
	serviceID, hasService := bodies[1]["serviceId"]
	assert.True(t, hasService)
	assert.Nil(t, serviceID)
}

func TestClient_CreateAppointment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 4, ptr.Value(req.PartySize))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"appointment":{"id":987,"clientName":"Ana","scheduledDate":"2025-03-01","appointmentTime":"20:00","durationMinutes":90}}`)
	})

	appt, err := c.CreateAppointment(context.Background(), "trattoria", AppointmentRequest{
		ClientName: "Ana", PartySize: ptr.Ptr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, FlexString("987"), appt.ID)
	assert.Equal(t, 90, appt.DurationMinutes)
}

func TestClient_CreateAppointment_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{"conflict without code", http.StatusConflict, `{"error":"Horario no disponible"}`, ErrConflict, "Horario no disponible"},
		{"conflict with slot code", http.StatusConflict, `{"message":"taken","code":"SLOT_UNAVAILABLE"}`, ErrConflict, "taken"},
		{"conflict with other code", http.StatusConflict, `{"message":"duplicate","code":"DUPLICATE_CLIENT"}`, ErrRejected, "duplicate"},
		{"bad request", http.StatusBadRequest, `{"error":"invalid email"}`, ErrRejected, "invalid email"},
		{"server error", http.StatusInternalServerError, `{"error":"database is down"}`, ErrUnavailable, "database is down"},
		{"plain text body", http.StatusInternalServerError, `oops`, ErrUnavailable, ""},
		{"json without message", http.StatusBadRequest, `{"code":"BAD"}`, ErrRejected, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.CreateAppointment(context.Background(), "slug", AppointmentRequest{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.message, UserMessage(err))

			var respErr *ResponseError
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, tt.status, respErr.StatusCode)
		})
	}
}

func TestClient_ProxyErrorPageIsNotAMessage(t *testing.T) {
	page := "<html><body><h1>502 Bad Gateway</h1><hr><center>nginx</center></body></html>"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, page)
	})

	_, err := c.CreateAppointment(context.Background(), "slug", AppointmentRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, UserMessage(err))
	assert.NotContains(t, err.Error(), "nginx")

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, page, respErr.Body)
}

func TestClient_TransportAndDecodeErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})
	_, err := c.GetServices(context.Background(), "slug")
	assert.ErrorIs(t, err, ErrInvalidResponse)

	dead := NewClient("http://127.0.0.1:1", 200*time.Millisecond, logger.NewNop())
	_, err = dead.GetServices(context.Background(), "slug")
	assert.ErrorIs(t, err, ErrInternal)
}
