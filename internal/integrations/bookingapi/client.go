package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody ограничение на чтение тела ошибки
const maxErrorBody = 64 << 10

// Client клиент публичного API бронирований
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента API бронирований
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBusiness получает метаданные бизнеса
func (c *Client) GetBusiness(ctx context.Context, slug string) (*Business, error) {
	var resp BusinessResponse
	if err := c.do(ctx, http.MethodGet, c.publicURL(slug, "info"), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Business.Slug == "" {
		resp.Business.Slug = slug
	}
	return &resp.Business, nil
}

// GetServices получает каталог услуг бизнеса
func (c *Client) GetServices(ctx context.Context, slug string) ([]Service, error) {
	var resp ServicesResponse
	if err := c.do(ctx, http.MethodGet, c.publicURL(slug, "services"), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Services == nil {
		return []Service{}, nil
	}
	return resp.Services, nil
}

// CheckServiceAvailability получает слоты для бизнеса по услугам
func (c *Client) CheckServiceAvailability(ctx context.Context, slug string, req ServiceAvailabilityRequest) ([]string, error) {
	return c.checkAvailability(ctx, slug, req)
}

// CheckTableAvailability получает слоты для бронирования столика
func (c *Client) CheckTableAvailability(ctx context.Context, slug string, req TableAvailabilityRequest) ([]string, error) {
	return c.checkAvailability(ctx, slug, req)
}

func (c *Client) checkAvailability(ctx context.Context, slug string, body interface{}) ([]string, error) {
	var resp AvailabilityResponse
	if err := c.do(ctx, http.MethodPost, c.publicURL(slug, "check-availability"), body, &resp); err != nil {
		return nil, err
	}
	if resp.AvailableSlots == nil {
		return []string{}, nil
	}
	return resp.AvailableSlots, nil
}

// CreateAppointment создает запись
// Занятый слот возвращается как ErrConflict только при статусе 409 без кода или с кодом SLOT_UNAVAILABLE
func (c *Client) CreateAppointment(ctx context.Context, slug string, req AppointmentRequest) (*Appointment, error) {
	var resp AppointmentResponse
	if err := c.do(ctx, http.MethodPost, c.publicURL(slug, "appointments"), req, &resp); err != nil {
		return nil, err
	}
	if resp.Appointment.ID == "" {
		return nil, fmt.Errorf("%w: appointment id is missing", ErrInvalidResponse)
	}
	return &resp.Appointment, nil
}

func (c *Client) publicURL(slug, resource string) string {
	return fmt.Sprintf("%s/public/%s/%s", c.baseURL, url.PathEscape(slug), resource)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respErr := c.parseError(resp)
		c.log.Warn("bookingapi: %s %s returned %v, body=%q", method, endpoint, respErr, respErr.Body)
		return respErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

func (c *Client) parseError(resp *http.Response) *ResponseError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	// сообщение берется только из JSON-тела; html-страницы прокси пользователю не показываются
	var body ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		body = ErrorResponse{}
	}

	respErr := &ResponseError{
		StatusCode: resp.StatusCode,
		Code:       body.Code,
		Message:    strings.TrimSpace(body.Text()),
		Body:       strings.TrimSpace(string(raw)),
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		respErr.Kind = ErrNotFound
	case resp.StatusCode == http.StatusConflict && (body.Code == "" || body.Code == codeSlotUnavailable):
		respErr.Kind = ErrConflict
	case resp.StatusCode >= 500:
		respErr.Kind = ErrUnavailable
	default:
		respErr.Kind = ErrRejected
	}
	return respErr
}
