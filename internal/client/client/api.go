package client

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

	"github.com/dmitrijs2005/eliteglam/internal/client/models"
	"github.com/dmitrijs2005/eliteglam/internal/client/session"
	"github.com/dmitrijs2005/eliteglam/internal/common"
)

type APIClient struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

// NewAPIClient builds a client for the API at baseURL whose requests are
// authenticated from s.
func NewAPIClient(baseURL string, s *session.Session, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: session.NewTransport(http.DefaultTransport, s),
			Timeout:   timeout,
		},
		session: s,
	}
}

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			apiErr.Kind = eb.Error
			apiErr.Message = eb.Message
			apiErr.Details = eb.Details
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// --- auth ---

// Register creates an account. It does not sign the user in.
func (c *APIClient) Register(ctx context.Context, r models.RegisterRequest) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodPost, "/auth/register", r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type loginResponse struct {
	User  session.User `json:"user"`
	Token string       `json:"token"`
}

// Login signs in and persists the session. A response without a
// three-segment token is rejected before anything is stored.
func (c *APIClient) Login(ctx context.Context, email, password string) (*session.User, error) {
	var lr loginResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &lr); err != nil {
		return nil, err
	}

	if lr.Token == "" || !common.HasTokenShape(common.StripBearer(lr.Token)) {
		return nil, ErrInvalidLogin
	}

	if err := c.session.Persist(ctx, session.Credential{User: lr.User, Token: lr.Token}); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &lr.User, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	return c.session.Clear(ctx)
}

// --- users ---

func (c *APIClient) Me(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProfileChanges is a partial profile update; nil fields are kept.
type ProfileChanges struct {
	Username  *string
	FirstName *string
	LastName  *string
	PhotoURL  *string
}

func (c *APIClient) UpdateMe(ctx context.Context, ch ProfileChanges) (*models.Profile, error) {
	in := map[string]any{}
	if ch.Username != nil {
		in["username"] = *ch.Username
	}
	details := map[string]string{}
	if ch.FirstName != nil {
		details["firstName"] = *ch.FirstName
	}
	if ch.LastName != nil {
		details["lastName"] = *ch.LastName
	}
	if ch.PhotoURL != nil {
		details["photoURL"] = *ch.PhotoURL
	}
	if len(details) > 0 {
		in["profile"] = details
	}

	var p models.Profile
	if err := c.do(ctx, http.MethodPatch, "/users/me", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// --- products ---

func (c *APIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var list []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *APIClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *APIClient) CreateProduct(ctx context.Context, in models.NewProduct) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodPost, "/products", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *APIClient) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

// --- bookings ---

func (c *APIClient) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var list []models.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *APIClient) CreateBooking(ctx context.Context, in models.NewBooking) (*models.Booking, error) {
	var b models.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *APIClient) SetBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	var b models.Booking
	in := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/bookings/"+url.PathEscape(id)+"/status", in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *APIClient) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/"+url.PathEscape(id)+"/cancel", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Ping reports whether the API answers its health check.
func (c *APIClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
