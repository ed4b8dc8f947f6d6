package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// APIClient talks JSON over HTTP to the backend REST API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	token      func() string
}

type ClientOption func(*APIClient)

// WithHTTPClient replaces the default client (no timeout).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(ac *APIClient) { ac.httpClient = c }
}

// WithCache caches table lists and customer searches for ttl.
func WithCache(cache Cache, ttl time.Duration) ClientOption {
	return func(ac *APIClient) {
		ac.cache = cache
		ac.cacheTTL = ttl
	}
}

// WithToken sends a bearer token on every request.
func WithToken(token string) ClientOption {
	return WithTokenFunc(func() string { return token })
}

// WithTokenFunc asks fn for the bearer token before each request, for
// tokens that expire while the process runs.
func WithTokenFunc(fn func() string) ClientOption {
	return func(ac *APIClient) { ac.token = fn }
}

func NewAPIClient(baseURL string, opts ...ClientOption) *APIClient {
	ac := &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(ac)
	}
	return ac
}

// ListTables returns every table, or with a date the tables still free that
// day.
func (ac *APIClient) ListTables(ctx context.Context, date string) ([]models.Table, error) {
	path := "/tables"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}

	var tables []models.Table
	if err := ac.getList(ctx, "tables:"+date, path, &tables, "availableTables", "tables"); err != nil {
		return nil, err
	}
	return tables, nil
}

func (ac *APIClient) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	path := "/reservations"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}

	var list []models.Reservation
	if err := ac.getList(ctx, "", path, &list, "reservations"); err != nil {
		return nil, err
	}
	return list, nil
}

func (ac *APIClient) CreateReservation(ctx context.Context, draft models.ReservationDraft) (models.Reservation, error) {
	var r models.Reservation
	body, err := ac.do(ctx, http.MethodPost, "/reservations", draft)
	if err != nil {
		return r, err
	}
	if err := decodeObject(body, &r); err != nil {
		return r, err
	}
	ac.invalidateTables(r.Date)
	return r, nil
}

func (ac *APIClient) UpdateReservation(ctx context.Context, id string, upd ReservationUpdate) (models.Reservation, error) {
	var r models.Reservation
	body, err := ac.do(ctx, http.MethodPut, "/reservations/"+url.PathEscape(id), upd)
	if err != nil {
		return r, err
	}
	if err := decodeObject(body, &r); err != nil {
		return r, err
	}
	ac.invalidateTables(r.Date)
	return r, nil
}

func (ac *APIClient) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	var customers []models.Customer
	path := "/customers/search?q=" + url.QueryEscape(query)
	if err := ac.getList(ctx, "customers:"+query, path, &customers, "customers"); err != nil {
		return nil, err
	}
	return customers, nil
}

func (ac *APIClient) invalidateTables(date string) {
	if ac.cache == nil {
		return
	}
	ac.cache.Delete("tables:")
	if date != "" {
		ac.cache.Delete("tables:" + date)
	}
}

// getList fetches path and decodes a list into out. An empty cacheKey skips
// the cache.
func (ac *APIClient) getList(ctx context.Context, cacheKey, path string, out interface{}, keys ...string) error {
	if ac.cache != nil && cacheKey != "" {
		if raw, ok := ac.cache.Get(cacheKey); ok {
			return json.Unmarshal(raw, out)
		}
	}

	body, err := ac.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	raw, err := unwrapList(body, keys...)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if ac.cache != nil && cacheKey != "" {
		ac.cache.Set(cacheKey, raw, ac.cacheTTL)
	}
	return nil
}

func (ac *APIClient) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("error encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, ac.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ac.token != nil {
		if token := ac.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := ac.httpClient.Do(req)
	if err != nil {
		utils.ErrorLogger.Errorf("%s %s: %v", method, path, err)
		return nil, &BackendError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BackendError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		berr := &BackendError{StatusCode: resp.StatusCode, Message: serverMessage(body)}
		utils.ErrorLogger.Errorf("%s %s: %d %s", method, path, resp.StatusCode, berr.Message)
		return nil, berr
	}
	return body, nil
}

// serverMessage extracts the error detail a backend put in its body.
func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, key := range []string{"message", "error", "detail"} {
		if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// unwrapList accepts a bare array, the {status,message,data} envelope, or an
// object holding the array under one of keys.
func unwrapList(body []byte, keys ...string) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON")
	}
	res := gjson.ParseBytes(body)
	if data := res.Get("data"); data.Exists() && (data.IsArray() || data.IsObject()) {
		res = data
	}
	if res.IsArray() {
		return []byte(res.Raw), nil
	}
	for _, k := range keys {
		if v := res.Get(k); v.IsArray() {
			return []byte(v.Raw), nil
		}
	}
	if data := res.Get("data"); data.Exists() && data.Type == gjson.Null {
		return []byte("[]"), nil
	}
	return nil, fmt.Errorf("no list in response")
}

func decodeObject(body []byte, out interface{}) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("invalid JSON")
	}
	res := gjson.ParseBytes(body)
	if data := res.Get("data"); data.IsObject() {
		return json.Unmarshal([]byte(data.Raw), out)
	}
	return json.Unmarshal(body, out)
}
