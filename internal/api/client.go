// Package api provides the HTTP client for the lead management REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"leadconsole/platform/apperr"
	"leadconsole/platform/logger"
)

// Config is the subset of configuration the client needs.
type Config interface {
	GetAPIBaseURL() string
	GetAPIToken() string
	GetAPITimeout() time.Duration
	GetAPIRateLimit() float64
}

// Client is the HTTP client for the lead API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
	log        *logger.Logger
	now        func() time.Time
}

// New creates a new lead API client.
func New(cfg Config, log *logger.Logger) *Client {
	rps := cfg.GetAPIRateLimit()
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetAPITimeout()},
		baseURL:    cfg.GetAPIBaseURL(),
		token:      cfg.GetAPIToken(),
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		log:        log,
		now:        time.Now,
	}
}

// GetLead fetches the full entity representation, computed
// relationship sub-objects included.
func (c *Client) GetLead(ctx context.Context, id int64) (Lead, error) {
	var lead Lead
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/entity/%d", id), nil, &lead)
	return lead, err
}

// UpdateLead sends the complete writable representation of a lead.
// Computed fields on the input are stripped before submission.
func (c *Client) UpdateLead(ctx context.Context, lead Lead) (Lead, error) {
	var updated Lead
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/entity/%d", lead.ID), updateBodyFrom(lead), &updated)
	return updated, err
}

// ListActivity fetches one page of raw timeline records for a lead.
func (c *Client) ListActivity(ctx context.Context, leadID int64, offset, limit int) ([]ActivityRecord, error) {
	params := url.Values{}
	params.Set("offset", fmt.Sprintf("%d", offset))
	params.Set("limit", fmt.Sprintf("%d", limit))

	var env listEnvelope[ActivityRecord]
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/entity/%d/activity?%s", leadID, params.Encode()), nil, &env)
	if err != nil {
		return nil, err
	}
	return env.Records, nil
}

// ListStatuses fetches the status lookup list.
func (c *Client) ListStatuses(ctx context.Context) ([]ListItem, error) {
	return c.listItems(ctx, "/status-list")
}

// ListSources fetches the source lookup list.
func (c *Client) ListSources(ctx context.Context) ([]ListItem, error) {
	return c.listItems(ctx, "/source-list")
}

// ListUsers fetches the user lookup list.
func (c *Client) ListUsers(ctx context.Context) ([]UserRow, error) {
	var env listEnvelope[UserRow]
	if err := c.do(ctx, http.MethodGet, "/user-list", nil, &env); err != nil {
		return nil, err
	}
	return env.Records, nil
}

func (c *Client) listItems(ctx context.Context, path string) ([]ListItem, error) {
	var env listEnvelope[ListItem]
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Records, nil
}

// BatchSoftDelete archives the given leads in a single request.
func (c *Client) BatchSoftDelete(ctx context.Context, ids []int64) (BulkResult, error) {
	var res BulkResult
	err := c.do(ctx, http.MethodPost, "/entity/batch-soft-delete", ids, &res)
	return res, err
}

// BatchRestore restores the given leads in a single request.
func (c *Client) BatchRestore(ctx context.Context, ids []int64) (BulkResult, error) {
	var res BulkResult
	err := c.do(ctx, http.MethodPost, "/entity/batch-restore", ids, &res)
	return res, err
}

// CreateNote attaches a note to a lead.
func (c *Client) CreateNote(ctx context.Context, note NoteCreate) error {
	return c.do(ctx, http.MethodPost, "/note", note, nil)
}

// do executes one API round trip: rate limit, token pre-flight, request
// construction with a per-request ID, status mapping and body decoding.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.checkToken(); err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.Wrap(apperr.KindTransport, "request aborted", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode request body", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.APIError(method, path, err)
		return apperr.Wrap(apperr.KindTransport, "network request failed", err)
	}
	defer resp.Body.Close()

	c.log.WithRequestID(requestID).APIRequest(method, path, resp.StatusCode, float64(c.now().Sub(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapError(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindTransport, "decode response", err)
	}
	return nil
}

// mapError turns a non-2xx response into a typed error, carrying the
// server-reported reason and field-level details when present.
func (c *Client) mapError(method, path string, resp *http.Response) error {
	message := fmt.Sprintf("request failed with status %d", resp.StatusCode)
	var details any

	var envelope apiError
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		switch {
		case envelope.Error.Message != "":
			message = envelope.Error.Message
			details = envelope.Error.Details
		case envelope.Message != "":
			message = envelope.Message
		}
	}

	appErr := apperr.FromHTTPStatus(resp.StatusCode, message).WithOp(method + " " + path)
	if details != nil {
		appErr = appErr.WithDetails(details)
	}
	c.log.APIError(method, path, appErr)
	return appErr
}

// checkToken rejects calls with a provably expired bearer token before
// any network traffic. Opaque (non-JWT) tokens pass through untouched.
func (c *Client) checkToken() error {
	if c.token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(c.token, claims)
	if err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(c.now()) {
		return apperr.Unauthorized("session token expired, sign in again")
	}
	return nil
}
