// Package fetcher downloads homework statuses from the review API.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_bot/internal/model"
)

const homeworksKey = "homeworks"

// Sentinel errors returned by Homeworks.
var (
	ErrNoHomeworks    = errors.New("response has no homeworks field")
	ErrEmptyHomeworks = errors.New("homework list is empty")
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Payload is the undecoded top-level JSON object returned by the API.
type Payload map[string]json.RawMessage

// Fetcher queries the homework statuses endpoint.
type Fetcher struct {
	client   HTTPClient
	endpoint string
	token    string
	now      func() time.Time
}

// New creates a Fetcher that authenticates with the given OAuth token.
func New(client HTTPClient, endpoint, token string) *Fetcher {
	return &Fetcher{
		client:   client,
		endpoint: endpoint,
		token:    token,
		now:      time.Now,
	}
}

// Fetch requests all homeworks updated since fromDate (unix seconds).
// A zero fromDate means "now".
func (f *Fetcher) Fetch(ctx context.Context, fromDate int64) (Payload, error) {
	if fromDate == 0 {
		fromDate = f.now().Unix()
	}

	u, err := url.Parse(f.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+f.token)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload == nil {
		return nil, errors.New("decode response: null body")
	}
	return payload, nil
}

// Homeworks extracts the submission list from a payload, newest first.
// An empty list is reported as ErrEmptyHomeworks so callers never index into it.
func Homeworks(p Payload) ([]model.Homework, error) {
	raw, ok := p[homeworksKey]
	if !ok {
		return nil, ErrNoHomeworks
	}

	var homeworks []model.Homework
	if err := json.Unmarshal(raw, &homeworks); err != nil {
		return nil, fmt.Errorf("decode %s: %w", homeworksKey, err)
	}
	if len(homeworks) == 0 {
		return nil, ErrEmptyHomeworks
	}
	return homeworks, nil
}
