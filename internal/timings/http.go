package timings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hamed0406/prayertimes/internal/domain"
)

const (
	DefaultBaseURL = "http://api.aladhan.com/v1/timingsByCity"
	DefaultTimeout = 5 * time.Second
)

type Options struct {
	BaseURL string
	City    string
	Country string
	Method  int
	Timeout time.Duration
}

// HTTPSource reads timings from an aladhan compatible endpoint:
// GET <base>/<DD-MM-YYYY>?city=..&country=..&method=..
type HTTPSource struct {
	BaseURL string
	City    string
	Country string
	Method  int
	Client  *http.Client
}

func NewHTTPSource(o Options) *HTTPSource {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(o.BaseURL, "/"),
		City:    o.City,
		Country: o.Country,
		Method:  o.Method,
		Client:  &http.Client{Timeout: o.Timeout},
	}
}

type apiResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

func (h *HTTPSource) requestURL(date domain.Date) string {
	q := url.Values{}
	q.Set("city", h.City)
	q.Set("country", h.Country)
	q.Set("method", strconv.Itoa(h.Method))
	return h.BaseURL + "/" + date.APIString() + "?" + q.Encode()
}

func (h *HTTPSource) Fetch(ctx context.Context, date domain.Date) (domain.Times, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.requestURL(date), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", date, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if body.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrAPICode, body.Code)
	}

	out := make(domain.Times, len(domain.Prayers))
	for _, p := range domain.Prayers {
		raw, ok := body.Data.Timings[string(p)]
		if !ok {
			continue
		}
		if v, ok := clock(raw); ok {
			out[p] = v
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no known timings", ErrMalformed)
	}
	return out, nil
}

// clock keeps the leading HH:MM of values like "05:12 (+04)".
func clock(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if i := strings.IndexByte(v, ' '); i >= 0 {
		v = v[:i]
	}
	if !domain.ValidClock(v) {
		return "", false
	}
	return v, true
}
