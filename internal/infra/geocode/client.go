package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"freeshare/internal/app/policies"
	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/shared/fault"
)

// Client resolves location names against a Nominatim-compatible endpoint,
// forward via /search and reverse via /reverse. Every lookup carries a
// hard timeout: a slow geocoder must never hold up ad creation.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *Client) Locate(ctx context.Context, locationName string) (ad.GeoPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("q", locationName)
	query.Set("format", "json")
	query.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return ad.GeoPoint{}, err
	}
	req.Header.Set("User-Agent", "freeshare/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return ad.GeoPoint{}, fault.Wrap(fault.KindExternal, err, "geocode request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ad.GeoPoint{}, fault.Newf(fault.KindExternal, "geocode returned status %d", resp.StatusCode)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return ad.GeoPoint{}, fault.Wrap(fault.KindExternal, err, "geocode response malformed")
	}
	if len(results) == 0 {
		return ad.GeoPoint{}, fault.Newf(fault.KindNotFound, "no match for %q", locationName)
	}
	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return ad.GeoPoint{}, fault.New(fault.KindExternal, fmt.Sprintf("geocode coordinates unparsable for %q", locationName))
	}
	return ad.GeoPoint{Lat: lat, Lon: lon}, nil
}

// Reverse maps coordinates back to a human-readable location name.
func (c *Client) Reverse(ctx context.Context, point ad.GeoPoint) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(point.Lon, 'f', -1, 64))
	query.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "freeshare/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fault.Wrap(fault.KindExternal, err, "reverse geocode request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fault.Newf(fault.KindExternal, "reverse geocode returned status %d", resp.StatusCode)
	}

	var r result
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fault.Wrap(fault.KindExternal, err, "reverse geocode response malformed")
	}
	if r.DisplayName == "" {
		return "", fault.Newf(fault.KindNotFound, "no place at %.5f,%.5f", point.Lat, point.Lon)
	}
	return r.DisplayName, nil
}

var _ policies.Geocoder = (*Client)(nil)
