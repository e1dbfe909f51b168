// Package partsapi provides the HTTP client for the external parts and
// vehicle lookup provider. The pipeline treats it as an optional collaborator:
// every failure is an upstream error the caller degrades on, never a hard stop.
package partsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"autoparts_backend/platform/apperr"
	"autoparts_backend/platform/logger"
)

// Vehicle is a vehicle identity returned by the chassis lookup.
type Vehicle struct {
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          string `json:"year"`
	ChassisNumber string `json:"chassis_number"`
}

// Part is a part listing returned by the provider.
type Part struct {
	PartNumber  string   `json:"part_number"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Price       *float64 `json:"price"`
	QuantityMin *int     `json:"quantity_min"`
	Vehicle     *Vehicle `json:"vehicle"`
}

// Client is the HTTP client for the provider API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a new provider client.
func New(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// FindPartsByPartNumber searches the provider catalog by part number.
func (c *Client) FindPartsByPartNumber(ctx context.Context, partNumber string) ([]Part, error) {
	params := url.Values{}
	params.Set("part_number", partNumber)
	reqURL := fmt.Sprintf("%s/v1/parts/search?%s", c.baseURL, params.Encode())

	var result struct {
		Parts []Part `json:"parts"`
	}
	if err := c.doRequest(ctx, reqURL, &result); err != nil {
		return nil, err
	}
	return result.Parts, nil
}

// LookupVehicleByChassis resolves a chassis number to a vehicle identity.
// A provider 404 means "no such vehicle" and returns (nil, nil).
func (c *Client) LookupVehicleByChassis(ctx context.Context, chassisNumber string) (*Vehicle, error) {
	params := url.Values{}
	params.Set("chassis", chassisNumber)
	reqURL := fmt.Sprintf("%s/v1/vehicles/lookup?%s", c.baseURL, params.Encode())

	var vehicle Vehicle
	err := c.doRequest(ctx, reqURL, &vehicle)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if vehicle.ChassisNumber == "" {
		return nil, nil
	}
	return &vehicle, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamDegraded("partsapi", "request", err)
		return apperr.Upstream("parts provider request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.NotFound("parts provider: not found")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return apperr.Upstream(fmt.Sprintf("parts provider returned %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream("decode parts provider response", err)
	}
	return nil
}
