package ghgrp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/verdantis/carbon-canary/internal/common"
	"github.com/verdantis/carbon-canary/internal/model"
)

// DefaultBaseURL is the EPA GHGRP API root.
const DefaultBaseURL = "https://api.epa.gov/ghgrp"

// Config holds the registry client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retry   common.RetryOptions
}

// Client talks to the EPA GHGRP registry over HTTP. It implements
// service.ReferenceGateway. Safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	retry   common.RetryOptions
}

// NewClient creates a registry client, filling in defaults for any zero
// configuration values.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		retry:   cfg.Retry,
	}
}

// Search queries the registry facility index and ranks the results against
// the company for the given reporting year.
func (c *Client) Search(ctx context.Context, company *model.Company, year int) ([]model.ReferenceMatch, error) {
	params := url.Values{}
	if company.Name != "" {
		params.Set("company_name", company.Name)
	}
	if company.Ticker != "" {
		params.Set("ticker", company.Ticker)
	}
	if company.CIK != "" {
		params.Set("cik", company.CIK)
	}
	params.Set("reporting_year", strconv.Itoa(year))

	var decoded searchResponse
	err := common.WithRetry(ctx, func() error {
		return c.getJSON(ctx, "/facilities?"+params.Encode(), &decoded)
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("registry facility search for %s: %w", company.ID, err)
	}

	return Rank(company, decoded.Facilities, year), nil
}

// GetEmissions fetches and normalizes the registry emissions record for one
// facility and reporting year. A (nil, nil) return means the facility did
// not report for that year.
func (c *Client) GetEmissions(ctx context.Context, facilityID string, year int) (*model.ReferenceEmissionsRecord, error) {
	path := fmt.Sprintf("/facilities/%s/emissions?reporting_year=%d", url.PathEscape(facilityID), year)

	var decoded emissionsResponse
	notReported := false
	err := common.WithRetry(ctx, func() error {
		err := c.getJSON(ctx, path, &decoded)
		if isNotFound(err) {
			notReported = true
			return nil
		}
		return err
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("registry emissions fetch for facility %s year %d: %w", facilityID, year, err)
	}
	if notReported {
		return nil, nil
	}

	return normalizeRecord(&decoded), nil
}

// getJSON performs one GET against the registry and decodes the body into
// out. Errors are classified for the retry layer: 5xx and 429 retry, other
// client errors do not.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &common.RetryableError{Err: err, Retryable: false}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrRegistryUnavailable, err),
			Retryable: true,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &common.RetryableError{
				Err:       fmt.Errorf("decoding registry response: %w", err),
				Retryable: false,
			}
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return errFacilityNotReported
	case resp.StatusCode == http.StatusTooManyRequests:
		return &common.RetryableError{Err: common.ErrRegistryRateLimit, Retryable: true}
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: status %d: %s", common.ErrRegistryUnavailable, resp.StatusCode, body),
			Retryable: true,
		}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &common.RetryableError{
			Err:       fmt.Errorf("registry request failed: status %d: %s", resp.StatusCode, body),
			Retryable: false,
		}
	}
}

var errFacilityNotReported = &common.RetryableError{
	Err:       fmt.Errorf("facility not reported: %w", common.ErrNotFound),
	Retryable: false,
}

func isNotFound(err error) bool {
	return err == errFacilityNotReported
}

func normalizeRecord(resp *emissionsResponse) *model.ReferenceEmissionsRecord {
	data := resp.EmissionsData
	total := data.TotalEmissions
	if total == 0 {
		total = data.Scope1.TotalCO2e + data.Scope2.TotalCO2e
	}

	verification := model.VerificationSelfReported
	if data.DataQuality.VerificationStatus == string(model.VerificationThirdParty) {
		verification = model.VerificationThirdParty
	}

	return &model.ReferenceEmissionsRecord{
		FacilityID:    resp.FacilityID,
		FacilityName:  resp.FacilityName,
		ReportingYear: resp.ReportingYear,
		Scope1TCO2e:   data.Scope1.TotalCO2e,
		Scope2TCO2e:   data.Scope2.TotalCO2e,
		TotalTCO2e:    total,
		Quality: model.ReferenceDataQuality{
			Verification:      verification,
			MonitoringMethods: data.DataQuality.MonitoringMethods,
			CompletenessPct:   data.DataQuality.Completeness,
		},
	}
}
