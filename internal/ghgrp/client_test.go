package ghgrp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantis/carbon-canary/internal/common"
	"github.com/verdantis/carbon-canary/internal/model"
)

func fastRetry() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func testClient(serverURL string) *Client {
	return NewClient(Config{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
		Retry:   fastRetry(),
	})
}

func TestClient_Search(t *testing.T) {
	company := &model.Company{
		ID:                  "company-1",
		Name:                "Acme Energy Inc",
		Ticker:              "ACME",
		CIK:                 "0001234567",
		Industry:            "Electric Power Generation",
		HeadquartersCountry: "United States",
	}

	t.Run("ranks facilities from the registry response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/facilities", r.URL.Path)
			assert.Equal(t, "Acme Energy Inc", r.URL.Query().Get("company_name"))
			assert.Equal(t, "ACME", r.URL.Query().Get("ticker"))
			assert.Equal(t, "0001234567", r.URL.Query().Get("cik"))
			assert.Equal(t, "2023", r.URL.Query().Get("reporting_year"))
			assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"facilities": [
					{"facility_id": "fac-2", "facility_name": "Globex Plant", "parent_company": "Globex Holdings", "sector": "chemical_manufacturing", "reporting_years": [2023]},
					{"facility_id": "fac-1", "facility_name": "Acme Station", "parent_company": "Acme Energy Corp", "sector": "power_plants", "reporting_years": [2022, 2023]}
				],
				"total": 2
			}`))
		}))
		defer server.Close()

		matches, err := testClient(server.URL).Search(context.Background(), company, 2023)
		require.NoError(t, err)

		require.Len(t, matches, 2)
		assert.Equal(t, "fac-1", matches[0].FacilityID, "best match ranks first")
		assert.InDelta(t, 100.0, matches[0].Confidence, 0.001)
	})

	t.Run("retries server errors until success", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"facilities": [], "total": 0}`))
		}))
		defer server.Close()

		matches, err := testClient(server.URL).Search(context.Background(), company, 2023)

		require.NoError(t, err)
		assert.Empty(t, matches)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("persistent outage exhausts retries", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := testClient(server.URL).Search(context.Background(), company, 2023)

		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrMaxRetries)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("rate limiting surfaces the rate limit error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := testClient(server.URL).Search(context.Background(), company, 2023)

		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrRegistryRateLimit)
	})

	t.Run("bad request does not retry", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		_, err := testClient(server.URL).Search(context.Background(), company, 2023)

		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestClient_GetEmissions(t *testing.T) {
	t.Run("normalizes a complete registry record", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/facilities/fac-1/emissions", r.URL.Path)
			assert.Equal(t, "2023", r.URL.Query().Get("reporting_year"))

			_, _ = w.Write([]byte(`{
				"facility_id": "fac-1",
				"facility_name": "Acme Station",
				"reporting_year": 2023,
				"emissions_data": {
					"scope_1": {"total_co2e": 1200.5, "co2": 1100, "ch4": 60, "n2o": 40.5},
					"scope_2": {"total_co2e": 600.25, "electricity_purchased": 500000},
					"total_emissions": 1800.75,
					"data_quality": {
						"completeness": 96.5,
						"verification_status": "third_party_verified",
						"monitoring_methods": ["continuous_monitoring", "fuel_sampling"]
					}
				}
			}`))
		}))
		defer server.Close()

		record, err := testClient(server.URL).GetEmissions(context.Background(), "fac-1", 2023)
		require.NoError(t, err)
		require.NotNil(t, record)

		assert.Equal(t, "fac-1", record.FacilityID)
		assert.Equal(t, "Acme Station", record.FacilityName)
		assert.Equal(t, 2023, record.ReportingYear)
		assert.InDelta(t, 1200.5, record.Scope1TCO2e, 0.001)
		assert.InDelta(t, 600.25, record.Scope2TCO2e, 0.001)
		assert.InDelta(t, 1800.75, record.TotalTCO2e, 0.001)
		assert.Equal(t, model.VerificationThirdParty, record.Quality.Verification)
		assert.Equal(t, []string{"continuous_monitoring", "fuel_sampling"}, record.Quality.MonitoringMethods)
		assert.Equal(t, model.RatingHigh, record.Quality.Rating())
	})

	t.Run("missing total falls back to the scope sum", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{
				"facility_id": "fac-1",
				"reporting_year": 2023,
				"emissions_data": {
					"scope_1": {"total_co2e": 1000},
					"scope_2": {"total_co2e": 500},
					"data_quality": {"completeness": 85, "verification_status": "self_reported"}
				}
			}`))
		}))
		defer server.Close()

		record, err := testClient(server.URL).GetEmissions(context.Background(), "fac-1", 2023)
		require.NoError(t, err)
		require.NotNil(t, record)

		assert.InDelta(t, 1500.0, record.TotalTCO2e, 0.001)
		assert.Equal(t, model.VerificationSelfReported, record.Quality.Verification)
		assert.Equal(t, model.RatingMedium, record.Quality.Rating())
	})

	t.Run("facility that did not report returns nil, nil", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		record, err := testClient(server.URL).GetEmissions(context.Background(), "fac-1", 2023)

		require.NoError(t, err, "not reporting is a valid state, not an infrastructure failure")
		assert.Nil(t, record)
		assert.Equal(t, int32(1), calls.Load(), "absence is definitive; no retry")
	})

	t.Run("server errors are retried then surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := testClient(server.URL).GetEmissions(context.Background(), "fac-1", 2023)

		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrRegistryUnavailable)
	})

	t.Run("unreachable registry is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close() // connection refused from here on

		_, err := testClient(server.URL).GetEmissions(context.Background(), "fac-1", 2023)

		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrRegistryUnavailable)
	})
}
