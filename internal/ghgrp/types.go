// Package ghgrp implements the EPA Greenhouse Gas Reporting Program
// registry gateway: facility search, match ranking, and normalized
// emissions retrieval.
package ghgrp

// Facility is one GHGRP facility as returned by the registry search API.
type Facility struct {
	FacilityID     string  `json:"facility_id"`
	FacilityName   string  `json:"facility_name"`
	ParentCompany  string  `json:"parent_company"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ZipCode        string  `json:"zip_code"`
	NAICSCode      string  `json:"naics_code"`
	Sector         string  `json:"sector"`
	PrimaryFuel    string  `json:"primary_fuel"`
	FacilityType   string  `json:"facility_type"`
	ReportingYears []int   `json:"reporting_years"`
	TotalCO2e      float64 `json:"total_emissions_co2e"`
}

type searchResponse struct {
	Facilities []Facility `json:"facilities"`
	Total      int        `json:"total"`
}

type scopeOnePayload struct {
	TotalCO2e float64            `json:"total_co2e"`
	CO2       float64            `json:"co2"`
	CH4       float64            `json:"ch4"`
	N2O       float64            `json:"n2o"`
	Sources   map[string]float64 `json:"sources"`
}

type scopeTwoPayload struct {
	TotalCO2e            float64 `json:"total_co2e"`
	ElectricityPurchased float64 `json:"electricity_purchased"`
	SteamPurchased       float64 `json:"steam_purchased"`
	ElectricityFactor    float64 `json:"emission_factor_electricity"`
}

type dataQualityPayload struct {
	Completeness       float64  `json:"completeness"`
	AccuracyRating     string   `json:"accuracy_rating"`
	VerificationStatus string   `json:"verification_status"`
	MonitoringMethods  []string `json:"monitoring_methods"`
}

type emissionsPayload struct {
	Scope1         scopeOnePayload    `json:"scope_1"`
	Scope2         scopeTwoPayload    `json:"scope_2"`
	TotalEmissions float64            `json:"total_emissions"`
	DataQuality    dataQualityPayload `json:"data_quality"`
}

type emissionsResponse struct {
	FacilityID    string           `json:"facility_id"`
	FacilityName  string           `json:"facility_name"`
	ReportingYear int              `json:"reporting_year"`
	EmissionsData emissionsPayload `json:"emissions_data"`
}
