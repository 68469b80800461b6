package ghgrp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verdantis/carbon-canary/internal/model"
)

// sectorLabels maps GHGRP sector codes to industry classification labels.
var sectorLabels = map[string]string{
	"power_plants":             "Electric Power Generation",
	"petroleum_refineries":     "Petroleum Refining",
	"chemical_manufacturing":   "Chemical Manufacturing",
	"cement_production":        "Cement Manufacturing",
	"iron_steel":               "Iron and Steel Production",
	"aluminum_production":      "Aluminum Production",
	"pulp_paper":               "Pulp and Paper Manufacturing",
	"glass_production":         "Glass Manufacturing",
	"oil_gas_production":       "Oil and Gas Production",
	"natural_gas_distribution": "Natural Gas Distribution",
}

// Rank scores registry facilities against a company and returns matches in
// descending confidence order. Scoring weights: name similarity 40, sector
// match 30, reporting-year membership 20, US geography 10; capped at 100.
func Rank(company *model.Company, facilities []Facility, year int) []model.ReferenceMatch {
	matches := make([]model.ReferenceMatch, 0, len(facilities))
	for i := range facilities {
		matches = append(matches, scoreMatch(company, &facilities[i], year))
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Confidence > matches[b].Confidence
	})
	return matches
}

func scoreMatch(company *model.Company, facility *Facility, year int) model.ReferenceMatch {
	var confidence float64
	var factors []string

	if company.Name != "" && facility.ParentCompany != "" {
		similarity := nameSimilarity(company.Name, facility.ParentCompany)
		confidence += similarity * 40
		factors = append(factors, fmt.Sprintf("Name similarity: %.2f", similarity))
	}

	if company.Industry != "" && facility.Sector != "" {
		sectorScore := sectorSimilarity(company.Industry, facility.Sector)
		confidence += sectorScore * 30
		factors = append(factors, fmt.Sprintf("Sector match: %.2f", sectorScore))
	}

	for _, y := range facility.ReportingYears {
		if y == year {
			confidence += 20
			factors = append(factors, "Reporting year match: 1.00")
			break
		}
	}

	if company.HeadquartersCountry == "United States" {
		confidence += 10
		factors = append(factors, "Geographic match: 1.00")
	}

	if confidence > 100 {
		confidence = 100
	}

	return model.ReferenceMatch{
		FacilityID:     facility.FacilityID,
		FacilityName:   facility.FacilityName,
		ParentCompany:  facility.ParentCompany,
		City:           facility.City,
		State:          facility.State,
		Sector:         facility.Sector,
		ReportingYears: facility.ReportingYears,
		Confidence:     confidence,
		MatchFactors:   factors,
	}
}

// nameSimilarity is the Jaccard similarity of the word sets of two company
// names, after stripping common corporate suffixes.
func nameSimilarity(a, b string) float64 {
	wordsA := nameWords(a)
	wordsB := nameWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	union := len(wordsB)
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

func nameWords(name string) map[string]struct{} {
	cleaned := strings.ToLower(name)
	for _, suffix := range []string{"inc", "corp", "llc"} {
		cleaned = strings.ReplaceAll(cleaned, suffix, "")
	}
	words := make(map[string]struct{})
	for _, w := range strings.Fields(cleaned) {
		words[w] = struct{}{}
	}
	return words
}

// sectorSimilarity scores a company industry against a GHGRP sector code:
// 1.0 for a direct mapping hit, otherwise word overlap between the industry
// and the humanized sector code.
func sectorSimilarity(industry, sector string) float64 {
	if industry == "" || sector == "" {
		return 0
	}

	if label, ok := sectorLabels[sector]; ok {
		if strings.Contains(strings.ToLower(industry), strings.ToLower(label)) {
			return 1.0
		}
	}

	industryWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(industry)) {
		industryWords[w] = struct{}{}
	}
	sectorWords := strings.Fields(strings.ReplaceAll(sector, "_", " "))
	if len(industryWords) == 0 || len(sectorWords) == 0 {
		return 0
	}

	overlap := 0
	for _, w := range sectorWords {
		if _, ok := industryWords[w]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	larger := len(industryWords)
	if len(sectorWords) > larger {
		larger = len(sectorWords)
	}
	return float64(overlap) / float64(larger)
}
