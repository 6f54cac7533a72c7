package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FacilityQuality grades the condition of an infrastructure facility.
type FacilityQuality string

const (
	QualityExcellent FacilityQuality = "excellent"
	QualityGood      FacilityQuality = "good"
	QualityFair      FacilityQuality = "fair"
	QualityPoor      FacilityQuality = "poor"
)

// FacilityStatus captures the raw survey flags for a single facility. The
// flags carry no mutual-exclusion guarantee; FacilityLabel precedence decides
// how contradictory combinations render.
type FacilityStatus struct {
	Available         bool            `json:"available"`
	Functional        bool            `json:"functional"`
	UnderConstruction bool            `json:"under_construction"`
	Quality           FacilityQuality `json:"quality"`
}

// FacilityLabel is the single display classification derived from a
// FacilityStatus.
type FacilityLabel string

const (
	FacilityUnderConstruction FacilityLabel = "Under Construction"
	FacilityFunctional        FacilityLabel = "Functional"
	FacilityNonFunctional     FacilityLabel = "Non-Functional"
	FacilityNotAvailable      FacilityLabel = "Not Available"
)

// Classify maps a facility status onto exactly one label. Precedence is
// fixed: construction first, then availability and function.
func (f FacilityStatus) Classify() FacilityLabel {
	switch {
	case f.UnderConstruction:
		return FacilityUnderConstruction
	case f.Available && f.Functional:
		return FacilityFunctional
	case f.Available:
		return FacilityNonFunctional
	default:
		return FacilityNotAvailable
	}
}

// Infrastructure groups the six facility categories tracked per village.
type Infrastructure struct {
	Education    FacilityStatus `json:"education"`
	Health       FacilityStatus `json:"health"`
	Water        FacilityStatus `json:"water"`
	Sanitation   FacilityStatus `json:"sanitation"`
	Connectivity FacilityStatus `json:"connectivity"`
	Roads        FacilityStatus `json:"roads"`
}

// Facilities returns the named facility statuses in declaration order.
func (i Infrastructure) Facilities() []NamedFacility {
	return []NamedFacility{
		{Name: "education", Status: i.Education},
		{Name: "health", Status: i.Health},
		{Name: "water", Status: i.Water},
		{Name: "sanitation", Status: i.Sanitation},
		{Name: "connectivity", Status: i.Connectivity},
		{Name: "roads", Status: i.Roads},
	}
}

// NamedFacility pairs a facility category with its status.
type NamedFacility struct {
	Name   string         `json:"name"`
	Status FacilityStatus `json:"status"`
}

// Value marshals the infrastructure record to JSON for persistence.
func (i Infrastructure) Value() (driver.Value, error) {
	data, err := json.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("marshal infrastructure: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload into the infrastructure record.
func (i *Infrastructure) Scan(value interface{}) error {
	if value == nil {
		*i = Infrastructure{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for Infrastructure", value)
	}
	if len(data) == 0 {
		*i = Infrastructure{}
		return nil
	}
	if err := json.Unmarshal(data, i); err != nil {
		return fmt.Errorf("unmarshal infrastructure: %w", err)
	}
	return nil
}

// PriorityBand buckets a village priority index for filtering and display.
type PriorityBand string

const (
	PriorityBandAll    PriorityBand = "all"
	PriorityBandHigh   PriorityBand = "high"
	PriorityBandMedium PriorityBand = "medium"
	PriorityBandLow    PriorityBand = "low"
)

// BandForPriorityIndex classifies a priority index: high from 8 upward,
// medium from 5 up to but excluding 8, low below 5.
func BandForPriorityIndex(index float64) PriorityBand {
	switch {
	case index >= 8:
		return PriorityBandHigh
	case index >= 5:
		return PriorityBandMedium
	default:
		return PriorityBandLow
	}
}

// Village represents a village enrolled in the Adarsh Gram programme.
type Village struct {
	ID                string         `db:"id" json:"id"`
	Name              string         `db:"name" json:"name"`
	State             string         `db:"state" json:"state"`
	District          string         `db:"district" json:"district"`
	Block             string         `db:"block" json:"block"`
	Population        int            `db:"population" json:"population"`
	SCPercentage      float64        `db:"sc_percentage" json:"sc_percentage"`
	Latitude          float64        `db:"latitude" json:"latitude"`
	Longitude         float64        `db:"longitude" json:"longitude"`
	Infrastructure    Infrastructure `db:"infrastructure" json:"infrastructure"`
	SatisfactionScore float64        `db:"satisfaction_score" json:"satisfaction_score"`
	PriorityIndex     float64        `db:"priority_index" json:"priority_index"`
	Onboarded         bool           `db:"onboarded" json:"onboarded"`
	CreatedAt         time.Time      `db:"created_at" json:"-"`
}

// VillageFilter captures list query parameters for villages.
type VillageFilter struct {
	Query    string
	Priority PriorityBand
}
