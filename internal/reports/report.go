// Package reports persists finalized classifications as report rows with
// best-effort location and image rows.
package reports

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen     = "open"
	StatusRejected = "rejected"

	defaultLocationSource = "gps"
)

// Classification is the finalized classification submitted for storage.
type Classification struct {
	CategoryID              int     `json:"category_id"`
	CategoryName            string  `json:"category_name"`
	CategoryGroup           string  `json:"category_group"`
	Severity                int     `json:"severity"`
	Confidence              float64 `json:"confidence"`
	AIDescription           string  `json:"ai_description"`
	IsValidReport           bool    `json:"is_valid_report"`
	ImageMatchesDescription *bool   `json:"image_matches_description"`
}

// Location is where the citizen took the photo. Only latitude and longitude
// are always stored; empty optional fields are omitted from the row.
type Location struct {
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
	LocationSource      string   `json:"location_source"`
	GPSAccuracyMeters   *float64 `json:"gps_accuracy_meters"`
	FormattedAddress    string   `json:"formatted_address"`
	StreetNumber        string   `json:"street_number"`
	StreetName          string   `json:"street_name"`
	Neighbourhood       string   `json:"neighbourhood"`
	City                string   `json:"city"`
	Province            string   `json:"province"`
	PostalCode          string   `json:"postal_code"`
	CountryCode         string   `json:"country_code"`
	LocationDescription string   `json:"location_description"`
}

// StoreRequest is the body of POST /api/reports.
type StoreRequest struct {
	CitizenID      string          `json:"citizen_id"`
	Description    string          `json:"description"`
	ImageURL       string          `json:"image_url"`
	Classification *Classification `json:"classification"`
	Location       *Location       `json:"location"`
}

// Report is one row of the reports table.
type Report struct {
	ID              uuid.UUID
	CitizenID       uuid.UUID
	Description     string
	CategoryID      int
	AICategoryName  string
	AIDescription   string
	AISeverity      int
	AIConfidence    float64
	AIImageRelevant bool
	Status          string
	AIProcessedAt   time.Time
}

// Stored identifies a newly inserted report.
type Stored struct {
	ID           uuid.UUID `json:"report_id"`
	ReportNumber int64     `json:"report_number"`
}

// validate checks required fields and returns the parsed citizen id.
func (r StoreRequest) validate() (uuid.UUID, error) {
	var missing []string
	if strings.TrimSpace(r.CitizenID) == "" {
		missing = append(missing, "citizen_id")
	}
	if strings.TrimSpace(r.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(r.ImageURL) == "" {
		missing = append(missing, "image_url")
	}
	if r.Classification == nil {
		missing = append(missing, "classification")
	}
	if r.Location == nil {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return uuid.Nil, &requestError{msg: "Missing required fields: " + strings.Join(missing, ", ")}
	}
	id, err := uuid.Parse(strings.TrimSpace(r.CitizenID))
	if err != nil {
		return uuid.Nil, &requestError{msg: "citizen_id must be a UUID"}
	}
	return id, nil
}

// newReport maps a request onto a reports row. Confidence is stored on a
// 0-100 scale with two decimals.
func newReport(id, citizenID uuid.UUID, req StoreRequest, now time.Time) Report {
	c := req.Classification
	relevant := true
	if c.ImageMatchesDescription != nil {
		relevant = *c.ImageMatchesDescription
	}
	status := StatusRejected
	if c.IsValidReport {
		status = StatusOpen
	}
	return Report{
		ID:              id,
		CitizenID:       citizenID,
		Description:     req.Description,
		CategoryID:      c.CategoryID,
		AICategoryName:  c.CategoryName,
		AIDescription:   c.AIDescription,
		AISeverity:      c.Severity,
		AIConfidence:    math.Round(c.Confidence*100*100) / 100,
		AIImageRelevant: relevant,
		Status:          status,
		AIProcessedAt:   now.UTC(),
	}
}

// columns returns the report_locations columns and values to insert.
func (l Location) columns() ([]string, []any) {
	source := strings.TrimSpace(l.LocationSource)
	if source == "" {
		source = defaultLocationSource
	}
	cols := []string{"latitude", "longitude", "location_source"}
	vals := []any{l.Latitude, l.Longitude, source}
	if l.GPSAccuracyMeters != nil {
		cols = append(cols, "gps_accuracy_meters")
		vals = append(vals, *l.GPSAccuracyMeters)
	}
	optional := []struct {
		col string
		val string
	}{
		{"formatted_address", l.FormattedAddress},
		{"street_number", l.StreetNumber},
		{"street_name", l.StreetName},
		{"neighbourhood", l.Neighbourhood},
		{"city", l.City},
		{"province", l.Province},
		{"postal_code", l.PostalCode},
		{"country_code", l.CountryCode},
		{"location_description", l.LocationDescription},
	}
	for _, o := range optional {
		if o.val != "" {
			cols = append(cols, o.col)
			vals = append(vals, o.val)
		}
	}
	return cols, vals
}
