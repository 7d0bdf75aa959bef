// Package entities holds the display records produced by the lookup flows.
package entities

import (
	"strconv"
	"time"
)

// Sentinel values substituted for absent provider fields.
const (
	NotAvailable   = "정보 없음"
	NoPharmacyName = "이름 없음"
	NoAddress      = "주소 없음"
	NoRating       = "평점 없음"
)

// Medication is the normalized medication record
type Medication struct {
	Name                string `json:"name"`
	Manufacturer        string `json:"manufacturer"`
	Indication          string `json:"indication"`
	UsageInstructions   string `json:"usage_instructions"`
	Warnings            string `json:"warnings"`
	StorageInstructions string `json:"storage_instructions"`
}

// MedicationSummary is the reduced view returned by symptom searches
type MedicationSummary struct {
	Name         string `json:"name"`
	Indication   string `json:"indication"`
	Manufacturer string `json:"manufacturer"`
}

// Summary drops the fields the symptom flow does not display
func (m Medication) Summary() MedicationSummary {
	return MedicationSummary{
		Name:         m.Name,
		Indication:   m.Indication,
		Manufacturer: m.Manufacturer,
	}
}

// Pharmacy is a place-search result. A nil Rating means the provider sent none,
// which is not the same as a rating of zero.
type Pharmacy struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Rating  *float64 `json:"rating"`
}

// HasRating reports whether the provider supplied a numeric rating
func (p Pharmacy) HasRating() bool {
	return p.Rating != nil
}

// RatingLabel renders the rating for display
func (p Pharmacy) RatingLabel() string {
	if p.Rating == nil {
		return NoRating
	}
	return strconv.FormatFloat(*p.Rating, 'f', -1, 64)
}

// AddressEntry is one preferred visit address
type AddressEntry struct {
	Address string    `json:"address"`
	AddedAt time.Time `json:"added_at"`
}
