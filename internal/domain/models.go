package domain

import (
	"strings"
)

// RecommendationRequest is the symptom profile submitted by a client.
// Symptoms and HealthFactors are accepted aliases of the canonical fields.
type RecommendationRequest struct {
	Symptom        string `json:"symptom"`
	HealthFactor   string `json:"healthFactor"`
	AgeGroup       string `json:"ageGroup"`
	Severity       string `json:"severity"`
	UserPreference string `json:"userPreference"`

	Symptoms      string `json:"symptoms,omitempty"`
	HealthFactors string `json:"healthFactors,omitempty"`
}

// Normalize folds aliases into the canonical fields and trims every value.
func (r RecommendationRequest) Normalize() RecommendationRequest {
	out := RecommendationRequest{
		Symptom:        strings.TrimSpace(r.Symptom),
		HealthFactor:   strings.TrimSpace(r.HealthFactor),
		AgeGroup:       strings.TrimSpace(r.AgeGroup),
		Severity:       strings.TrimSpace(r.Severity),
		UserPreference: strings.TrimSpace(r.UserPreference),
	}
	if out.Symptom == "" {
		out.Symptom = strings.TrimSpace(r.Symptoms)
	}
	if out.HealthFactor == "" {
		out.HealthFactor = strings.TrimSpace(r.HealthFactors)
	}
	return out
}

// Fields returns the canonical field names and values in a fixed order.
func (r RecommendationRequest) Fields() []Field {
	return []Field{
		{"symptom", r.Symptom},
		{"healthFactor", r.HealthFactor},
		{"ageGroup", r.AgeGroup},
		{"severity", r.Severity},
		{"userPreference", r.UserPreference},
	}
}

// Field is one named request value
type Field struct {
	Name  string
	Value string
}

// PredictionRequest is the body sent to the prediction service
type PredictionRequest struct {
	Symptom        string `json:"symptom"`
	HealthFactor   string `json:"healthFactor"`
	AgeGroup       string `json:"ageGroup"`
	Severity       string `json:"severity"`
	UserPreference string `json:"userPreference"`
}

// PredictionResponse is the body returned by the prediction service
type PredictionResponse struct {
	PredictedDisease string `json:"predicted_disease"`
}

// Section identifies which bucket a generated line belongs to
type Section int

const (
	SectionNone Section = iota
	SectionAlternative
	SectionConventional
	SectionDisclaimer
)

func (s Section) String() string {
	switch s {
	case SectionAlternative:
		return "alternative"
	case SectionConventional:
		return "conventional"
	case SectionDisclaimer:
		return "disclaimer"
	default:
		return "none"
	}
}

// ClassifiedSections holds generated lines grouped by section, in arrival order.
type ClassifiedSections struct {
	Alternatives []string `json:"alternatives"`
	Conventional []string `json:"conventional"`
	Disclaimer   []string `json:"disclaimer"`
}

// Clone returns a deep copy
func (s ClassifiedSections) Clone() ClassifiedSections {
	return ClassifiedSections{
		Alternatives: append([]string{}, s.Alternatives...),
		Conventional: append([]string{}, s.Conventional...),
		Disclaimer:   append([]string{}, s.Disclaimer...),
	}
}

// RecommendationResult is the whole-text response body
type RecommendationResult struct {
	PredictedDisease    string             `json:"predictedDisease"`
	AlternativeMedicine string             `json:"alternativeMedicine"`
	Sections            ClassifiedSections `json:"sections"`
}

// StreamMode selects how generated text reaches a streaming client
type StreamMode string

const (
	// StreamWhole waits for the full text, then classifies and renders it
	StreamWhole StreamMode = "whole"
	// StreamChunked classifies fragments as they arrive and renders at end of stream
	StreamChunked StreamMode = "chunked"
	// StreamPassthrough relays raw fragments in arrival order
	StreamPassthrough StreamMode = "passthrough"
)

// ParseStreamMode returns the mode for s, reporting false for unknown values
func ParseStreamMode(s string) (StreamMode, bool) {
	switch m := StreamMode(strings.ToLower(strings.TrimSpace(s))); m {
	case StreamWhole, StreamChunked, StreamPassthrough:
		return m, true
	default:
		return "", false
	}
}

// AlternativesRequest is the drug lookup request body
type AlternativesRequest struct {
	MedicineName string `json:"medicineName"`
}

// AlternativesResponse is the drug lookup response body
type AlternativesResponse struct {
	MedicineName string   `json:"medicineName"`
	Alternatives []string `json:"alternatives"`
}

// Fixed texts shared with the browser client
const (
	MsgFieldsRequired       = "All fields are required."
	MsgMedicineNameRequired = "Medicine name is required."
	MsgLookupFailed         = "Failed to fetch alternative medicines"
	NoAlternativesFound     = "No alternative medicines found for this query."
	UnknownAlternative      = "Unknown Alternative"
)
