package service

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

var (
	AgeGroups       = []string{"child", "adult", "senior"}
	Severities      = []string{"mild", "moderate", "severe"}
	UserPreferences = []string{"pharmaceutical", "herbal", "no-preference"}
)

// Validator checks recommendation requests before any upstream call is made
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the request schema
func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(requestSchema()))
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

func requestSchema() map[string]interface{} {
	nonEmpty := map[string]interface{}{"type": "string", "minLength": 1}
	return map[string]interface{}{
		"type":     "object",
		"required": []string{"symptom", "healthFactor", "ageGroup", "severity", "userPreference"},
		"properties": map[string]interface{}{
			"symptom":        nonEmpty,
			"healthFactor":   nonEmpty,
			"ageGroup":       map[string]interface{}{"type": "string", "enum": AgeGroups},
			"severity":       map[string]interface{}{"type": "string", "enum": Severities},
			"userPreference": map[string]interface{}{"type": "string", "enum": UserPreferences},
		},
	}
}

// Validate normalizes req and returns it, or a *domain.ValidationErrors.
// Missing fields are reported together before enum values are checked.
func (v *Validator) Validate(req domain.RecommendationRequest) (domain.RecommendationRequest, error) {
	req = req.Normalize()

	missing := &domain.ValidationErrors{Summary: domain.MsgFieldsRequired}
	for _, f := range req.Fields() {
		if f.Value == "" {
			missing.Add(f.Name, "is required", nil)
		}
	}
	if err := missing.ErrOrNil(); err != nil {
		return req, err
	}

	req.AgeGroup = strings.ToLower(req.AgeGroup)
	req.Severity = strings.ToLower(req.Severity)
	req.UserPreference = strings.ToLower(req.UserPreference)

	doc := make(map[string]interface{}, 5)
	for _, f := range req.Fields() {
		doc[f.Name] = f.Value
	}
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return req, fmt.Errorf("request schema validation: %w", err)
	}
	if result.Valid() {
		return req, nil
	}

	invalid := &domain.ValidationErrors{Summary: "Invalid field values."}
	for _, desc := range result.Errors() {
		invalid.Add(desc.Field(), desc.Description(), desc.Value())
	}
	return req, invalid
}
