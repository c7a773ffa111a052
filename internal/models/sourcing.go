// Package models defines the RFQ, supplier and recommendation records exchanged by the matching engine.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RFQ is a buyer's request for quotation. The engine reads it and never mutates it.
type RFQ struct {
	ID                     string     `json:"id" yaml:"id"`
	Title                  string     `json:"title,omitempty" yaml:"title,omitempty"`
	Category               TagList    `json:"category" yaml:"category"`
	Location               string     `json:"location,omitempty" yaml:"location,omitempty"`
	Budget                 *float64   `json:"budget,omitempty" yaml:"budget,omitempty"`
	DeliveryDeadline       FlexString `json:"deliveryDeadline,omitempty" yaml:"delivery_deadline,omitempty"`
	RequiredCertifications TagList    `json:"requiredCertifications,omitempty" yaml:"required_certifications,omitempty"`
}

// Supplier is a candidate supplier profile as provided by the marketplace.
type Supplier struct {
	ID                  string     `json:"id" yaml:"id"`
	Name                string     `json:"name,omitempty" yaml:"name,omitempty"`
	Categories          TagList    `json:"categories" yaml:"categories"`
	Location            string     `json:"location,omitempty" yaml:"location,omitempty"`
	PriceRange          FlexString `json:"priceRange,omitempty" yaml:"price_range,omitempty"`
	RiskScore           *float64   `json:"riskScore,omitempty" yaml:"risk_score,omitempty"`
	DeliveryRating      *float64   `json:"deliveryRating,omitempty" yaml:"delivery_rating,omitempty"`
	QualityRating       *float64   `json:"qualityRating,omitempty" yaml:"quality_rating,omitempty"`
	CommunicationRating *float64   `json:"communicationRating,omitempty" yaml:"communication_rating,omitempty"`
	AverageDeliveryTime FlexString `json:"averageDeliveryTime,omitempty" yaml:"average_delivery_time,omitempty"`
	Certifications      TagList    `json:"certifications,omitempty" yaml:"certifications,omitempty"`
	SuccessRate         *float64   `json:"successRate,omitempty" yaml:"success_rate,omitempty"`
}

// Float returns a pointer to v. Handy for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

// TagList is a normalized, ordered set of free-text tags (categories, certifications).
// Tags are trimmed and lower-cased; empty and duplicate tags are dropped.
type TagList []string

// ParseTagList splits comma-separated text into a normalized TagList.
func ParseTagList(s string) TagList {
	return NewTagList(strings.Split(s, ",")...)
}

// NewTagList normalizes the given tags. A tag containing commas is split further.
func NewTagList(tags ...string) TagList {
	out := make(TagList, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		for _, part := range strings.Split(raw, ",") {
			tag := strings.ToLower(strings.TrimSpace(part))
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// Contains reports whether tag (normalized) is in the list.
func (t TagList) Contains(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

// String joins the tags with commas.
func (t TagList) String() string {
	return strings.Join(t, ",")
}

// UnmarshalJSON accepts either a JSON array of strings or a comma-separated string.
func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var tags []string
		if err := json.Unmarshal(data, &tags); err != nil {
			return fmt.Errorf("invalid tag list: %w", err)
		}
		*t = NewTagList(tags...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid tag list: %w", err)
	}
	*t = ParseTagList(s)
	return nil
}

// UnmarshalYAML accepts either a YAML sequence or a comma-separated scalar.
func (t *TagList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var tags []string
		if err := value.Decode(&tags); err != nil {
			return fmt.Errorf("invalid tag list: %w", err)
		}
		*t = NewTagList(tags...)
	case yaml.ScalarNode:
		*t = ParseTagList(value.Value)
	default:
		return fmt.Errorf("invalid tag list at line %d", value.Line)
	}
	return nil
}

// FlexString holds a value that marketplaces send either as text ("5 days", "800-1200")
// or as a bare number (5, 1000). Numbers are kept in their textual form.
type FlexString string

// IsZero reports whether the value is empty.
func (f FlexString) IsZero() bool {
	return strings.TrimSpace(string(f)) == ""
}

// UnmarshalJSON accepts a JSON string or number.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = FlexString(n.String())
	}
	return nil
}

// UnmarshalYAML accepts any scalar.
func (f *FlexString) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar at line %d", value.Line)
	}
	if value.Tag == "!!null" {
		*f = ""
		return nil
	}
	*f = FlexString(value.Value)
	return nil
}
