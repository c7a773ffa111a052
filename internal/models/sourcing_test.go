package models

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseTagList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want TagList
	}{
		{"simple", "electronics,metals", TagList{"electronics", "metals"}},
		{"trims and lowercases", "  Electronics , METALS ", TagList{"electronics", "metals"}},
		{"drops empties", "a,,b,", TagList{"a", "b"}},
		{"dedupes keeping order", "b,a,B", TagList{"b", "a"}},
		{"empty", "", TagList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTagList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTagList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTagList_UnmarshalJSON(t *testing.T) {
	var s struct {
		A TagList `json:"a"`
		B TagList `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":["Steel","Copper, Wire"],"b":"iso 9001,CE"}`), &s); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.A, TagList{"steel", "copper", "wire"}) {
		t.Errorf("array form: got %v", s.A)
	}
	if !reflect.DeepEqual(s.B, TagList{"iso 9001", "ce"}) {
		t.Errorf("string form: got %v", s.B)
	}
}

func TestTagList_UnmarshalYAML(t *testing.T) {
	var s struct {
		A TagList `yaml:"a"`
		B TagList `yaml:"b"`
	}
	src := "a: [Textiles, Cotton]\nb: \"ISO 9001, GOTS\"\n"
	if err := yaml.Unmarshal([]byte(src), &s); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.A, TagList{"textiles", "cotton"}) {
		t.Errorf("sequence form: got %v", s.A)
	}
	if !reflect.DeepEqual(s.B, TagList{"iso 9001", "gots"}) {
		t.Errorf("scalar form: got %v", s.B)
	}
}

func TestFlexString_Unmarshal(t *testing.T) {
	var s struct {
		N FlexString `json:"n"`
		S FlexString `json:"s"`
		Z FlexString `json:"z"`
	}
	if err := json.Unmarshal([]byte(`{"n":10,"s":"5 days","z":null}`), &s); err != nil {
		t.Fatal(err)
	}
	if s.N != "10" || s.S != "5 days" || !s.Z.IsZero() {
		t.Errorf("got %+v", s)
	}

	var y struct {
		N FlexString `yaml:"n"`
	}
	if err := yaml.Unmarshal([]byte("n: 800-1200\n"), &y); err != nil {
		t.Fatal(err)
	}
	if y.N != "800-1200" {
		t.Errorf("yaml: got %q", y.N)
	}
}

func TestMatchRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       *MatchRequest
		wantErr   bool
		wantLimit int
	}{
		{"missing rfq", &MatchRequest{}, true, 0},
		{"empty rfq id", &MatchRequest{RFQ: &RFQ{}}, true, 0},
		{"candidate without id", &MatchRequest{RFQ: &RFQ{ID: "r"}, Candidates: []*Supplier{{}}}, true, 0},
		{"default limit", &MatchRequest{RFQ: &RFQ{ID: "r"}}, false, DefaultMatchLimit},
		{"caps limit", &MatchRequest{RFQ: &RFQ{ID: "r"}, Limit: 500}, false, MaxMatchLimit},
		{"keeps limit", &MatchRequest{RFQ: &RFQ{ID: "r"}, Limit: 3}, false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.req.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", tt.req.Limit, tt.wantLimit)
			}
		})
	}
}

func TestMatchRequest_ValidateLimits(t *testing.T) {
	req := &MatchRequest{RFQ: &RFQ{ID: "r"}, Limit: 80}
	if err := req.ValidateLimits(5, 100); err != nil {
		t.Fatal(err)
	}
	if req.Limit != 80 {
		t.Errorf("Limit = %d, want 80 under a configured cap of 100", req.Limit)
	}

	req = &MatchRequest{RFQ: &RFQ{ID: "r"}}
	if err := req.ValidateLimits(8, 100); err != nil {
		t.Fatal(err)
	}
	if req.Limit != 8 {
		t.Errorf("Limit = %d, want the configured default 8", req.Limit)
	}
}
