package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/matchmaker/internal/models"
)

func sampleResponse() *models.MatchResponse {
	return &models.MatchResponse{
		RFQID: "rfq-42",
		Recommendations: []*models.Recommendation{
			{
				ID:          "rec-1",
				RFQID:       "rfq-42",
				SupplierID:  "sup-1",
				MatchScore:  0.98,
				MatchReason: "Strong category match and Low risk score",
				Recommended: true,
				CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			{
				ID:          "rec-2",
				RFQID:       "rfq-42",
				SupplierID:  "sup-2",
				MatchScore:  0.41,
				MatchReason: "Low compatibility match",
			},
		},
		Breakdowns: map[string]models.CriterionScores{
			"sup-1": {"category": 1, "location": 0.8, "success_rate": 0.95, "final": 0.98},
		},
		TotalCandidates: 7,
		Scored:          7,
		Created:         1,
		Reused:          1,
		QueryTime:       12,
	}
}

func TestWriteRecommendations_JSON(t *testing.T) {
	response := sampleResponse()
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, response, OutputJSON); err != nil {
		t.Fatalf("WriteRecommendations(json): %v", err)
	}
	var decoded models.MatchResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RFQID != "rfq-42" || decoded.QueryTime != 12 || decoded.TotalCandidates != 7 {
		t.Errorf("decoded header = %+v", decoded)
	}
	if len(decoded.Recommendations) != 2 || decoded.Recommendations[0].SupplierID != "sup-1" {
		t.Errorf("decoded recommendations: got %+v", decoded.Recommendations)
	}
	if decoded.Breakdowns["sup-1"]["category"] != 1 {
		t.Errorf("decoded breakdowns: got %+v", decoded.Breakdowns)
	}
}

func TestWriteRecommendations_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatalf("WriteRecommendations(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{
		"RFQ rfq-42: 2 recommendations from 7 candidates in 12ms",
		"1 created, 1 reused, 0 failed",
		"#1 sup-1 | Score: 0.9800 | Recommended",
		"Strong category match and Low risk score",
		"category=1.00 location=0.80 success_rate=0.95",
		"#2 sup-2 | Score: 0.4100\n",
		"Low compatibility match",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
	if strings.Contains(out, "final=") {
		t.Errorf("text output should only list criteria:\n%s", out)
	}
}

func TestWriteRecommendations_unknownFormatTreatedAsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, &models.MatchResponse{RFQID: "x"}, OutputFormat("unknown")); err != nil {
		t.Fatalf("WriteRecommendations(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "RFQ x: 0 recommendations") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestWriteRecommendations_longReasonTruncated(t *testing.T) {
	resp := &models.MatchResponse{
		RFQID: "r",
		Recommendations: []*models.Recommendation{
			{SupplierID: "s", MatchReason: strings.Repeat("a", maxReasonLen+20)},
		},
	}
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), strings.Repeat("a", maxReasonLen)+"...") {
		t.Errorf("long reason should be truncated:\n%s", buf.String())
	}
}

func TestWriteStoredRecommendations(t *testing.T) {
	recs := sampleResponse().Recommendations

	var buf bytes.Buffer
	if err := WriteStoredRecommendations(&buf, "rfq-42", recs, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "2 stored recommendations for RFQ rfq-42") || !strings.Contains(out, "#2 sup-2") {
		t.Errorf("unexpected text output:\n%s", out)
	}

	buf.Reset()
	if err := WriteStoredRecommendations(&buf, "rfq-0", nil, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		RFQID           string                   `json:"rfqId"`
		Recommendations []*models.Recommendation `json:"recommendations"`
	}
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.RFQID != "rfq-0" || decoded.Recommendations == nil || len(decoded.Recommendations) != 0 {
		t.Errorf("empty list should encode as [], got %+v", decoded)
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
