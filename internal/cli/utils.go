// Package cli provides CLI output helpers for matchmaker.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/matchmaker/internal/matching"
	"github.com/hyperjump/matchmaker/internal/models"
	"github.com/hyperjump/matchmaker/pkg/utils"
)

// OutputFormat is the format for recommendation output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// maxReasonLen keeps text output to one screen line per rationale.
const maxReasonLen = 160

// ParseOutputFormat maps a --format flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// WriteRecommendations writes a match response to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteRecommendations(w io.Writer, resp *models.MatchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, resp)
	default:
		writeMatchText(w, resp)
		return nil
	}
}

// WriteStoredRecommendations writes the recommendations already stored for an RFQ.
func WriteStoredRecommendations(w io.Writer, rfqID string, recs []*models.Recommendation, format OutputFormat) error {
	if recs == nil {
		recs = []*models.Recommendation{}
	}
	switch format {
	case OutputJSON:
		return writeJSON(w, map[string]interface{}{"rfqId": rfqID, "recommendations": recs})
	default:
		fmt.Fprintf(w, "\n%d stored recommendations for RFQ %s\n\n", len(recs), rfqID)
		for i, rec := range recs {
			writeOneRecommendation(w, i+1, rec, nil)
		}
		return nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMatchText(w io.Writer, resp *models.MatchResponse) {
	fmt.Fprintf(w, "\nRFQ %s: %d recommendations from %d candidates in %dms (%d created, %d reused, %d failed)\n\n",
		resp.RFQID, len(resp.Recommendations), resp.TotalCandidates, resp.QueryTime,
		resp.Created, resp.Reused, resp.Failed)
	for i, rec := range resp.Recommendations {
		writeOneRecommendation(w, i+1, rec, resp.Breakdowns[rec.SupplierID])
	}
}

func writeOneRecommendation(w io.Writer, rank int, rec *models.Recommendation, scores models.CriterionScores) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	marker := ""
	if rec.Recommended {
		marker = " | Recommended"
	}
	fmt.Fprintf(w, "#%d %s | Score: %.4f%s\n", rank, rec.SupplierID, rec.MatchScore, marker)
	fmt.Fprintf(w, "%s\n", utils.Truncate(rec.MatchReason, maxReasonLen))
	if len(scores) > 0 {
		parts := make([]string, 0, len(matching.Criteria))
		for _, c := range matching.Criteria {
			if v, ok := scores[c]; ok {
				parts = append(parts, fmt.Sprintf("%s=%.2f", c, v))
			}
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, " "))
	}
	fmt.Fprintln(w)
}
