package models

import "fmt"

const (
	// DefaultMatchLimit is the number of recommendations returned when no limit is given.
	DefaultMatchLimit = 5
	// MaxMatchLimit caps the number of recommendations a single request may ask for.
	MaxMatchLimit = 50
)

// MatchRequest asks for the best suppliers for an RFQ.
// When Candidates is empty the service draws candidates from its supplier catalog.
type MatchRequest struct {
	RFQ        *RFQ        `json:"rfq"`
	Candidates []*Supplier `json:"candidates,omitempty"`
	Limit      int         `json:"limit,omitempty"`
}

// Validate checks the request and normalizes Limit into [1, MaxMatchLimit].
func (r *MatchRequest) Validate() error {
	return r.ValidateLimits(DefaultMatchLimit, MaxMatchLimit)
}

// ValidateLimits checks the request and normalizes Limit into [1, maxLimit], using
// defaultLimit when none is given.
func (r *MatchRequest) ValidateLimits(defaultLimit, maxLimit int) error {
	if r.RFQ == nil {
		return fmt.Errorf("rfq is required")
	}
	if r.RFQ.ID == "" {
		return fmt.Errorf("rfq id cannot be empty")
	}
	for i, c := range r.Candidates {
		if c == nil || c.ID == "" {
			return fmt.Errorf("candidate %d has no id", i)
		}
	}
	if r.Limit <= 0 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	return nil
}

// CriterionScores maps a criterion name to its score in [0,1].
type CriterionScores map[string]float64

// MatchResponse is the result of a match request.
type MatchResponse struct {
	RFQID           string            `json:"rfqId"`
	Recommendations []*Recommendation `json:"recommendations"`
	// Breakdowns holds the freshly computed per-criterion scores keyed by supplier ID.
	// Reused recommendations keep their stored score; their breakdown reflects the current data.
	Breakdowns      map[string]CriterionScores `json:"breakdowns,omitempty"`
	TotalCandidates int                        `json:"totalCandidates"`
	Scored          int                        `json:"scored"`
	Created         int                        `json:"created"`
	Reused          int                        `json:"reused"`
	Failed          int                        `json:"failed"`
	QueryTime       int64                      `json:"queryTimeMs"`
}
