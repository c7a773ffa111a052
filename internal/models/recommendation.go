package models

import "time"

// Recommendation is a persisted (RFQ, supplier) pairing. At most one exists per pair.
type Recommendation struct {
	ID          string    `json:"id" db:"id"`
	RFQID       string    `json:"rfqId" db:"rfq_id"`
	SupplierID  string    `json:"supplierId" db:"supplier_id"`
	MatchScore  float64   `json:"matchScore" db:"match_score"`
	MatchReason string    `json:"matchReason" db:"match_reason"`
	Recommended bool      `json:"recommended" db:"recommended"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// RecommendationInput is the input for creating a recommendation.
type RecommendationInput struct {
	RFQID       string  `json:"rfqId"`
	SupplierID  string  `json:"supplierId"`
	MatchScore  float64 `json:"matchScore"`
	MatchReason string  `json:"matchReason"`
	Recommended bool    `json:"recommended"`
}
