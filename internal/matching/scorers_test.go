package matching

import (
	"math"
	"testing"
	"time"

	"github.com/hyperjump/matchmaker/internal/models"
)

var testNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func score(s Scorer, rfq *models.RFQ, sup *models.Supplier) float64 {
	return s.Score(NewScoringContext(rfq, sup, testNow))
}

func TestCategoryScorer(t *testing.T) {
	s := NewCategoryScorer()
	tests := []struct {
		name    string
		wanted  string
		offered string
		want    float64
	}{
		{"exact match ignores case", "Electronics", "electronics,metals", 1.0},
		{"half covered", "electronics,textiles", "electronics", 0.5},
		{"partial only", "electronics", "consumer electronics", 0.4},
		{"two partial matches", "steel,pipes", "steel pipes", 0.4},
		{"no overlap", "textiles", "metals", 0},
		{"rfq without categories", "", "metals", 0.3},
		{"supplier without categories", "metals", "", 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rfq := &models.RFQ{Category: models.ParseTagList(tt.wanted)}
			sup := &models.Supplier{Categories: models.ParseTagList(tt.offered)}
			if got := score(s, rfq, sup); !approx(got, tt.want) {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountCategoryMatches(t *testing.T) {
	exact, partial := CountCategoryMatches(
		[]string{"electronics", "cables", "paint"},
		[]string{"electronics", "copper cables"},
	)
	if exact != 1 || partial != 1 {
		t.Errorf("CountCategoryMatches = (%d, %d), want (1, 1)", exact, partial)
	}
}

func TestLocationScorer(t *testing.T) {
	s := NewLocationScorer(nil)
	tests := []struct {
		name     string
		buyer    string
		supplier string
		want     float64
	}{
		{"same state", "Mumbai, Maharashtra", "Pune, Maharashtra", 1.0},
		{"city resolves to state", "Mumbai", "Nagpur", 1.0},
		{"neighboring states", "Ahmedabad, Gujarat", "Mumbai, Maharashtra", 0.8},
		{"distant states", "Chennai", "Kolkata", 0.5},
		{"unknown places identical", "Springfield", "springfield", 1.0},
		{"one contains the other", "Berlin", "Berlin Mitte", 0.8},
		{"shared token", "Lyon, France", "Paris, France", 0.7},
		{"nothing in common", "Oslo", "Lima", 0.3},
		{"only one region known", "Mumbai", "Berlin", 0.3},
		{"buyer location missing", "", "Pune", 0.5},
		{"supplier location missing", "Pune", "   ", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := score(s, &models.RFQ{Location: tt.buyer}, &models.Supplier{Location: tt.supplier})
			if !approx(got, tt.want) {
				t.Errorf("score(%q, %q) = %v, want %v", tt.buyer, tt.supplier, got, tt.want)
			}
			reverse := score(s, &models.RFQ{Location: tt.supplier}, &models.Supplier{Location: tt.buyer})
			if !approx(got, reverse) {
				t.Errorf("location score not symmetric: %v vs %v", got, reverse)
			}
		})
	}
}

func TestLocationScorer_CustomGraph(t *testing.T) {
	s := NewLocationScorer(NewRegionGraph([][2]string{{"goa", "kerala"}}))
	got := score(s, &models.RFQ{Location: "Goa"}, &models.Supplier{Location: "Kochi"})
	if !approx(got, 0.8) {
		t.Errorf("score = %v, want 0.8", got)
	}
}

func TestPriceScorer(t *testing.T) {
	s := NewPriceScorer()
	tests := []struct {
		name   string
		budget *float64
		price  string
		want   float64
	}{
		{"budget inside range", models.Float(1000), "800-1200", 1.0},
		{"budget on lower bound", models.Float(800), "800-1200", 1.0},
		{"slightly below minimum", models.Float(900), "1000-2000", 0.8},
		{"below minimum", models.Float(700), "1000-2000", 0.6},
		{"far below minimum", models.Float(500), "1000-2000", 0.3},
		{"slightly above maximum", models.Float(1100), "800-1000", 0.7},
		{"above maximum", models.Float(1500), "800-1000", 0.5},
		{"far above maximum", models.Float(5000), "1000-2000", 0.3},
		{"open range", models.Float(5000), "1000+", 1.0},
		{"open range below minimum", models.Float(500), "1000+", 0.3},
		{"single average value", models.Float(1200), "1000", 1.0},
		{"formatted range", models.Float(1500), "$1,000 - $2,000", 1.0},
		{"rupee prefix far below minimum", models.Float(200), "Rs. 500-1000", 0.3},
		{"rupee prefix inside range", models.Float(750), "Rs. 500-1000", 1.0},
		{"currency code open range", models.Float(1500), "INR 1,000+", 1.0},
		{"no budget", nil, "800-1200", 0.5},
		{"zero budget", models.Float(0), "800-1200", 0.5},
		{"negative budget", models.Float(-10), "800-1200", 0.5},
		{"unparseable range", models.Float(1000), "ask for quote", 0.5},
		{"no range", models.Float(1000), "", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rfq := &models.RFQ{Budget: tt.budget}
			sup := &models.Supplier{PriceRange: models.FlexString(tt.price)}
			if got := score(s, rfq, sup); !approx(got, tt.want) {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerformanceScorer(t *testing.T) {
	s := NewPerformanceScorer()
	tests := []struct {
		name string
		sup  *models.Supplier
		want float64
	}{
		{"low risk", &models.Supplier{RiskScore: models.Float(20)}, 0.8},
		{"risk wins over ratings", &models.Supplier{RiskScore: models.Float(50), QualityRating: models.Float(5)}, 0.5},
		{"risk above scale", &models.Supplier{RiskScore: models.Float(150)}, 0},
		{"negative risk", &models.Supplier{RiskScore: models.Float(-20)}, 1},
		{"perfect ratings", &models.Supplier{
			DeliveryRating:      models.Float(5),
			QualityRating:       models.Float(5),
			CommunicationRating: models.Float(5),
		}, 1.0},
		{"lowest ratings", &models.Supplier{
			DeliveryRating:      models.Float(1),
			QualityRating:       models.Float(1),
			CommunicationRating: models.Float(1),
		}, 0},
		{"partial ratings", &models.Supplier{DeliveryRating: models.Float(5)}, 0.7},
		{"nothing known", &models.Supplier{}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := score(s, &models.RFQ{}, tt.sup); !approx(got, tt.want) {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeliveryScorer(t *testing.T) {
	s := NewDeliveryScorer()
	tests := []struct {
		name     string
		deadline string
		lead     string
		want     float64
	}{
		{"comfortably early", "10", "5 days", 1.0},
		{"just in time", "10", "9", 0.9},
		{"slightly late", "10", "11", 0.8},
		{"late", "10", "14", 0.6},
		{"very late", "10", "20", 0.4},
		{"hopeless", "10", "30", 0.2},
		{"weeks and days", "2 weeks", "13 days", 0.9},
		{"calendar deadline", "2025-01-21", "15 days", 1.0},
		{"compact calendar deadline", "20250131", "20 days", 1.0},
		{"deadline missing", "", "5", 0.5},
		{"lead time missing", "10", "", 0.5},
		{"unparseable deadline", "asap", "5", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rfq := &models.RFQ{DeliveryDeadline: models.FlexString(tt.deadline)}
			sup := &models.Supplier{AverageDeliveryTime: models.FlexString(tt.lead)}
			if got := score(s, rfq, sup); !approx(got, tt.want) {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeliveryScorer_PastDeadline(t *testing.T) {
	s := NewDeliveryScorer()
	rfq := &models.RFQ{DeliveryDeadline: "2024-12-01"}
	sup := &models.Supplier{AverageDeliveryTime: "5"}
	if got := score(s, rfq, sup); got != 0.2 {
		t.Errorf("score for a passed deadline = %v, want 0.2", got)
	}
}

func TestCertificationScorer(t *testing.T) {
	s := NewCertificationScorer()
	tests := []struct {
		name     string
		required string
		held     string
		want     float64
	}{
		{"nothing required", "", "iso 9001", 0.8},
		{"nothing held", "iso 9001", "", 0.3},
		{"all held", "ISO 9001, CE", "ce,iso 9001", 1.0},
		{"versioned certificate", "iso 9001,rohs", "iso 9001:2015", 0.6},
		{"none held", "iso 14001", "rohs", 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rfq := &models.RFQ{RequiredCertifications: models.ParseTagList(tt.required)}
			sup := &models.Supplier{Certifications: models.ParseTagList(tt.held)}
			if got := score(s, rfq, sup); !approx(got, tt.want) {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuccessRateScorer(t *testing.T) {
	s := NewSuccessRateScorer()
	tests := []struct {
		rate *float64
		want float64
	}{
		{nil, 0.75},
		{models.Float(90), 0.9},
		{models.Float(0), 0},
		{models.Float(120), 1},
		{models.Float(-5), 0},
	}
	for _, tt := range tests {
		if got := score(s, &models.RFQ{}, &models.Supplier{SuccessRate: tt.rate}); !approx(got, tt.want) {
			t.Errorf("score(%v) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestScorers_NilInputs(t *testing.T) {
	for _, s := range DefaultScorers() {
		got := s.Score(NewScoringContext(nil, nil, time.Time{}))
		if got < 0 || got > 1 {
			t.Errorf("%s scored %v for empty inputs", s.Name(), got)
		}
	}
}
