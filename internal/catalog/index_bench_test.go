package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/matchmaker/internal/models"
)

func BenchmarkIndex_Candidates(b *testing.B) {
	categories := []string{"electronics", "textiles", "metals", "plastics", "chemicals"}
	suppliers := make([]*models.Supplier, 5000)
	for i := range suppliers {
		suppliers[i] = &models.Supplier{
			ID:         fmt.Sprintf("sup-%05d", i),
			Categories: models.ParseTagList(categories[i%len(categories)]),
			Location:   "Pune",
		}
	}
	idx, err := NewIndex()
	if err != nil {
		b.Fatal(err)
	}
	defer idx.Close()
	if err := idx.Replace(suppliers); err != nil {
		b.Fatal(err)
	}
	rfq := &models.RFQ{Category: models.ParseTagList("metals"), Location: "Mumbai"}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Candidates(ctx, rfq, 200)
	}
}
