package recommendation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vasiliy-maslov/ai-commerce/internal/product"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt(testProduct())

	for _, line := range []string{
		"Product Name: Laptop\n",
		"Brand: Generic\n",
		"Category: Electronics\n",
		"Price: $999.99\n",
		"Description: High-performance laptop\n",
		"Rating: 4.5/5\n",
		"Stock: 10\n",
		`"recommendation": "Final recommendation"`,
	} {
		assert.Contains(t, got, line)
	}
	assert.True(t, strings.HasPrefix(got, "Analyze the following product"))
	assert.Equal(t, got, BuildPrompt(testProduct()), "prompt is deterministic")
}

func TestBuildPrompt_MissingBrandAndRating(t *testing.T) {
	got := BuildPrompt(product.Product{Name: "Apple", Price: decimal.NewFromInt(2), Category: "groceries"})

	assert.Contains(t, got, "Brand: N/A\n")
	assert.Contains(t, got, "Rating: N/A/5\n")
	assert.Contains(t, got, "Price: $2.00\n")
}

func TestBuildPrompt_Rating(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{rating: 4, want: "Rating: 4.0/5\n"},
		{rating: 0, want: "Rating: 0.0/5\n"},
		{rating: 4.94, want: "Rating: 4.94/5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := testProduct()
			p.Rating = &tt.rating

			assert.Contains(t, BuildPrompt(p), tt.want)
		})
	}
}
