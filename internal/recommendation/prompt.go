package recommendation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vasiliy-maslov/ai-commerce/internal/product"
)

const notAvailable = "N/A"

const promptTemplate = `Analyze the following product and provide a detailed recommendation with pros and cons.

Product Name: %s
Brand: %s
Category: %s
Price: $%s
Description: %s
Rating: %s/5
Stock: %d

Please provide:
1. A brief summary (2-3 sentences)
2. Pros (3-5 positive points)
3. Cons (3-5 negative points or areas for improvement)
4. A final recommendation (who should buy this product)

Respond with JSON in this exact format:
{
  "summary": "Brief summary of the product",
  "pros": ["pro 1", "pro 2", "pro 3"],
  "cons": ["con 1", "con 2", "con 3"],
  "recommendation": "Final recommendation"
}`

// BuildPrompt renders the product into the fixed analysis prompt. The output
// depends only on p.
func BuildPrompt(p product.Product) string {
	brand := p.Brand
	if brand == "" {
		brand = notAvailable
	}

	rating := notAvailable
	if p.Rating != nil {
		rating = formatRating(*p.Rating)
	}

	return fmt.Sprintf(promptTemplate,
		p.Name,
		brand,
		p.Category,
		p.Price.StringFixed(2),
		p.Description,
		rating,
		p.Stock,
	)
}

// formatRating keeps at least one decimal place, so 4 renders as "4.0"
// while 4.94 stays "4.94".
func formatRating(r float64) string {
	out := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
