package product

import "github.com/shopspring/decimal"

// Product is a catalog entry.
type Product struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Brand       string          `json:"brand,omitempty"`
	Rating      *float64        `json:"rating,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"` // first entry of Images
	Images      []string        `json:"images"`
}

func setID(p *Product, id uint64) { p.ID = id }

func clone(p Product) Product {
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	if p.Rating != nil {
		r := *p.Rating
		p.Rating = &r
	}
	return p
}
