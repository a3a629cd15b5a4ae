package product

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fallback_catalog.yaml
var fallbackCatalog []byte

var ErrEmptyCatalog = errors.New("catalog source returned no products")

// Source yields the products used to seed the catalog at startup.
type Source interface {
	Fetch(ctx context.Context) ([]Product, error)
}

// HTTPSource reads a dummyjson-style listing:
// {"products":[{"id":1,"title":"...","price":"9.99",...}]}.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type catalogEnvelope struct {
	Products *[]catalogRecord `json:"products"`
}

type catalogRecord struct {
	ID          *json.Number     `json:"id"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Stock       *int             `json:"stock"`
	Brand       string           `json:"brand"`
	Rating      *float64         `json:"rating"`
	Images      []string         `json:"images"`
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch catalog: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope catalogEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if envelope.Products == nil {
		return nil, errors.New("decode catalog: missing products field")
	}

	products := make([]Product, 0, len(*envelope.Products))
	for i, rec := range *envelope.Products {
		p, err := rec.toProduct()
		if err != nil {
			return nil, fmt.Errorf("decode catalog: record %d: %w", i, err)
		}
		products = append(products, p)
	}

	return products, nil
}

// toProduct maps an upstream record onto a Product. The upstream id is only
// checked for presence; ids are assigned by the store.
func (r catalogRecord) toProduct() (Product, error) {
	switch {
	case r.ID == nil:
		return Product{}, errors.New("missing id")
	case r.Title == nil:
		return Product{}, errors.New("missing title")
	case r.Description == nil:
		return Product{}, errors.New("missing description")
	case r.Price == nil:
		return Product{}, errors.New("missing price")
	case r.Category == nil:
		return Product{}, errors.New("missing category")
	case r.Stock == nil:
		return Product{}, errors.New("missing stock")
	}

	return Product{
		Name:        *r.Title,
		Description: *r.Description,
		Price:       *r.Price,
		Category:    *r.Category,
		Stock:       *r.Stock,
		Brand:       r.Brand,
		Rating:      r.Rating,
		Images:      r.Images,
	}, nil
}

type fallbackEntry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Category    string   `yaml:"category"`
	Stock       int      `yaml:"stock"`
	Brand       string   `yaml:"brand"`
	Rating      *float64 `yaml:"rating"`
	Images      []string `yaml:"images"`
}

// FallbackProducts decodes the built-in catalog shipped with the binary.
func FallbackProducts() ([]Product, error) {
	var doc struct {
		Products []fallbackEntry `yaml:"products"`
	}
	if err := yaml.Unmarshal(fallbackCatalog, &doc); err != nil {
		return nil, fmt.Errorf("decode fallback catalog: %w", err)
	}

	products := make([]Product, 0, len(doc.Products))
	for _, e := range doc.Products {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("decode fallback catalog: %s: %w", e.Name, err)
		}
		products = append(products, Product{
			Name:        e.Name,
			Description: e.Description,
			Price:       price,
			Category:    e.Category,
			Stock:       e.Stock,
			Brand:       e.Brand,
			Rating:      e.Rating,
			Images:      e.Images,
		})
	}
	return products, nil
}

// Bootstrap seeds svc from src and returns the number of products loaded.
// Any failure of src, including an invalid record, switches to the built-in
// set; nothing from a failed fetch is kept. Errors are logged, not returned.
func Bootstrap(ctx context.Context, svc Service, src Source) int {
	products, err := fetchValid(ctx, src)
	if err != nil {
		log.Warn().Err(err).Msg("bootstrap: catalog source failed, using fallback products")

		products, err = FallbackProducts()
		if err != nil {
			// The embedded document is part of the build; this only fires on a broken binary.
			log.Error().Err(err).Msg("bootstrap: fallback catalog unusable")
			return 0
		}
	}

	loaded := 0
	for i := range products {
		if _, err := svc.CreateProduct(ctx, &products[i]); err != nil {
			log.Error().Err(err).Str("name", products[i].Name).Msg("bootstrap: failed to load product")
			continue
		}
		loaded++
	}

	log.Info().Int("count", loaded).Msg("bootstrap: catalog loaded")
	return loaded
}

func fetchValid(ctx context.Context, src Source) ([]Product, error) {
	if src == nil {
		return nil, errors.New("no catalog source configured")
	}

	products, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}
	for i := range products {
		if err := validate(&products[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return products, nil
}
