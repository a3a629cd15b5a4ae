package product

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	products []Product
	err      error
}

func (s stubSource) Fetch(context.Context) ([]Product, error) {
	return s.products, s.err
}

func fallbackNames(t *testing.T) []string {
	t.Helper()
	products, err := FallbackProducts()
	require.NoError(t, err)
	return names(products)
}

func TestFallbackProducts(t *testing.T) {
	products, err := FallbackProducts()
	require.NoError(t, err)
	require.Len(t, products, 3)

	laptop := products[0]
	assert.Equal(t, "Laptop", laptop.Name)
	assert.True(t, laptop.Price.Equal(decimal.RequireFromString("999.99")))
	assert.Equal(t, "Generic", laptop.Brand)
	require.NotNil(t, laptop.Rating)
	assert.InDelta(t, 4.5, *laptop.Rating, 1e-9)
	assert.NotEmpty(t, laptop.Images)
}

func TestBootstrap_FromSource(t *testing.T) {
	svc := NewService(NewStore())
	src := stubSource{products: []Product{
		{Name: "Essence Mascara", Price: decimal.RequireFromString("9.99"), Category: "beauty", Stock: 5},
		{Name: "Eyeshadow Palette", Price: decimal.RequireFromString("19.99"), Category: "beauty", Stock: 44},
	}}

	loaded := Bootstrap(context.Background(), svc, src)

	assert.Equal(t, 2, loaded)
	assert.Equal(t, []string{"Essence Mascara", "Eyeshadow Palette"}, names(svc.ListProducts(context.Background())))
}

func TestBootstrap_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{name: "source error", src: stubSource{err: errors.New("connection refused")}},
		{name: "empty listing", src: stubSource{products: []Product{}}},
		{name: "invalid record", src: stubSource{products: []Product{
			{Name: "ok", Price: decimal.NewFromInt(1)},
			{Name: "bad", Price: decimal.NewFromInt(-1)},
		}}},
		{name: "nil source", src: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(NewStore())

			loaded := Bootstrap(context.Background(), svc, tt.src)

			assert.Equal(t, 3, loaded)
			assert.Equal(t, fallbackNames(t), names(svc.ListProducts(context.Background())))
		})
	}
}

func TestBootstrap_UnreachableHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc := NewService(NewStore())
	loaded := Bootstrap(context.Background(), svc, NewHTTPSource(url, time.Second))

	assert.Equal(t, 3, loaded)
	assert.NotEmpty(t, svc.ListProducts(context.Background()))
}

func TestHTTPSource_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    []string
		wantErr bool
	}{
		{
			name:   "valid listing",
			status: http.StatusOK,
			body: `{"products":[
				{"id":1,"title":"Essence Mascara","description":"Volume","price":"9.99","category":"beauty","stock":5,"brand":"Essence","rating":4.94,"images":["https://cdn/1.png"]},
				{"id":2,"title":"Apple","description":"Fresh","price":1.99,"category":"groceries","stock":9}
			],"total":2}`,
			want: []string{"Essence Mascara", "Apple"},
		},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: true},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: true},
		{name: "missing products", status: http.StatusOK, body: `{"items":[]}`, wantErr: true},
		{name: "missing price", status: http.StatusOK, body: `{"products":[{"id":1,"title":"x","description":"","category":"c","stock":1}]}`, wantErr: true},
		{name: "price not a number", status: http.StatusOK, body: `{"products":[{"id":1,"title":"x","description":"","price":"cheap","category":"c","stock":1}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := NewHTTPSource(server.URL, time.Second).Fetch(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestHTTPSource_OptionalFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products":[{"id":7,"title":"Apple","description":"Fresh","price":"1.99","category":"groceries","stock":9}]}`))
	}))
	defer server.Close()

	got, err := NewHTTPSource(server.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Zero(t, got[0].ID, "upstream ids are not carried over")
	assert.Empty(t, got[0].Brand)
	assert.Nil(t, got[0].Rating)
	assert.Empty(t, got[0].Images)
}
