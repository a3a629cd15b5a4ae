// Package gateway fronts the product, order and user services under one
// address.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Upstreams struct {
	Products string
	Orders   string
	Users    string
}

// RegisterRoutes proxies /api/products, /api/orders and /api/users, with
// everything below them, to the matching service. Paths are forwarded
// unchanged.
func RegisterRoutes(router chi.Router, upstreams Upstreams) error {
	routes := []struct {
		prefix string
		target string
	}{
		{prefix: "/api/products", target: upstreams.Products},
		{prefix: "/api/orders", target: upstreams.Orders},
		{prefix: "/api/users", target: upstreams.Users},
	}

	for _, route := range routes {
		proxy, err := newProxy(route.prefix, route.target)
		if err != nil {
			return err
		}
		router.Handle(route.prefix, proxy)
		router.Handle(route.prefix+"/*", proxy)

		log.Info().Str("prefix", route.prefix).Str("target", route.target).Msg("gateway: route registered")
	}
	return nil
}

func newProxy(prefix, target string) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: invalid upstream %q for %s", target, prefix)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(u)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error().Err(err).Str("upstream", target).Str("path", r.URL.Path).Msg("gateway: upstream request failed")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Upstream service unavailable"})
		},
	}
	return proxy, nil
}
