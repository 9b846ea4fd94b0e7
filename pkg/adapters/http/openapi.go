package http

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi.yaml
var openapiSpec []byte

// rawSpec returns the OpenAPI document served at /openapi.yaml.
func rawSpec() []byte {
	return openapiSpec
}

// GetSwagger parses and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading OpenAPI document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

// NewRouter matches requests against the embedded document's operations.
// Server URLs are cleared so any host matches.
func NewRouter() (routers.Router, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	return routerFor(doc)
}

func routerFor(doc *openapi3.T) (routers.Router, error) {
	doc.Servers = nil
	return gorillamux.NewRouter(doc)
}

// validateRequests rejects requests whose parameters or body do not match
// the operation they are routed to.
func (s *Server) validateRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// StripSlashes only rewrites the chi route path.
		lookup := r
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			lookup = r.Clone(r.Context())
			lookup.URL.Path = strings.TrimSuffix(p, "/")
		}

		route, params, err := s.router.FindRoute(lookup)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
			Request:    lookup,
			PathParams: params,
			Route:      route,
		})
		if err != nil {
			s.fail(w, http.StatusBadRequest, err.Error(), nil)
			return
		}

		r.Body = lookup.Body
		next.ServeHTTP(w, r)
	})
}
