// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultPageSize is used when a caller does not ask for a page size
const DefaultPageSize = 50

// Service serves catalog reads. Source failures are logged and degrade to
// empty results so storefront pages still render.
type Service struct {
	source  Source
	bundles []Bundle
	log     *logrus.Entry
}

// NewService creates a new catalog service
func NewService(source Source, log *logrus.Logger) *Service {
	return &Service{
		source:  source,
		bundles: CategoryBundles,
		log:     log.WithField("component", "catalog"),
	}
}

// WithBundles replaces the configured category bundles
func (s *Service) WithBundles(bundles []Bundle) *Service {
	s.bundles = bundles
	return s
}

// Products lists products, optionally filtered by a search query. An
// invalid query is rejected; a failing source yields an empty list.
func (s *Service) Products(ctx context.Context, first int, query string) ([]Product, error) {
	query, err := SanitizeQuery(query)
	if err != nil {
		return nil, err
	}

	products, err := s.source.Products(ctx, ClampFirst(first), query)
	if err != nil {
		s.log.WithError(err).WithField("query", query).Warn("Failed to load products")
		return []Product{}, nil
	}
	return products, nil
}

// Product returns a single product. ErrInvalidHandle and ErrNotFound are
// returned as such; source failures are reported as not found.
func (s *Service) Product(ctx context.Context, handle string) (*Product, error) {
	handle, err := NormalizeHandle(handle)
	if err != nil {
		return nil, err
	}

	product, err := s.source.ProductByHandle(ctx, handle)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).WithField("handle", handle).Warn("Failed to load product")
		}
		return nil, ErrNotFound
	}
	return product, nil
}

// ProductsByCategory returns the products whose category matches slug
func (s *Service) ProductsByCategory(ctx context.Context, slug string) ([]Product, error) {
	products, err := s.Products(ctx, MaxPageSize, "")
	if err != nil {
		return nil, err
	}

	out := []Product{}
	for _, p := range products {
		if strings.EqualFold(p.Category, slug) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ProductsByHandles resolves handles in order, skipping those that are
// invalid or unknown
func (s *Service) ProductsByHandles(ctx context.Context, handles []string) []Product {
	out := make([]Product, 0, len(handles))
	for _, handle := range handles {
		product, err := s.Product(ctx, handle)
		if err != nil {
			continue
		}
		out = append(out, *product)
	}
	return out
}

// Collections lists collections; a failing source yields an empty list
func (s *Service) Collections(ctx context.Context, first int) []Collection {
	collections, err := s.source.Collections(ctx, ClampFirst(first))
	if err != nil {
		s.log.WithError(err).Warn("Failed to load collections")
		return []Collection{}
	}
	if collections == nil {
		return []Collection{}
	}
	return collections
}

// Bundles returns the configured category bundles
func (s *Service) Bundles() []Bundle {
	return append([]Bundle{}, s.bundles...)
}

// Bundle resolves and prices the bundle of a category
func (s *Service) Bundle(ctx context.Context, categorySlug string) (*BundleOffer, error) {
	bundle, ok := FindBundle(s.bundles, categorySlug)
	if !ok {
		return nil, ErrNoBundle
	}

	offer := PriceBundle(bundle, s.ProductsByHandles(ctx, bundle.ProductHandles))
	return &offer, nil
}
