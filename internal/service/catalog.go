package service

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/guardianapis/product-switch/internal/config"
	"github.com/guardianapis/product-switch/internal/domain/catalog"
	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/guardianapis/product-switch/internal/s3"
)

const catalogIndexCacheKey = "catalog_index"

// CatalogService loads, indexes and caches the product catalog. The index
// is immutable, so a cached copy can be shared by reference across
// concurrent requests.
type CatalogService interface {
	GetIndex(ctx context.Context) (*catalog.Index, error)
}

type catalogService struct {
	store s3.Store
	cache *gocache.Cache
	log   *logger.Logger
}

func NewCatalogService(cfg *config.Configuration, store s3.Store, log *logger.Logger) CatalogService {
	ttl := time.Duration(cfg.Catalog.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &catalogService{
		store: store,
		cache: gocache.New(ttl, 2*ttl),
		log:   log,
	}
}

func (s *catalogService) GetIndex(ctx context.Context) (*catalog.Index, error) {
	if cached, found := s.cache.Get(catalogIndexCacheKey); found {
		return cached.(*catalog.Index), nil
	}

	data, err := s.store.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	parsed, err := catalog.Parse(data)
	if err != nil {
		return nil, err
	}

	index, err := catalog.BuildIndex(parsed)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(catalogIndexCacheKey, index)
	s.log.Infow("refreshed catalog index", "products", len(parsed.Products))
	return index, nil
}
