// Package prodex embeds the licensed-professional dataset engine in-process:
// the same ingestion pipeline, dataset cache and search services the HTTP API
// serves, without the server.
package prodex

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/openregistry/prodex/internal/ingest"
	"github.com/openregistry/prodex/internal/repository/dataset"
	adminuc "github.com/openregistry/prodex/internal/usecase/admin"
	cataloguc "github.com/openregistry/prodex/internal/usecase/catalog"
	searchuc "github.com/openregistry/prodex/internal/usecase/search"
)

// Client is the prodex SDK entry point.
type Client struct {
	cache      *dataset.Cache
	searchSvc  *searchuc.Service
	catalogSvc *cataloguc.Service
	adminSvc   *adminuc.Service
}

// Option configures the client.
type Option func(*clientConfig)

type clientConfig struct {
	dataDir         string
	sources         []Source
	snapshotPath    string
	enrichmentPath  string
	defaultPageSize int
	maxPageSize     int
	logger          *zap.Logger
}

// WithDataDir sets the directory source paths resolve against (default "data").
func WithDataDir(dir string) Option {
	return func(c *clientConfig) { c.dataDir = dir }
}

// WithSources sets the ordered source list. Order matters: slug collision
// disambiguation is first-come, so reordering sources changes assigned slugs.
func WithSources(sources ...Source) Option {
	return func(c *clientConfig) { c.sources = append(c.sources, sources...) }
}

// WithSnapshot sets a prebuilt index file, relative to the data directory.
// When present and non-empty it is preferred over raw CSV ingestion.
func WithSnapshot(path string) Option {
	return func(c *clientConfig) { c.snapshotPath = path }
}

// WithEnrichment sets the enrichment lookup file, relative to the data
// directory.
func WithEnrichment(path string) Option {
	return func(c *clientConfig) { c.enrichmentPath = path }
}

// WithPagination overrides the default and maximum search page sizes.
func WithPagination(defaultSize, maxSize int) Option {
	return func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	}
}

// WithLogger sets the logger. Default is no logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// New creates a prodex Client. The dataset is loaded lazily on first read.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{dataDir: "data"}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.sources) == 0 && cfg.snapshotPath == "" {
		return nil, errors.New("prodex: at least one source or a snapshot required (use WithSources or WithSnapshot)")
	}

	sources := make([]ingest.Source, len(cfg.sources))
	for i, src := range cfg.sources {
		if src.Path == "" || src.IDPrefix == "" {
			return nil, fmt.Errorf("prodex: source %d needs a path and an id prefix", i)
		}
		sources[i] = src.toInternal()
	}

	loader := ingest.NewLoader(cfg.dataDir, sources, cfg.enrichmentPath, cfg.logger)

	snapshotPath := ""
	if cfg.snapshotPath != "" {
		snapshotPath = joinData(cfg.dataDir, cfg.snapshotPath)
	}
	cache := dataset.New(loader, snapshotPath, cfg.logger)

	searchSvc := searchuc.New(cache)
	if cfg.defaultPageSize > 0 || cfg.maxPageSize > 0 {
		searchSvc = searchSvc.WithPagination(cfg.defaultPageSize, cfg.maxPageSize)
	}

	return &Client{
		cache:      cache,
		searchSvc:  searchSvc,
		catalogSvc: cataloguc.New(cache),
		adminSvc:   adminuc.New(cfg.dataDir, sources, cache, cfg.logger),
	}, nil
}

// Load forces the dataset to load now instead of on first read.
func (c *Client) Load(ctx context.Context) error {
	if _, err := c.cache.Snapshot(ctx); err != nil {
		return fmt.Errorf("prodex: load: %w", err)
	}
	return nil
}

// Search runs a filtered, relevance-ranked, paginated query.
func (c *Client) Search(ctx context.Context, params SearchParams) (SearchPage, error) {
	page, err := c.searchSvc.Search(ctx, searchuc.Params(params))
	if err != nil {
		return SearchPage{}, fmt.Errorf("prodex: search: %w", err)
	}
	return toPublicPage(page), nil
}

// GetByID returns the professional with the given natural id, or ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (Professional, error) {
	p, err := c.catalogSvc.GetByID(ctx, id)
	if err != nil {
		return Professional{}, err
	}
	return toPublicProfessional(p), nil
}

// GetBySlug returns the professional with the given slug, or ErrNotFound.
func (c *Client) GetBySlug(ctx context.Context, slug string) (Professional, error) {
	p, err := c.catalogSvc.GetBySlug(ctx, slug)
	if err != nil {
		return Professional{}, err
	}
	return toPublicProfessional(p), nil
}

// Stats returns total and per-category record counts.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	stats, err := c.catalogSvc.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("prodex: stats: %w", err)
	}
	return Stats{Total: stats.Total, ByCategory: stats.ByCategory, LastLoaded: stats.LastLoaded}, nil
}

// Import writes raw CSV content under the data directory and invalidates the
// cache. Returns the number of rows normalization would accept.
func (c *Client) Import(ctx context.Context, filename, content string) (int, error) {
	return c.adminSvc.ImportSource(ctx, filename, content)
}

// Reload forces immediate synchronous repopulation and returns the fresh
// record count.
func (c *Client) Reload(ctx context.Context) (int, error) {
	snap, _, err := c.adminSvc.Reload(ctx)
	if err != nil {
		return 0, fmt.Errorf("prodex: reload: %w", err)
	}
	return len(snap.Records), nil
}

// Invalidate drops the cached dataset; the next read rebuilds it.
func (c *Client) Invalidate() {
	c.cache.Invalidate()
}
