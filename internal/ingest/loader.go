package ingest

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/openregistry/prodex/internal/domain/professional"
	"github.com/openregistry/prodex/internal/metrics"
)

// Stats aggregates one load run. Rejected rows are only observable through
// these counts; partial data always beats a hard failure for bulk ingestion.
type Stats struct {
	RowsRead int                               `json:"rowsRead"`
	Accepted int                               `json:"accepted"`
	Enriched int                               `json:"enriched"`
	BySource map[string]int                    `json:"bySource"`
	Rejected map[professional.RejectReason]int `json:"rejected"`
	Duration time.Duration                     `json:"-"`
}

// Result is the output of one full multi-source load.
type Result struct {
	Professionals []*professional.Professional
	Stats         Stats
}

// Loader runs the full ingestion pipeline across the configured sources in
// their fixed order. The order matters: slug collision disambiguation is
// first-come, and stable slugs across rebuilds depend on it.
type Loader struct {
	dataDir        string
	sources        []Source
	enrichmentPath string
	logger         *zap.Logger
}

// NewLoader creates a loader. Source paths are resolved relative to dataDir;
// enrichmentPath may be empty.
func NewLoader(dataDir string, sources []Source, enrichmentPath string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dataDir: dataDir, sources: sources, enrichmentPath: enrichmentPath, logger: logger}
}

// Sources returns the configured sources in processing order.
func (l *Loader) Sources() []Source { return l.sources }

// DataDir returns the root directory source paths resolve against.
func (l *Loader) DataDir() string { return l.dataDir }

// Load parses every source, normalizes and deduplicates rows, assigns slugs
// and applies the enrichment overlay. Missing source files contribute zero
// rows. The context is threaded for future cancellation support; the reference
// behavior has no load timeout.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	start := time.Now()

	stats := Stats{
		BySource: make(map[string]int, len(l.sources)),
		Rejected: make(map[professional.RejectReason]int),
	}

	var all []*professional.Professional
	seenIDs := make(map[string]struct{})
	slugs := make(map[string]struct{})
	enrichable := make(map[string]struct{})

	for _, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows := ReadFile(filepath.Join(l.dataDir, src.Path))
		accepted := 0

		for _, row := range rows {
			stats.RowsRead++

			p, reason := Normalize(row, src)
			if reason == professional.RejectNone {
				if _, dup := seenIDs[p.ID]; dup {
					reason = professional.RejectDuplicateID
				}
			}
			if reason != professional.RejectNone {
				stats.Rejected[reason]++
				metrics.RowsRejectedTotal.WithLabelValues(string(reason)).Inc()
				continue
			}

			seenIDs[p.ID] = struct{}{}
			p.Slug = assignSlug(&p, slugs)

			if src.Enrich {
				enrichable[p.ID] = struct{}{}
			}

			rec := p
			all = append(all, &rec)
			accepted++
		}

		stats.BySource[sourceKey(src)] = accepted
		stats.Accepted += accepted
		metrics.RowsAcceptedTotal.WithLabelValues(sourceKey(src)).Add(float64(accepted))

		l.logger.Debug("source loaded",
			zap.String("source", sourceKey(src)),
			zap.Int("rows", len(rows)),
			zap.Int("accepted", accepted),
		)
	}

	stats.Enriched = l.applyEnrichment(all, enrichable)
	stats.Duration = time.Since(start)

	metrics.DatasetLoadDuration.Observe(stats.Duration.Seconds())

	l.logger.Info("dataset loaded",
		zap.Int("sources", len(l.sources)),
		zap.Int("rows_read", stats.RowsRead),
		zap.Int("accepted", stats.Accepted),
		zap.Int("enriched", stats.Enriched),
		zap.Any("rejected", rejectedCounts(stats.Rejected)),
		zap.Duration("duration", stats.Duration),
	)

	return &Result{Professionals: all, Stats: stats}, nil
}

// assignSlug picks a globally unique slug for p and records it in slugs.
// An empty candidate (insufficient name/city data) falls back to the license
// number; a collision is disambiguated by appending the license number, which
// cannot collide again because license-prefixed ids are already unique.
func assignSlug(p *professional.Professional, slugs map[string]struct{}) string {
	candidate := Slugify(p.Name + " " + p.City)
	if candidate == "" {
		candidate = "professional-" + p.LicenseNumber
	}
	if _, taken := slugs[candidate]; taken {
		candidate = candidate + "-" + p.LicenseNumber
	}
	slugs[candidate] = struct{}{}
	return candidate
}

// applyEnrichment overlays the keyed enrichment lookup onto records from
// enrichable sources. Returns the number of records touched.
func (l *Loader) applyEnrichment(all []*professional.Professional, enrichable map[string]struct{}) int {
	if len(enrichable) == 0 || l.enrichmentPath == "" {
		return 0
	}

	lookup := ReadEnrichment(filepath.Join(l.dataDir, l.enrichmentPath))
	if len(lookup) == 0 {
		return 0
	}

	merged := 0
	for _, p := range all {
		if _, ok := enrichable[p.ID]; !ok {
			continue
		}
		e, ok := lookup[p.LicenseNumber]
		if !ok {
			continue
		}
		p.Merge(e)
		merged++
	}
	return merged
}

func sourceKey(src Source) string {
	if src.Name != "" {
		return src.Name
	}
	return src.Path
}

// rejectedCounts converts the reason-keyed map into a loggable string map.
func rejectedCounts(rejected map[professional.RejectReason]int) map[string]int {
	out := make(map[string]int, len(rejected))
	for reason, n := range rejected {
		out[string(reason)] = n
	}
	return out
}
