// Package search implements filtered, relevance-ranked, paginated search over
// the loaded professional dataset.
package search

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/openregistry/prodex/internal/domain/professional"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Params are the search filters. Zero values mean "not set".
type Params struct {
	Query    string
	Category string
	City     string
	Zip      string
	County   string
	Limit    int
	Offset   int
}

// Page is one search result page. Total is the pre-pagination count so
// callers can render "X of Y" and compute has-more.
type Page struct {
	Data   []*professional.Professional
	Total  int
	Limit  int
	Offset int
}

// Service filters, scores and paginates the dataset.
type Service struct {
	data            DatasetProvider
	defaultPageSize int
	maxPageSize     int
}

// New creates a search service.
func New(data DatasetProvider) *Service {
	return &Service{data: data, defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

// WithPagination overrides the default and maximum page sizes.
func (s *Service) WithPagination(defaultSize, maxSize int) *Service {
	if defaultSize > 0 {
		s.defaultPageSize = defaultSize
	}
	if maxSize > 0 {
		s.maxPageSize = maxSize
	}
	return s
}

// nameQueryPattern detects a name-like query: two or more consecutive letters.
var nameQueryPattern = regexp.MustCompile(`[a-zA-Z]{2,}`)

// Search narrows the dataset by the given filters, ranks by relevance when a
// query string is present, and slices the requested page.
//
// The zip filter is skipped entirely when the query looks like a name, so
// "Antonio Jaime" with a stale zip filter still finds Antonio everywhere: zip
// only constrains browsing, never named search.
func (s *Service) Search(ctx context.Context, params Params) (Page, error) {
	snap, err := s.data.Snapshot(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("get snapshot: %w", err)
	}

	filtered := snap.Records

	if params.Category != "" && params.Category != "All" {
		filtered = filterRecords(filtered, func(p *professional.Professional) bool {
			return string(p.Category) == params.Category
		})
	}

	if params.City != "" {
		city := strings.ToLower(params.City)
		filtered = filterRecords(filtered, func(p *professional.Professional) bool {
			return strings.Contains(strings.ToLower(p.City), city)
		})
	}

	queryHasName := nameQueryPattern.MatchString(params.Query)
	if params.Zip != "" && !queryHasName {
		filtered = filterRecords(filtered, func(p *professional.Professional) bool {
			return strings.HasPrefix(p.Zip, params.Zip)
		})
	}

	if params.County != "" {
		county := strings.ToLower(params.County)
		filtered = filterRecords(filtered, func(p *professional.Professional) bool {
			return strings.Contains(strings.ToLower(p.County), county)
		})
	}

	if q := strings.TrimSpace(params.Query); q != "" {
		filtered = rankByRelevance(filtered, q)
	}

	total := len(filtered)
	limit := params.Limit
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	return Page{
		Data:   slicePage(filtered, offset, limit),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// rankByRelevance keeps records matching every query term and orders them by
// score descending, name ascending.
//
// A record is a candidate only if every term appears somewhere in the
// concatenation of name, company, city, county and license number. The score
// tiers: exact full-name match 100, name starts with the query 80, all terms
// in the name 60, otherwise 40 scaled by the fraction of terms hitting the
// name. Enriched profiles get small quality bonuses on top (+3 photo,
// +2 rating).
func rankByRelevance(records []*professional.Professional, query string) []*professional.Professional {
	qLower := strings.ToLower(query)
	terms := strings.Fields(qLower)
	if len(terms) == 0 {
		return records
	}

	type scored struct {
		p     *professional.Professional
		score float64
	}

	candidates := make([]scored, 0, 64)

	for _, p := range records {
		nameLower := strings.ToLower(p.Name)
		searchable := strings.ToLower(
			p.Name + " " + p.Company + " " + p.City + " " + p.County + " " + p.LicenseNumber,
		)

		if !containsAll(searchable, terms) {
			continue
		}

		var score float64
		switch {
		case nameLower == qLower:
			score = 100
		case strings.HasPrefix(nameLower, qLower):
			score = 80
		case containsAll(nameLower, terms):
			score = 60
		default:
			nameHits := 0
			for _, t := range terms {
				if strings.Contains(nameLower, t) {
					nameHits++
				}
			}
			score = 40 * float64(nameHits) / float64(len(terms))
		}

		if p.PhotoURL != nil {
			score += 3
		}
		if p.Rating != nil {
			score += 2
		}

		candidates = append(candidates, scored{p: p, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].p.Name < candidates[j].p.Name
	})

	out := make([]*professional.Professional, len(candidates))
	for i, c := range candidates {
		out[i] = c.p
	}
	return out
}

func containsAll(haystack string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

// filterRecords narrows without mutating the input slice.
func filterRecords(
	records []*professional.Professional,
	keep func(*professional.Professional) bool,
) []*professional.Professional {
	out := make([]*professional.Professional, 0, len(records))
	for _, p := range records {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// slicePage returns the [offset, offset+limit) window. An out-of-range offset
// yields an empty page, never an error.
func slicePage(records []*professional.Professional, offset, limit int) []*professional.Professional {
	if offset >= len(records) {
		return []*professional.Professional{}
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}
