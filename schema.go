package prodex

import (
	"path/filepath"
	"time"

	"github.com/openregistry/prodex/internal/domain"
	"github.com/openregistry/prodex/internal/domain/professional"
	"github.com/openregistry/prodex/internal/ingest"
	searchuc "github.com/openregistry/prodex/internal/usecase/search"
)

// ErrNotFound is returned by GetByID and GetBySlug on a miss.
var ErrNotFound = domain.ErrNotFound

// Shape selects how a source file's rows are normalized.
type Shape string

const (
	// ShapeLicense is the name/license_number/type column layout of state
	// license board exports.
	ShapeLicense Shape = "license"
	// ShapeDirectory is the full_name/license_type/status column layout of
	// state directory exports.
	ShapeDirectory Shape = "directory"
)

// Source describes one CSV source file. Path is relative to the data
// directory.
type Source struct {
	Name         string
	Path         string
	Shape        Shape
	IDPrefix     string
	DefaultState string
	// Enrich marks sources whose records participate in the enrichment merge.
	Enrich bool
}

func (s Source) toInternal() ingest.Source {
	shape := ingest.Shape(s.Shape)
	if shape == "" {
		shape = ingest.ShapeLicense
	}
	return ingest.Source{
		Name:         s.Name,
		Path:         s.Path,
		Shape:        shape,
		IDPrefix:     s.IDPrefix,
		DefaultState: s.DefaultState,
		Enrich:       s.Enrich,
	}
}

// SearchParams are the search filters. Zero values mean "not set".
type SearchParams struct {
	Query    string
	Category string
	City     string
	Zip      string
	County   string
	Limit    int
	Offset   int
}

// SearchPage is one result page. Total is the pre-pagination match count.
type SearchPage struct {
	Data   []Professional
	Total  int
	Limit  int
	Offset int
}

// Professional is the canonical licensed-professional record.
type Professional struct {
	ID            string
	Slug          string
	Name          string
	LicenseNumber string
	LicenseType   string
	Company       string
	OfficeName    *string
	City          string
	State         string
	Zip           string
	County        string
	LicensedSince string
	Expires       string
	Disciplined   bool
	Category      string
	Claimed       bool
	Phone         *string
	Email         *string
	Website       *string
	Rating        *float64
	ReviewCount   *int
	PhotoURL      *string
}

// Stats is the aggregate view of the loaded dataset.
type Stats struct {
	Total      int
	ByCategory map[string]int
	LastLoaded *time.Time
}

func toPublicProfessional(p *professional.Professional) Professional {
	return Professional{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		LicenseNumber: p.LicenseNumber,
		LicenseType:   p.LicenseType,
		Company:       p.Company,
		OfficeName:    p.OfficeName,
		City:          p.City,
		State:         p.State,
		Zip:           p.Zip,
		County:        p.County,
		LicensedSince: p.LicensedSince,
		Expires:       p.Expires,
		Disciplined:   p.Disciplined,
		Category:      string(p.Category),
		Claimed:       p.Claimed,
		Phone:         p.Phone,
		Email:         p.Email,
		Website:       p.Website,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		PhotoURL:      p.PhotoURL,
	}
}

func toPublicPage(page searchuc.Page) SearchPage {
	out := SearchPage{
		Data:   make([]Professional, len(page.Data)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for i, p := range page.Data {
		out.Data[i] = toPublicProfessional(p)
	}
	return out
}

func joinData(dataDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}
