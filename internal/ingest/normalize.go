package ingest

import (
	"regexp"
	"strings"

	"github.com/openregistry/prodex/internal/domain/professional"
)

// Shape selects the normalization path for a source. It is fixed per source
// configuration, never sniffed per row.
type Shape string

const (
	// ShapeLicense is the name/license_number/type column layout used by the
	// state license board exports (IL, TX, CA, FL, NY, AZ, CO, CT).
	ShapeLicense Shape = "license"
	// ShapeDirectory is the full_name/license_type/status column layout used by
	// the state directory exports (UT, NV, DE, OR, WV).
	ShapeDirectory Shape = "directory"
)

// Source describes one CSV source file and its normalization options.
type Source struct {
	Name         string
	Path         string
	Shape        Shape
	IDPrefix     string
	DefaultState string
	// Enrich marks sources whose records participate in the enrichment merge.
	Enrich bool
}

// licenseTypeToCategory maps license-shape type strings to product categories.
var licenseTypeToCategory = map[string]professional.Category{
	"LICENSED REAL ESTATE BROKER":          professional.CategoryRealtor,
	"LICENSED REAL ESTATE MANAGING BROKER": professional.CategoryRealtor,
	"LICENSED HOME INSPECTOR":              professional.CategoryHomeInspector,
}

// skipLicenseTypes are license-shape types with no product mapping: appraisers
// and corporate/partnership/LLC broker registrations.
var skipLicenseTypes = map[string]struct{}{
	"CERTIFIED RESIDENTIAL REAL ESTATE APPRAISER": {},
	"CERTIFIED GENERAL REAL ESTATE APPRAISER":     {},
	"ASSOCIATE REAL ESTATE TRAINEE APPRAISER":     {},
	"LICENSED REAL ESTATE BROKER CORPORATION":     {},
	"LICENSED REAL ESTATE BROKER PARTNERSHIP":     {},
	"LICENSED REAL ESTATE BROKER LLC":             {},
}

// agentTypePattern accepts directory-shape license types that describe
// real-estate agents (Broker, Salesperson, Associate Broker, ...).
var agentTypePattern = regexp.MustCompile(`(?i)(broker|sales|realtor|agent)`)

// Normalize maps one raw row into the canonical entity using the source's
// shape and options. A non-empty RejectReason means the row is dropped.
func Normalize(row Row, src Source) (professional.Professional, professional.RejectReason) {
	licenseNumber := row["license_number"]
	if licenseNumber == "" {
		return professional.Professional{}, professional.RejectBlankLicense
	}

	if src.Shape == ShapeDirectory {
		return normalizeDirectory(row, src, licenseNumber)
	}
	return normalizeLicense(row, src, licenseNumber)
}

func normalizeLicense(row Row, src Source, licenseNumber string) (professional.Professional, professional.RejectReason) {
	if row["is_business"] == "True" {
		return professional.Professional{}, professional.RejectBusinessEntity
	}

	licenseType := strings.ToUpper(row["type"])
	if _, skip := skipLicenseTypes[licenseType]; skip {
		return professional.Professional{}, professional.RejectSkippedType
	}

	category, ok := licenseTypeToCategory[licenseType]
	if !ok {
		return professional.Professional{}, professional.RejectUnmappedType
	}

	return professional.Professional{
		ID:            src.IDPrefix + licenseNumber,
		Name:          row["name"],
		LicenseNumber: licenseNumber,
		LicenseType:   row["type"],
		Company:       row["company"],
		City:          row["city"],
		State:         stateOrDefault(row, src),
		Zip:           row["zip"],
		County:        row["county"],
		LicensedSince: row["licensed_since"],
		Expires:       row["expires"],
		Disciplined:   strings.EqualFold(row["disciplined"], "Y"),
		Category:      category,
	}, professional.RejectNone
}

func normalizeDirectory(row Row, src Source, licenseNumber string) (professional.Professional, professional.RejectReason) {
	// Only active records are loaded; a missing status field is treated as active.
	status := strings.ToLower(row["status"])
	if status != "" && !strings.Contains(status, "active") {
		return professional.Professional{}, professional.RejectInactive
	}

	if !agentTypePattern.MatchString(row["license_type"]) {
		return professional.Professional{}, professional.RejectNotAgent
	}

	name := row["full_name"]
	if name == "" {
		name = row["name"]
	}

	return professional.Professional{
		ID:            src.IDPrefix + licenseNumber,
		Name:          name,
		LicenseNumber: licenseNumber,
		LicenseType:   row["license_type"],
		Company:       row["company"],
		City:          row["city"],
		State:         stateOrDefault(row, src),
		Zip:           row["zip"],
		County:        row["county"],
		LicensedSince: row["licensed_since"],
		Expires:       row["expires"],
		Category:      professional.CategoryRealtor,
		Phone:         optional(row["phone"]),
		Email:         optional(row["email"]),
	}, professional.RejectNone
}

func stateOrDefault(row Row, src Source) string {
	if s := row["state"]; s != "" {
		return s
	}
	return src.DefaultState
}

// optional converts an empty string to nil for nullable canonical fields.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
