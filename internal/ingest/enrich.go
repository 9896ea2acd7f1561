package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openregistry/prodex/internal/domain/professional"
)

// enrichmentFile is the on-disk enrichment lookup produced by the offline
// matching job: optional contact/rating/office overrides keyed by license
// number.
type enrichmentFile struct {
	GeneratedAt     string                             `json:"generatedAt"`
	ByLicenseNumber map[string]professional.Enrichment `json:"byLicenseNumber"`
}

// ReadEnrichment loads the enrichment lookup. Enrichment is strictly optional:
// a missing or unreadable file yields an empty lookup, never an error.
func ReadEnrichment(path string) map[string]professional.Enrichment {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil
	}

	var f enrichmentFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	return f.ByLicenseNumber
}
