package chi

import (
	"time"

	"github.com/openregistry/prodex/internal/domain/professional"
	"github.com/openregistry/prodex/internal/ingest"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeUnauthorized     = "unauthorized"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// searchResponse is the search page: the slice plus the pre-pagination total.
type searchResponse struct {
	Data   []*professional.Professional `json:"data"`
	Total  int                          `json:"total"`
	Limit  int                          `json:"limit"`
	Offset int                          `json:"offset"`
}

type statsResponse struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
	LastLoaded *time.Time     `json:"lastLoaded"`
}

type importRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type importResponse struct {
	Filename      string `json:"filename"`
	ImportedCount int    `json:"importedCount"`
}

type reloadResponse struct {
	Total      int           `json:"total"`
	LastLoaded time.Time     `json:"lastLoaded"`
	Stats      *ingest.Stats `json:"stats,omitempty"`
}
