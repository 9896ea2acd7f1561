// Package professional defines the canonical licensed-professional entity that
// every source row is normalized into.
package professional

// Professional is the canonical record. It is constructed once during load and
// treated as immutable afterwards; only the enrichment merge (which runs before
// the dataset is frozen) touches the nullable contact/rating fields.
//
// JSON tags define both the snapshot format and the public API shape.
type Professional struct {
	// ID is the natural key: source id prefix + license number.
	// Unique across the whole loaded dataset.
	ID string `json:"id"`
	// Slug is the globally unique, URL-safe identifier derived from name+city.
	// Empty until the slug assigner runs; stable for the lifetime of a load.
	Slug string `json:"slug"`

	Name          string  `json:"name"`
	LicenseNumber string  `json:"licenseNumber"`
	LicenseType   string  `json:"licenseType"`
	Company       string  `json:"company"`
	OfficeName    *string `json:"officeName"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	County        string  `json:"county"`
	LicensedSince string  `json:"licensedSince"`
	Expires       string  `json:"expires"`
	Disciplined   bool    `json:"disciplined"`

	Category Category `json:"category"`

	// Claim state. The claim workflow lives outside this service; records load
	// unclaimed and stay that way here.
	Claimed        bool    `json:"claimed"`
	ClaimedByProID *string `json:"claimedByProId"`

	// Enrichment-tier fields: nil unless populated by a directory-shape row or
	// the enrichment merge.
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
	Website     *string  `json:"website"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
	PhotoURL    *string  `json:"photoUrl"`
}

// Enrichment is a keyed side-record of optional overrides for one professional,
// looked up by license number. Nil fields mean "no data" and never overwrite an
// already-populated value.
type Enrichment struct {
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
	Website     *string  `json:"website"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
	PhotoURL    *string  `json:"photoUrl"`
	OfficeName  *string  `json:"officeName"`
}

// Merge overlays e onto p, preferring enrichment values but keeping the
// record's own value wherever the enrichment side is nil. Source-of-truth
// license fields are never touched.
func (p *Professional) Merge(e Enrichment) {
	if e.Phone != nil {
		p.Phone = e.Phone
	}
	if e.Email != nil {
		p.Email = e.Email
	}
	if e.Website != nil {
		p.Website = e.Website
	}
	if e.Rating != nil {
		p.Rating = e.Rating
	}
	if e.ReviewCount != nil {
		p.ReviewCount = e.ReviewCount
	}
	if e.PhotoURL != nil {
		p.PhotoURL = e.PhotoURL
	}
	if e.OfficeName != nil {
		p.OfficeName = e.OfficeName
	}
}
