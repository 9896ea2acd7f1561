package professional

// RejectReason classifies why a source row was dropped during normalization or
// load. Rejections are recovered locally (the row is skipped) and only the
// per-reason counts are observable.
type RejectReason string

const (
	// RejectNone marks an accepted row.
	RejectNone RejectReason = ""
	// RejectBlankLicense marks a row with an empty license-number field.
	RejectBlankLicense RejectReason = "blank_license_number"
	// RejectBusinessEntity marks a license-shape row flagged as a business.
	RejectBusinessEntity RejectReason = "business_entity"
	// RejectSkippedType marks a license type in the fixed skip set.
	RejectSkippedType RejectReason = "skipped_license_type"
	// RejectUnmappedType marks a license type with no category mapping.
	RejectUnmappedType RejectReason = "unmapped_license_type"
	// RejectInactive marks a directory-shape row whose status is not active.
	RejectInactive RejectReason = "inactive_status"
	// RejectNotAgent marks a directory-shape row whose license type does not
	// look like a broker/salesperson/realtor/agent.
	RejectNotAgent RejectReason = "not_agent_type"
	// RejectDuplicateID marks a row whose natural key was already seen in this
	// load (first occurrence wins).
	RejectDuplicateID RejectReason = "duplicate_id"
)

// Reasons lists every reject reason, in the order they are checked.
func Reasons() []RejectReason {
	return []RejectReason{
		RejectBlankLicense,
		RejectBusinessEntity,
		RejectSkippedType,
		RejectUnmappedType,
		RejectInactive,
		RejectNotAgent,
		RejectDuplicateID,
	}
}
