// Package doclog curates a committee document log into durable logical documents.
// It extracts records from the log, classifies them into a fixed taxonomy, groups
// revisions of the same document, assigns stable public identifiers and publishes
// metadata plus audit indexes.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., yaml/, goquery/, sqlite/) or after the
// pipeline stage they implement (e.g., logparse/, group/, assign/).
package doclog

// Committee locations used to resolve and audit document links.
const (
	// LogURL is the location of the WG14 document log.
	LogURL = "https://www.open-std.org/jtc1/sc22/wg14/www/wg14_document_log.htm"

	// BaseURL is the prefix shared by every WG14 document.
	BaseURL = "https://www.open-std.org/jtc1/sc22/wg14/"
)

// DocPrefixes are the URL prefixes a linked record is expected to start with,
// each followed by the record ID and a dot.
var DocPrefixes = []string{
	BaseURL + "www/docs/n",
	BaseURL + "prot/n",
	BaseURL + "www/docs/historic/n",
	BaseURL + "www/docs/historic/n0",
}

// DefaultAuthor is used when a log line has no comma-delimited author segment.
const DefaultAuthor = "WG14"
