// Package catalog provides the course database types produced by the extractor.
//
// A Course carries its identity, credit count, exclusion list and the sections
// offered in the term. Each Section holds one or more weekly meeting Slots with
// days encoded as integers (Sunday=0 through Saturday=6) and start/end times as
// fractional 24-hour values. The JSON field names are consumed verbatim by the
// client-side scheduling page.
package catalog
