// Package storage provides file persistence for fetched pages and the
// generated course database.
//
// Fetched subject pages live in one directory, one file per subject
// (e.g. COMP.html). The presence of a page file is the only "already fetched"
// marker, so pages are always written through a temporary file and renamed
// into place. The course database is written the same way as a script
// assigning a JSON array to a named constant, ready to be loaded by the
// client-side scheduling page.
package storage
