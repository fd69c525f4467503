// Package cli implements the command-line interface for ust-catalog.
//
// The cli package provides the Cobra-based CLI: fetch downloads one HTML page
// per subject, extract turns the stored pages into the course database file,
// and search, export-csv and ics read that file back for lookups and exports.
// It coordinates the config, scraper, storage and calendar packages and renders
// run summaries as text or JSON.
package cli
