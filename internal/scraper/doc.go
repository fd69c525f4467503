// Package scraper fetches per-subject class schedule pages and extracts the
// course database from them.
//
// The Fetcher downloads one HTML page per subject code from the registration
// system and hands it to the page store; subjects whose page is already stored
// are skipped, so an interrupted run can be resumed by running it again.
//
// The Extractor parses every stored page with goquery. It locates the course
// blocks, reads the title line, exclusion table and matching requirement of each
// course, groups the rows of the following sections table into sections (rows
// with an empty section cell continue the previous section) and converts time
// strings such as "MoWeFr10:00AM - 10:50AM" into weekday sets and fractional
// 24-hour start/end values.
package scraper
