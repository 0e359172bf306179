// Package scraper turns the TimeTeam regatta results pages into races, fields
// and crews. Each page type has its own extractor; all remote reads go through
// a single Fetcher so timeout and error policy stay uniform.
package scraper
