// Package fontdl provides a command-line downloader for a font catalog.
// It pages through the catalog's AJAX search endpoint, resolves a download
// URL for every result row, and streams each font archive to local disk.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, fs/, bloom/).
package fontdl
