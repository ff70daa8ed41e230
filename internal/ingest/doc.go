// Package ingest reads partition records from text.
//
// Each line is "timestamp, n, r" with commas optional. Lines that do not
// carry three unsigned integers are dropped, never fatal; Stats reports how
// many were skipped so callers can log it.
package ingest
