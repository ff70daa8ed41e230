// Package planstore persists computed partition plans in Pebble so that a
// rerun over identical input is answered without recomputing the O(len²)
// optimizer.
//
// Plans are keyed by dataset name and an xxh3 digest of the input records
// and stored CBOR-encoded:
//
//	plan/{name}/{digest_be8} -> cbor(Plan)
package planstore
