// Package filter selects input records with a CEL expression, e.g. to
// restrict a run to buckets that have not yet expired:
//
//	f, err := filter.Compile("time >= 1735689600 && n > 0")
//	kept, err := f.Apply(records)
package filter
