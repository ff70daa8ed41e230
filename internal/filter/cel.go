package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/rzbill/crlpart/internal/partition"
)

// Filter wraps a compiled CEL program that selects records before
// partitioning. When disabled, every record is kept.
type Filter struct {
	prog    cel.Program
	expr    string
	enabled bool
}

// Compile builds a Filter from a CEL expression over the variables
// time, n, r and index (all int). An empty expression disables filtering.
//
//	time >= 1700000000 && n > 0
func Compile(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("time", cel.IntType),
		cel.Variable("n", cel.IntType),
		cel.Variable("r", cel.IntType),
		// Position of the record in the input, after ingestion.
		cel.Variable("index", cel.IntType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, fmt.Errorf("filter: compile %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return Filter{}, fmt.Errorf("filter: %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return Filter{}, err
	}
	return Filter{prog: prog, expr: expr, enabled: true}, nil
}

// Enabled reports whether the filter has an expression.
func (f Filter) Enabled() bool { return f.enabled }

// String returns the source expression.
func (f Filter) String() string { return f.expr }

// Apply returns the records for which the expression holds, preserving
// order. The input slice is not modified.
func (f Filter) Apply(records []partition.Record) ([]partition.Record, error) {
	if !f.enabled {
		return records, nil
	}
	out := make([]partition.Record, 0, len(records))
	for i, rec := range records {
		keep, err := f.Eval(i, rec)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Eval evaluates the expression against one record.
func (f Filter) Eval(index int, rec partition.Record) (bool, error) {
	if !f.enabled {
		return true, nil
	}
	out, _, err := f.prog.Eval(map[string]any{
		"time":  clampInt(rec.Time),
		"n":     clampInt(rec.N),
		"r":     clampInt(rec.R),
		"index": int64(index),
	})
	if err != nil {
		return false, fmt.Errorf("filter: eval record %d: %w", index, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter: record %d: non-bool result %v", index, out.Value())
	}
	return b, nil
}

// clampInt maps uint64 into CEL's int domain.
func clampInt(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
